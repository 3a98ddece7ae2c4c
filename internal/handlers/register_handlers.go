package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/mafujur-rahman/cash-plus-server/cmd/docs"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
	"github.com/mafujur-rahman/cash-plus-server/internal/platform/config"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil loginLimiter falls back to an in-process limiter built from cfg.LoginRateLimit.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter *limiter.Limiter,
	analytics *utils.PosthogClientWrapper,
) {
	// Request bodies with fields we do not know are rejected with 400.
	binding.EnableDecoderDisallowUnknownFields = true

	r.GET("/", getHome)
	r.GET("/health", getHealth)

	if loginLimiter == nil {
		loginLimiter = utils.NewMemoryLimiter(cfg.LoginRateLimit)
	}

	// Public authentication routes
	registerAuthRoutes(r, services.Account, loginLimiter, analytics)

	setupAPIV1Routes(r, services)

	// Administrative routes authenticate with a static key, not a session.
	admin := r.Group("/admin", middleware.AdminKeyAuth(cfg.AdminAPIKey))
	registerAdminRoutes(admin, services.Account)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the session-protected /api/v1 group.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Sessions))

	registerAccountRoutes(v1, services.Account)
	registerTransferRoutes(v1, services.Ledger)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
