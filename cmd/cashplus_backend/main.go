package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	portsrepo "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/repositories"
	"github.com/mafujur-rahman/cash-plus-server/internal/core/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/events"
	"github.com/mafujur-rahman/cash-plus-server/internal/handlers"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
	"github.com/mafujur-rahman/cash-plus-server/internal/platform/config"
	"github.com/mafujur-rahman/cash-plus-server/internal/repositories/database/pgsql"
	"github.com/mafujur-rahman/cash-plus-server/internal/repositories/memory"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
	"github.com/mafujur-rahman/cash-plus-server/pkg/database"
	"github.com/ulule/limiter/v3"
)

// @title Cash Plus API
// @version 1.0
// @description Wallet service: registration, login and peer-to-peer transfers.

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	publisher := events.NewPublisher(cfg.RabbitMQURL, cfg.EventsExchange, logger)
	defer publisher.Close()

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	loginLimiter, closeLimiter := setupLoginLimiter(ctx, cfg, logger)
	defer closeLimiter()

	serviceContainer := services.NewServiceContainer(cfg, repos, publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsConfig.AddAllowHeaders("Authorization", handlers.IdempotencyKeyHeader, middleware.AdminKeyHeader, middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader)

	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig),
		middleware.PosthogMiddleware(posthogClient),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, loginLimiter, posthogClient)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// setupRepositories builds the repository provider for the configured storage driver.
// The returned func releases the underlying resources.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage, data will be lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil
}

// setupLoginLimiter prefers a Redis backed limiter so every instance shares one budget,
// and falls back to an in-process one.
func setupLoginLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*limiter.Limiter, func()) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, login rate limit is kept in memory")
		return utils.NewMemoryLimiter(cfg.LoginRateLimit), func() {}
	}

	l, client, err := utils.NewRedisLimiter(ctx, cfg.RedisURL, cfg.LoginRateLimit)
	if err != nil {
		logger.Error("Failed to initialize redis rate limiter, falling back to memory", slog.String("error", err.Error()))
		return utils.NewMemoryLimiter(cfg.LoginRateLimit), func() {}
	}
	logger.Info("Login rate limit backed by redis")
	return l, func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
}
