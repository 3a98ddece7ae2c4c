package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
	"github.com/mafujur-rahman/cash-plus-server/internal/utils"
	"github.com/ulule/limiter/v3"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	accountService portssvc.AccountSvcFacade
	analytics      *utils.PosthogClientWrapper
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AccountSvcFacade, analytics *utils.PosthogClientWrapper) *AuthHandler {
	return &AuthHandler{
		accountService: as,
		analytics:      analytics,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, accountService portssvc.AccountSvcFacade, loginLimiter *limiter.Limiter, analytics *utils.PosthogClientWrapper) {
	h := NewAuthHandler(accountService, analytics)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Login)
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a pending account. Users start with 40, agents with 10000.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid registration request", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.PosthogEvent(h.analytics, account.AccountID, "account_registered", map[string]any{
		"role": string(account.Role),
	})

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		AccountID: account.AccountID,
		Status:    account.Status,
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticates an approved account by email or mobile number and PIN, returning a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid login request", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	result, err := h.accountService.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(result))
}
