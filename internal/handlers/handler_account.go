package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
)

// AccountHandler serves the caller's own account and the admin approval route.
type AccountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(as portssvc.AccountSvcFacade) *AccountHandler {
	return &AccountHandler{accountService: as}
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := NewAccountHandler(accountService)
	rg.GET("/accounts/me", h.getMyAccount)
}

func registerAdminRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := NewAccountHandler(accountService)
	rg.PATCH("/accounts/:accountID/status", h.updateAccountStatus)
}

// getMyAccount godoc
// @Summary Get the current account
// @Description Returns the account of the session holder, including its balance.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/accounts/me [get]
// @Security BearerAuth
func (h *AccountHandler) getMyAccount(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccountStatus godoc
// @Summary Approve or reject an account
// @Description Moves a pending account to approved or rejected.
// @Tags admin
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param status body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/accounts/{accountID}/status [patch]
// @Security AdminKey
func (h *AccountHandler) updateAccountStatus(c *gin.Context) {
	accountID := c.Param("accountID")

	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	account, err := h.accountService.SetAccountStatus(c.Request.Context(), accountID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account status updated",
		"target_account_id", accountID, "status", string(account.Status))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
