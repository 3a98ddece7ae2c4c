package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/mafujur-rahman/cash-plus-server/internal/core/ports/services"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
)

// IdempotencyKeyHeader carries the optional client key that makes a transfer safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// TransferHandler handles peer-to-peer transfers.
type TransferHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(ls portssvc.LedgerSvcFacade) *TransferHandler {
	return &TransferHandler{ledgerService: ls}
}

func registerTransferRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := NewTransferHandler(ledgerService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("/:idempotencyKey", h.getTransferStatus)
	}
}

// createTransfer godoc
// @Summary Send money
// @Description Debits totalAmount from the caller and credits amount to the receiver in one atomic step.
// @Description Retrying with the same Idempotency-Key returns the original transfer.
// @Tags transfers
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client chosen key, unique per sender"
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /api/v1/transfers [post]
// @Security BearerAuth
func (h *TransferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid transfer request", slog.String("error", err.Error()))
		respondWithBindError(c, err)
		return
	}

	transfer, err := h.ledgerService.Transfer(c.Request.Context(), caller, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// getTransferStatus godoc
// @Summary Look up a transfer by idempotency key
// @Description Resolves the outcome of a transfer whose response was lost or timed out.
// @Tags transfers
// @Produce json
// @Param idempotencyKey path string true "Idempotency key used when sending"
// @Success 200 {object} dto.TransferResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/transfers/{idempotencyKey} [get]
// @Security BearerAuth
func (h *TransferHandler) getTransferStatus(c *gin.Context) {
	caller, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.ledgerService.GetTransferStatus(c.Request.Context(), caller, c.Param("idempotencyKey"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}
