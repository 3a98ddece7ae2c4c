package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/mafujur-rahman/cash-plus-server/internal/dto"
	"github.com/mafujur-rahman/cash-plus-server/internal/middleware"
)

// statusForError maps application sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrIndeterminate):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error response for err. Server side failures are logged
// and their details withheld from the client.
func respondWithError(c *gin.Context, err error) {
	status := statusForError(err)
	body := dto.ErrorResponse{Error: err.Error()}

	switch status {
	case http.StatusGatewayTimeout:
		body.Error = "Transfer outcome unknown"
		body.Hint = "Query GET /api/v1/transfers/{idempotencyKey} before retrying"
	case http.StatusServiceUnavailable:
		body.Error = "Service temporarily unavailable"
	case http.StatusInternalServerError:
		body.Error = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	c.AbortWithStatusJSON(status, body)
}

// respondWithBindError answers a request whose body could not be decoded or validated.
func respondWithBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body: " + err.Error()})
}
