package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/middleware"
)

// respondWithError translates a service error into an HTTP response. Detail
// strings accumulated by the service layer are passed through so the client
// sees every problem at once.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
		message = apperrors.ErrBadRequest.Error()
	case errors.Is(err, apperrors.ErrBadAccount), errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = apperrors.ErrBadAccount.Error()
	case errors.Is(err, apperrors.ErrRevisionMismatch):
		status = http.StatusConflict
		message = apperrors.ErrRevisionMismatch.Error()
	case errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusConflict
		message = apperrors.ErrDuplicate.Error()
	case errors.Is(err, apperrors.ErrRuleViolation):
		status = http.StatusUnprocessableEntity
		message = apperrors.ErrRuleViolation.Error()
	case errors.Is(err, apperrors.ErrInvalidData):
		// A rejected chart template: the request is fine, the data it
		// referenced is not. Details say what is wrong with it.
		status = http.StatusUnprocessableEntity
		message = apperrors.ErrInvalidData.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": message})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	body := gin.H{"error": message}
	if details := apperrors.DetailsOf(err); len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}
