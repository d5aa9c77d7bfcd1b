package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
	"github.com/openbooks/ledger_core_app/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
	}
}

// getAccount returns one account together with its current revision token.
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("accountID")

	resp, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateAccount applies a rename/flag/extra update guarded by the revision
// token the client obtained from a prior read.
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := actingUserID(c)
	logger.Info("Received request to update account", slog.String("account_id", accountID))

	resp, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// actingUserID resolves the user an operation is attributed to. Requests from
// unidentified callers are attributed to "system".
func actingUserID(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromCtx(c.Request.Context()); ok && userID != "" {
		return userID
	}
	return "system"
}
