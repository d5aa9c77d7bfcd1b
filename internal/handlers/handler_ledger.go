package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
	"github.com/openbooks/ledger_core_app/internal/middleware"
)

// ledgerHandler handles HTTP requests related to the ledger as a whole.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers bootstrap and ledger-wide read routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("", h.createLedger)
		ledger.GET("/root", h.getRootAccount)
		ledger.GET("/currencies", h.listCurrencies)
		ledger.GET("/domains", h.listDomains)
		ledger.GET("/subjournals", h.listSubJournals)
	}
}

// createLedger bootstraps a brand-new ledger from the posted spec. The whole
// operation is atomic; a second call against a bootstrapped ledger fails.
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := actingUserID(c)
	logger.Info("Received request to bootstrap ledger",
		slog.Int("currencies", len(req.Currencies)),
		slog.Int("accounts", len(req.Accounts)),
		slog.Bool("use_template", req.UseTemplate),
	)

	resp, err := h.ledgerService.CreateLedger(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getRootAccount returns the ledger root with its current revision token.
func (h *ledgerHandler) getRootAccount(c *gin.Context) {
	resp, err := h.ledgerService.GetRootAccount(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) listCurrencies(c *gin.Context) {
	resp, err := h.ledgerService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) listDomains(c *gin.Context) {
	resp, err := h.ledgerService.ListDomains(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) listSubJournals(c *gin.Context) {
	resp, err := h.ledgerService.ListSubJournals(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
