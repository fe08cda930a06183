package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests related to journal posting and balances.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers routes related to journals and balances.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
	}

	rg.GET("/balances/:accountCode", h.getBalance)
	rg.GET("/accounts/:id/transactions", h.listAccountTransactions)
}

func (h *ledgerHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("external_ref", req.ExternalRef), slog.String("actor_id", actorID))
	logger.Info("Received request to post journal")

	journal, alreadyPosted, err := h.ledgerService.Post(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnbalanced) || errors.Is(err, apperrors.ErrAccountUnknown) || errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Posting rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post journal", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post journal"})
		}
		return
	}

	// A retry of an already-posted reference is a success, just not a new one.
	status := http.StatusCreated
	if alreadyPosted {
		status = http.StatusOK
		logger.Info("External reference already posted, returning stored journal", slog.String("journal_id", journal.JournalID))
	} else {
		logger.Info("Journal posted", slog.String("journal_id", journal.JournalID))
	}
	c.JSON(status, dto.ToJournalResponse(journal, alreadyPosted))
}

func (h *ledgerHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	journal, err := h.ledgerService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		} else {
			logger.Error("Failed to retrieve journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal, false))
}

// listJournals doubles as the external reference lookup: when the
// externalRef query parameter is set it returns that single journal.
func (h *ledgerHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if externalRef := c.Query("externalRef"); externalRef != "" {
		journal, err := h.ledgerService.GetJournalByExternalRef(c.Request.Context(), externalRef)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			} else {
				logger.Error("Failed to retrieve journal by external ref", slog.String("external_ref", externalRef), slog.String("error", err.Error()))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal"})
			}
			return
		}
		c.JSON(http.StatusOK, dto.ToJournalResponse(journal, false))
		return
	}

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListJournals(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list journals", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list journals"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ledgerHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	logger.Info("Received request to reverse journal")

	reversal, err := h.ledgerService.ReverseJournal(c.Request.Context(), journalID, req.ExternalRef, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		} else if errors.Is(err, apperrors.ErrInvalidTransition) {
			logger.Warn("Journal not reversible", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Reversal rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reverse journal", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse journal"})
		}
		return
	}

	logger.Info("Journal reversed", slog.String("reversal_journal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal, false))
}

func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountCode := c.Param("accountCode")

	asOf := time.Now().UTC()
	if asOfParam := c.Query("asOf"); asOfParam != "" {
		parsed, err := time.Parse(time.RFC3339, asOfParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf parameter, expected RFC3339 timestamp"})
			return
		}
		asOf = parsed
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), accountCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountUnknown) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("account_code", accountCode), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountCode: accountCode,
		AsOf:        asOf,
		Balance:     balance,
	})
}

func (h *ledgerHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
