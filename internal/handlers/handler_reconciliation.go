package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests related to reconciliation runs.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
	}
}

// registerReconciliationRoutes registers routes related to reconciliation.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	reports := rg.Group("/reconciliations")
	{
		reports.POST("", h.runReconciliation)
		reports.GET("", h.listReports)
		reports.GET("/:id", h.getReport)
	}
}

func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("scope", string(req.Scope)), slog.String("actor_id", actorID))
	logger.Info("Received request to run reconciliation")

	report, err := h.reconciliationService.Reconcile(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error running reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to run reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation completed",
		slog.String("report_id", report.ReportID),
		slog.Int("matched", report.Matched),
		slog.Int("missing", report.Missing),
		slog.Int("mismatched", report.Mismatched))
	c.JSON(http.StatusCreated, dto.ToReconciliationReportResponse(report))
}

func (h *reconciliationHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("id")

	report, err := h.reconciliationService.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			logger.Error("Failed to retrieve report", slog.String("report_id", reportID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

func (h *reconciliationHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}

	reports, err := h.reconciliationService.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list reports", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	responses := make([]dto.ReconciliationReportResponse, len(reports))
	for i := range reports {
		responses[i] = dto.ToReconciliationReportResponse(&reports[i])
	}
	c.JSON(http.StatusOK, responses)
}
