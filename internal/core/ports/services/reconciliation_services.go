package services

import (
	"context"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
)

// ReconciliationSvcFacade runs reconciliations and retrieves past reports.
type ReconciliationSvcFacade interface {
	// Reconcile compares reservation facts in the requested period against
	// the postings they should have produced, classifies each fact, and
	// persists a new append-only report. It never corrects anything.
	Reconcile(ctx context.Context, req dto.ReconcileRequest, actorID string) (*domain.ReconciliationReport, error)

	// GetReportByID retrieves a past report with its findings.
	GetReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error)

	// ListReports retrieves past report headers, newest first.
	ListReports(ctx context.Context, limit, offset int) ([]domain.ReconciliationReport, error)
}
