package repositories

import (
	"context"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
)

// ReconciliationReader defines read operations for past reconciliation runs.
type ReconciliationReader interface {
	// FindReportByID retrieves a report with its findings.
	FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error)

	// ListReports retrieves report headers, newest first.
	ListReports(ctx context.Context, limit int, offset int) ([]domain.ReconciliationReport, error)
}

// ReconciliationWriter persists completed runs. Reports accumulate; there is
// no update or delete path.
type ReconciliationWriter interface {
	// SaveReport inserts a report header and its findings atomically.
	SaveReport(ctx context.Context, report domain.ReconciliationReport, findings []domain.ReconciliationFinding) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
