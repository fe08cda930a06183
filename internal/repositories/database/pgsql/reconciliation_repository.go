package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	"github.com/fleetstack/rental_ledger_app/internal/models"
	"github.com/fleetstack/rental_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation reports.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reportColumns = `report_id, scope, period_start, period_end, generated_at, matched, missing, mismatched, created_by`

// SaveReport inserts a report header and its findings within one DB
// transaction. Reports are insert-only; there is no update path.
func (r *PgxReconciliationRepository) SaveReport(ctx context.Context, report domain.ReconciliationReport, findings []domain.ReconciliationFinding) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationReport(report)
	reportQuery := `
		INSERT INTO reconciliation_reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, reportQuery,
		m.ReportID,
		m.Scope,
		m.PeriodStart,
		m.PeriodEnd,
		m.GeneratedAt,
		m.Matched,
		m.Missing,
		m.Mismatched,
		m.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation report "+m.ReportID, err)
	}

	if len(findings) > 0 {
		batch := &pgx.Batch{}
		findingQuery := `
			INSERT INTO reconciliation_findings (finding_id, report_id, fact_type, fact_id, external_ref, expected_amount, posted_amount, status, detail)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		for _, f := range findings {
			mf := mapping.ToModelReconciliationFinding(f)
			batch.Queue(findingQuery,
				mf.FindingID,
				mf.ReportID,
				mf.FactType,
				mf.FactID,
				mf.ExternalRef,
				mf.ExpectedAmount,
				mf.PostedAmount,
				mf.Status,
				mf.Detail,
			)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute finding batch for report "+m.ReportID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit reconciliation report "+m.ReportID, err)
	}

	return nil
}

// FindReportByID retrieves a report with its findings.
func (r *PgxReconciliationRepository) FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reconciliation_reports WHERE report_id = $1;`

	var m models.ReconciliationReport
	err := r.Pool.QueryRow(ctx, query, reportID).Scan(
		&m.ReportID,
		&m.Scope,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.GeneratedAt,
		&m.Matched,
		&m.Missing,
		&m.Mismatched,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation report %s: %w", reportID, err)
	}

	findingsQuery := `
		SELECT finding_id, report_id, fact_type, fact_id, external_ref, expected_amount, posted_amount, status, detail
		FROM reconciliation_findings
		WHERE report_id = $1
		ORDER BY fact_type, fact_id;
	`
	rows, err := r.Pool.Query(ctx, findingsQuery, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings for report %s: %w", reportID, err)
	}
	defer rows.Close()

	report := mapping.ToDomainReconciliationReport(m)
	for rows.Next() {
		var mf models.ReconciliationFinding
		if err := rows.Scan(
			&mf.FindingID,
			&mf.ReportID,
			&mf.FactType,
			&mf.FactID,
			&mf.ExternalRef,
			&mf.ExpectedAmount,
			&mf.PostedAmount,
			&mf.Status,
			&mf.Detail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan finding row for report %s: %w", reportID, err)
		}
		report.Findings = append(report.Findings, mapping.ToDomainReconciliationFinding(mf))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating finding rows for report %s: %w", reportID, err)
	}

	return &report, nil
}

// ListReports retrieves report headers, newest first. Findings are not
// loaded; fetch a single report for those.
func (r *PgxReconciliationRepository) ListReports(ctx context.Context, limit int, offset int) ([]domain.ReconciliationReport, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + reportColumns + `
		FROM reconciliation_reports
		ORDER BY generated_at DESC
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.ReconciliationReport{}
	for rows.Next() {
		var m models.ReconciliationReport
		if err := rows.Scan(
			&m.ReportID,
			&m.Scope,
			&m.PeriodStart,
			&m.PeriodEnd,
			&m.GeneratedAt,
			&m.Matched,
			&m.Missing,
			&m.Mismatched,
			&m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation report row: %w", err)
		}
		reports = append(reports, mapping.ToDomainReconciliationReport(m))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation report rows: %w", err)
	}

	return reports, nil
}
