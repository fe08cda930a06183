package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
	"github.com/fleetstack/rental_ledger_app/internal/utils/references"
)

// Both fact types expect the full rental charge: the posting policy is a
// deferred-revenue pair, billing the charge at activation and recognizing
// the same amount at completion.
const (
	factReservationActivation = "reservation-activation"
	factReservationCompletion = "reservation-completion"
)

// reconciliationService detects drift between the reservation lifecycle and
// the ledger. It reads both sides without locks, classifies each fact, and
// writes an append-only report. It never posts, never mutates reservations,
// and never retries anything on the caller's behalf.
type reconciliationService struct {
	reservationRepo portsrepo.ReservationReader
	assetRepo       portsrepo.AssetReader
	journalRepo     portsrepo.JournalReader
	reportRepo      portsrepo.ReconciliationRepositoryFacade
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	reservationRepo portsrepo.ReservationReader,
	assetRepo portsrepo.AssetReader,
	journalRepo portsrepo.JournalReader,
	reportRepo portsrepo.ReconciliationRepositoryFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reservationRepo: reservationRepo,
		assetRepo:       assetRepo,
		journalRepo:     journalRepo,
		reportRepo:      reportRepo,
	}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Reconcile checks every reservation fact observed within [periodStart,
// periodEnd) against the posting its derived external reference should carry.
// Concurrent writes during the run can only make a finding conservatively
// stale (a MISSING that has since been posted), never corrupt the report.
func (s *reconciliationService) Reconcile(ctx context.Context, req dto.ReconcileRequest, actorID string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, fmt.Errorf("%w: reconciliation period end must be after start", apperrors.ErrValidation)
	}

	reportID := uuid.NewString()
	var findings []domain.ReconciliationFinding

	if req.Scope == domain.ScopeActivations || req.Scope == domain.ScopeAll {
		reservations, err := s.reservationRepo.ListActivatedInPeriod(ctx, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			logger.Error("Failed to list activated reservations", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to list activations: %w", err)
		}
		fs, err := s.classify(ctx, reportID, reservations, factReservationActivation, references.ReservationActivation)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)
	}

	if req.Scope == domain.ScopeCompletions || req.Scope == domain.ScopeAll {
		reservations, err := s.reservationRepo.ListCompletedInPeriod(ctx, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			logger.Error("Failed to list completed reservations", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to list completions: %w", err)
		}
		fs, err := s.classify(ctx, reportID, reservations, factReservationCompletion, references.ReservationCompletion)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)
	}

	report := domain.ReconciliationReport{
		ReportID:    reportID,
		Scope:       req.Scope,
		PeriodStart: req.PeriodStart.UTC(),
		PeriodEnd:   req.PeriodEnd.UTC(),
		GeneratedAt: time.Now().UTC(),
		CreatedBy:   actorID,
	}
	for _, f := range findings {
		switch f.Status {
		case domain.FindingMatched:
			report.Matched++
		case domain.FindingMissing:
			report.Missing++
		case domain.FindingAmountMismatch:
			report.Mismatched++
		}
	}

	if err := s.reportRepo.SaveReport(ctx, report, findings); err != nil {
		logger.Error("Failed to save reconciliation report", slog.String("report_id", reportID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reconciliation report: %w", err)
	}

	report.Findings = findings
	logger.Info("Reconciliation run complete",
		slog.String("report_id", reportID),
		slog.String("scope", string(report.Scope)),
		slog.Int("matched", report.Matched),
		slog.Int("missing", report.Missing),
		slog.Int("mismatched", report.Mismatched),
	)
	return &report, nil
}

// classify checks one fact type across a set of reservations. The stored
// journals are fetched in one batch by their derived external references.
func (s *reconciliationService) classify(
	ctx context.Context,
	reportID string,
	reservations []domain.Reservation,
	factType string,
	deriveRef func(reservationID string) string,
) ([]domain.ReconciliationFinding, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if len(reservations) == 0 {
		return nil, nil
	}

	refs := make([]string, 0, len(reservations))
	assetIDs := make([]string, 0, len(reservations))
	for _, r := range reservations {
		refs = append(refs, deriveRef(r.ReservationID))
		assetIDs = append(assetIDs, r.AssetID)
	}

	journals, err := s.journalRepo.FindJournalsByExternalRefs(ctx, refs)
	if err != nil {
		logger.Error("Failed to fetch journals by external refs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch journals for reconciliation: %w", err)
	}
	assets, err := s.assetRepo.FindAssetsByIDs(ctx, assetIDs)
	if err != nil {
		logger.Error("Failed to fetch assets for reconciliation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch assets for reconciliation: %w", err)
	}

	findings := make([]domain.ReconciliationFinding, 0, len(reservations))
	for _, r := range reservations {
		ref := deriveRef(r.ReservationID)
		finding := domain.ReconciliationFinding{
			FindingID:   uuid.NewString(),
			ReportID:    reportID,
			FactType:    factType,
			FactID:      r.ReservationID,
			ExternalRef: ref,
		}

		asset, found := assets[r.AssetID]
		if !found {
			return nil, fmt.Errorf("asset %s referenced by reservation %s: %w", r.AssetID, r.ReservationID, apperrors.ErrNotFound)
		}
		expected := asset.DailyRate.Mul(decimal.NewFromInt(r.ChargeDays()))
		finding.ExpectedAmount = expected

		journal, posted := journals[ref]
		switch {
		case !posted:
			finding.Status = domain.FindingMissing
			finding.Detail = fmt.Sprintf("no journal posted under reference %s", ref)
		case !journal.Amount.Equal(expected):
			amt := journal.Amount
			finding.Status = domain.FindingAmountMismatch
			finding.PostedAmount = &amt
			finding.Detail = fmt.Sprintf("expected %s, posted %s", expected.String(), journal.Amount.String())
		default:
			amt := journal.Amount
			finding.Status = domain.FindingMatched
			finding.PostedAmount = &amt
		}
		findings = append(findings, finding)
	}
	return findings, nil
}

// GetReportByID retrieves a past report with its findings.
func (s *reconciliationService) GetReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports retrieves past report headers, newest first.
func (s *reconciliationService) ListReports(ctx context.Context, limit, offset int) ([]domain.ReconciliationReport, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	reports, err := s.reportRepo.ListReports(ctx, limit, offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list reconciliation reports", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve reports: %w", err)
	}
	return reports, nil
}
