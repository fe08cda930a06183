package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/core/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/utils/references"
)

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

// Ensure MockReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveReport(ctx context.Context, report domain.ReconciliationReport, findings []domain.ReconciliationFinding) error {
	args := m.Called(ctx, report, findings)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindReportByID(ctx context.Context, reportID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockReconciliationRepository) ListReports(ctx context.Context, limit int, offset int) ([]domain.ReconciliationReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationReport), args.Error(1)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReservationRepo *MockReservationRepository
	mockAssetRepo       *MockAssetRepository
	mockJournalRepo     *MockJournalRepository
	mockReportRepo      *MockReconciliationRepository
	service             portssvc.ReconciliationSvcFacade
	asset               domain.Asset
	periodStart         time.Time
	periodEnd           time.Time
	actorID             string
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReservationRepo = new(MockReservationRepository)
	suite.mockAssetRepo = new(MockAssetRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockReportRepo = new(MockReconciliationRepository)
	suite.service = services.NewReconciliationService(
		suite.mockReservationRepo,
		suite.mockAssetRepo,
		suite.mockJournalRepo,
		suite.mockReportRepo,
	)

	suite.actorID = uuid.NewString()
	suite.asset = domain.Asset{
		AssetID:      uuid.NewString(),
		Name:         "VAN-042",
		Status:       domain.AssetAvailable,
		DailyRate:    decimal.NewFromInt(75),
		CurrencyCode: "USD",
	}
	suite.periodStart = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

// activatedReservation builds a reservation spanning three full days,
// activated inside the reconciliation period.
func (suite *ReconciliationServiceTestSuite) activatedReservation() domain.Reservation {
	activatedAt := suite.periodStart.Add(24 * time.Hour)
	start := suite.periodStart.Add(24 * time.Hour)
	return domain.Reservation{
		ReservationID: uuid.NewString(),
		AssetID:       suite.asset.AssetID,
		CustomerRef:   "cust-1001",
		StartAt:       start,
		EndAt:         start.Add(72 * time.Hour),
		Status:        domain.Active,
		ActivatedAt:   &activatedAt,
	}
}

func (suite *ReconciliationServiceTestSuite) reconcileRequest(scope domain.ReconciliationScope) dto.ReconcileRequest {
	return dto.ReconcileRequest{
		Scope:       scope,
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
	}
}

// --- Test Cases ---

func (suite *ReconciliationServiceTestSuite) TestReconcile_AllMatched() {
	ctx := context.Background()
	reservation := suite.activatedReservation()
	ref := references.ReservationActivation(reservation.ReservationID)
	expected := decimal.NewFromInt(225) // 3 days at 75

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{reservation}, nil).Once()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, []string{ref}).
		Return(map[string]domain.Journal{
			ref: {JournalID: uuid.NewString(), ExternalRef: ref, Amount: expected, Status: domain.Posted},
		}, nil).Once()
	suite.mockAssetRepo.On("FindAssetsByIDs", ctx, []string{suite.asset.AssetID}).
		Return(map[string]domain.Asset{suite.asset.AssetID: suite.asset}, nil).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.ReconciliationReport"), mock.AnythingOfType("[]domain.ReconciliationFinding")).
		Return(nil).Once()

	report, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(1, report.Matched)
	suite.Equal(0, report.Missing)
	suite.Equal(0, report.Mismatched)
	suite.Require().Len(report.Findings, 1)

	finding := report.Findings[0]
	suite.Equal(domain.FindingMatched, finding.Status)
	suite.Equal(reservation.ReservationID, finding.FactID)
	suite.Equal(ref, finding.ExternalRef)
	suite.True(finding.ExpectedAmount.Equal(expected))
	suite.Require().NotNil(finding.PostedAmount)
	suite.True(finding.PostedAmount.Equal(expected))

	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_MissingPosting() {
	ctx := context.Background()
	reservation := suite.activatedReservation()

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{reservation}, nil).Once()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, mock.Anything).
		Return(map[string]domain.Journal{}, nil).Once()
	suite.mockAssetRepo.On("FindAssetsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Asset{suite.asset.AssetID: suite.asset}, nil).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	report, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(0, report.Matched)
	suite.Equal(1, report.Missing)
	suite.Require().Len(report.Findings, 1)
	suite.Equal(domain.FindingMissing, report.Findings[0].Status)
	suite.Nil(report.Findings[0].PostedAmount)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_AmountMismatch() {
	ctx := context.Background()
	reservation := suite.activatedReservation()
	ref := references.ReservationActivation(reservation.ReservationID)
	posted := decimal.NewFromInt(150) // 225 expected

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{reservation}, nil).Once()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, mock.Anything).
		Return(map[string]domain.Journal{
			ref: {JournalID: uuid.NewString(), ExternalRef: ref, Amount: posted, Status: domain.Posted},
		}, nil).Once()
	suite.mockAssetRepo.On("FindAssetsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Asset{suite.asset.AssetID: suite.asset}, nil).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	report, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(1, report.Mismatched)
	suite.Require().Len(report.Findings, 1)

	finding := report.Findings[0]
	suite.Equal(domain.FindingAmountMismatch, finding.Status)
	suite.True(finding.ExpectedAmount.Equal(decimal.NewFromInt(225)))
	suite.Require().NotNil(finding.PostedAmount)
	suite.True(finding.PostedAmount.Equal(posted))
	suite.NotEmpty(finding.Detail)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ScopeAllCoversBothFactTypes() {
	ctx := context.Background()
	activated := suite.activatedReservation()
	completedAt := suite.periodStart.Add(48 * time.Hour)
	completed := suite.activatedReservation()
	completed.Status = domain.Completed
	completed.CompletedAt = &completedAt

	activationRef := references.ReservationActivation(activated.ReservationID)
	completionRef := references.ReservationCompletion(completed.ReservationID)
	expected := decimal.NewFromInt(225)

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{activated}, nil).Once()
	suite.mockReservationRepo.On("ListCompletedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{completed}, nil).Once()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, []string{activationRef}).
		Return(map[string]domain.Journal{
			activationRef: {JournalID: uuid.NewString(), Amount: expected},
		}, nil).Once()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, []string{completionRef}).
		Return(map[string]domain.Journal{}, nil).Once()
	suite.mockAssetRepo.On("FindAssetsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Asset{suite.asset.AssetID: suite.asset}, nil).Twice()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	report, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeAll), suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(1, report.Matched)
	suite.Equal(1, report.Missing)
	suite.Len(report.Findings, 2)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_EmptyPeriod() {
	ctx := context.Background()

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{}, nil).Once()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	report, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(0, report.Matched+report.Missing+report.Mismatched)
	suite.Empty(report.Findings)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalsByExternalRefs", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_InvertedPeriod() {
	ctx := context.Background()
	req := dto.ReconcileRequest{
		Scope:       domain.ScopeAll,
		PeriodStart: suite.periodEnd,
		PeriodEnd:   suite.periodStart,
	}

	_, err := suite.service.Reconcile(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ReportsAppendOnly() {
	ctx := context.Background()
	reservation := suite.activatedReservation()

	suite.mockReservationRepo.On("ListActivatedInPeriod", ctx, suite.periodStart, suite.periodEnd).
		Return([]domain.Reservation{reservation}, nil).Twice()
	suite.mockJournalRepo.On("FindJournalsByExternalRefs", ctx, mock.Anything).
		Return(map[string]domain.Journal{}, nil).Twice()
	suite.mockAssetRepo.On("FindAssetsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Asset{suite.asset.AssetID: suite.asset}, nil).Twice()
	suite.mockReportRepo.On("SaveReport", ctx, mock.Anything, mock.Anything).Return(nil).Twice()

	first, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)
	suite.Require().NoError(err)
	second, err := suite.service.Reconcile(ctx, suite.reconcileRequest(domain.ScopeActivations), suite.actorID)
	suite.Require().NoError(err)

	// Two runs over the same period produce two distinct reports.
	suite.NotEqual(first.ReportID, second.ReportID)
	suite.mockReportRepo.AssertNumberOfCalls(suite.T(), "SaveReport", 2)
}

func (suite *ReconciliationServiceTestSuite) TestGetReportByID() {
	ctx := context.Background()
	reportID := uuid.NewString()
	stored := &domain.ReconciliationReport{ReportID: reportID, Scope: domain.ScopeAll}

	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(stored, nil).Once()

	report, err := suite.service.GetReportByID(ctx, reportID)

	suite.Require().NoError(err)
	suite.Equal(reportID, report.ReportID)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
