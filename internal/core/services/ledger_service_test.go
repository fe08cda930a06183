package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/core/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, transactions, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalsByExternalRefs(ctx context.Context, externalRefs []string) (map[string]domain.Journal, error) {
	args := m.Called(ctx, externalRefs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, status, reversingJournalID, originalJournalID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockJournalRepository) FindTransactionsByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.Transaction, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Transaction), args.Error(1)
}

func (m *MockJournalRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SumAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.LedgerSvcFacade
	receivableAcct   domain.Account
	revenueAcct      domain.Account
	depositAcct      domain.Account
	actorID          string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.actorID = uuid.NewString()

	suite.receivableAcct = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1100",
		AccountType:  domain.AccountTypeAsset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.revenueAcct = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "4000",
		AccountType:  domain.AccountTypeRevenue,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	suite.depositAcct = domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "2100",
		AccountType:  domain.AccountTypeLiability,
		CurrencyCode: "USD",
		IsActive:     true,
	}
}

func (suite *LedgerServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *LedgerServiceTestSuite) postRequest(externalRef string) dto.PostJournalRequest {
	return dto.PostJournalRequest{
		ExternalRef:  externalRef,
		Date:         time.Now(),
		Description:  "Rental charge",
		CurrencyCode: "USD",
		Transactions: []dto.PostTransactionRequest{
			{AccountID: suite.receivableAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Debit},
			{AccountID: suite.revenueAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Credit},
		},
	}
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	req := suite.postRequest("reservation-abc-activation")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.receivableAcct.AccountID, suite.revenueAcct.AccountID}).
		Return(suite.accountsMap(suite.receivableAcct, suite.revenueAcct), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Return(nil).Once()

	journal, alreadyPosted, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.False(alreadyPosted)
	suite.NotEmpty(journal.JournalID)
	suite.Equal(req.ExternalRef, journal.ExternalRef)
	suite.Equal(domain.Posted, journal.Status)
	suite.True(journal.Amount.Equal(decimal.NewFromInt(150)))
	suite.Equal(suite.actorID, journal.CreatedBy)
	suite.Len(journal.Transactions, 2)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_DuplicateRefReturnsStoredJournal() {
	ctx := context.Background()
	req := suite.postRequest("reservation-abc-activation")

	stored := &domain.Journal{
		JournalID:    uuid.NewString(),
		ExternalRef:  req.ExternalRef,
		CurrencyCode: "USD",
		Status:       domain.Posted,
		Amount:       decimal.NewFromInt(150),
	}
	storedTxns := []domain.Transaction{
		{TransactionID: uuid.NewString(), JournalID: stored.JournalID, AccountID: suite.receivableAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Debit},
		{TransactionID: uuid.NewString(), JournalID: stored.JournalID, AccountID: suite.revenueAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Credit},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct, suite.revenueAcct), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockJournalRepo.On("FindJournalByExternalRef", ctx, req.ExternalRef).Return(stored, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, stored.JournalID).Return(storedTxns, nil).Once()

	journal, alreadyPosted, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.True(alreadyPosted)
	suite.Equal(stored.JournalID, journal.JournalID)
	suite.Len(journal.Transactions, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPost_DivergentRetryStillReturnsStored() {
	ctx := context.Background()
	req := suite.postRequest("reservation-abc-activation")
	// Retry carries a different amount than the stored entry; the stored entry wins.
	req.Transactions[0].Amount = decimal.NewFromInt(999)
	req.Transactions[1].Amount = decimal.NewFromInt(999)

	stored := &domain.Journal{
		JournalID:   uuid.NewString(),
		ExternalRef: req.ExternalRef,
		Status:      domain.Posted,
		Amount:      decimal.NewFromInt(150),
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct, suite.revenueAcct), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockJournalRepo.On("FindJournalByExternalRef", ctx, req.ExternalRef).Return(stored, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, stored.JournalID).Return([]domain.Transaction{}, nil).Once()

	journal, alreadyPosted, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(alreadyPosted)
	suite.True(journal.Amount.Equal(decimal.NewFromInt(150)))
}

func (suite *LedgerServiceTestSuite) TestPost_Unbalanced() {
	ctx := context.Background()
	req := suite.postRequest("ref-unbalanced")
	req.Transactions[1].Amount = decimal.NewFromInt(149)

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_LessThanTwoLines() {
	ctx := context.Background()
	req := suite.postRequest("ref-single-line")
	req.Transactions = req.Transactions[:1]

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
}

func (suite *LedgerServiceTestSuite) TestPost_NonPositiveAmount() {
	ctx := context.Background()
	req := suite.postRequest("ref-zero-amount")
	req.Transactions[0].Amount = decimal.Zero
	req.Transactions[1].Amount = decimal.Zero

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
}

func (suite *LedgerServiceTestSuite) TestPost_UnknownAccount() {
	ctx := context.Background()
	req := suite.postRequest("ref-unknown-account")

	// Only one of the two referenced accounts exists.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct), nil).Once()

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountUnknown)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPost_InactiveAccount() {
	ctx := context.Background()
	req := suite.postRequest("ref-inactive-account")

	inactive := suite.revenueAcct
	inactive.IsActive = false
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct, inactive), nil).Once()

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPost_CurrencyMismatch() {
	ctx := context.Background()
	req := suite.postRequest("ref-currency-mismatch")

	eurAccount := suite.revenueAcct
	eurAccount.CurrencyCode = "EUR"
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct, eurAccount), nil).Once()

	_, _, err := suite.service.Post(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:    originalID,
		ExternalRef:  "reservation-abc-activation",
		CurrencyCode: "USD",
		Status:       domain.Posted,
		Amount:       decimal.NewFromInt(150),
	}
	originalTxns := []domain.Transaction{
		{TransactionID: uuid.NewString(), JournalID: originalID, AccountID: suite.receivableAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Debit, CurrencyCode: "USD"},
		{TransactionID: uuid.NewString(), JournalID: originalID, AccountID: suite.revenueAcct.AccountID, Amount: decimal.NewFromInt(150), TransactionType: domain.Credit, CurrencyCode: "USD"},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, originalID).Return(originalTxns, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.receivableAcct, suite.revenueAcct), nil).Once()

	var savedReversal domain.Journal
	var savedTxns []domain.Transaction
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedReversal = args.Get(1).(domain.Journal)
			savedTxns = args.Get(2).([]domain.Transaction)
		}).
		Return(nil).Once()
	suite.mockJournalRepo.On("UpdateJournalStatusAndLinks", ctx, originalID, domain.Reversed, mock.AnythingOfType("*string"), (*string)(nil), suite.actorID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, originalID, "reservation-abc-activation-adj-1", suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal("reservation-abc-activation-adj-1", reversal.ExternalRef)
	suite.Require().NotNil(reversal.OriginalJournalID)
	suite.Equal(originalID, *reversal.OriginalJournalID)
	suite.Equal(savedReversal.JournalID, reversal.JournalID)

	// Debits and credits are flipped line for line.
	suite.Require().Len(savedTxns, 2)
	suite.Equal(domain.Credit, savedTxns[0].TransactionType)
	suite.Equal(domain.Debit, savedTxns[1].TransactionType)

	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseJournal_AlreadyReversed() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID: originalID,
		Status:    domain.Reversed,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, originalID).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, originalID, "some-fresh-ref", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseJournal_RefusesOriginalRef() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:   originalID,
		ExternalRef: "reservation-abc-activation",
		Status:      domain.Posted,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, originalID).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, originalID, "reservation-abc-activation", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestBalance_Success() {
	ctx := context.Background()
	asOf := time.Now()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "4000").Return(&suite.revenueAcct, nil).Once()
	suite.mockJournalRepo.On("SumAccountAsOf", ctx, suite.revenueAcct.AccountID, asOf).
		Return(decimal.NewFromInt(450), nil).Once()

	balance, err := suite.service.Balance(ctx, "4000", asOf)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(450)))
}

func (suite *LedgerServiceTestSuite) TestBalance_UnknownCode() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Balance(ctx, "9999", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountUnknown)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
