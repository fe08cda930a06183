package services

import (
	"context"
	"errors"
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
	"github.com/fleetstack/rental_ledger_app/internal/utils/accounting"
)

// ledgerService implements idempotent double-entry posting. The exactly-once
// guarantee per external reference rests on the journal store's uniqueness
// check, not on any in-process state, so it holds across concurrent callers
// and process restarts.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Post records a business event as a balanced journal exactly once per
// external reference. When the store reports the reference as already taken,
// the previously stored journal is fetched and returned with
// alreadyPosted=true; the retry's payload is discarded even if it diverges
// from the stored entry.
func (s *ledgerService) Post(ctx context.Context, req dto.PostJournalRequest, actorID string) (*domain.Journal, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, transactions, balanceChanges, err := s.buildJournal(ctx, req, actorID)
	if err != nil {
		return nil, false, err
	}

	if err := s.journalRepo.SaveJournal(ctx, *journal, transactions, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			existing, fetchErr := s.fetchByExternalRef(ctx, req.ExternalRef)
			if fetchErr != nil {
				logger.Error("Duplicate external ref but stored journal not readable",
					slog.String("external_ref", req.ExternalRef),
					slog.String("error", fetchErr.Error()),
				)
				return nil, false, fmt.Errorf("failed to read journal for external ref %s: %w", req.ExternalRef, fetchErr)
			}
			logger.Info("Posting retry resolved to stored journal",
				slog.String("external_ref", req.ExternalRef),
				slog.String("journal_id", existing.JournalID),
			)
			return existing, true, nil
		}
		logger.Error("Failed to save journal", slog.String("external_ref", req.ExternalRef), slog.String("error", err.Error()))
		return nil, false, fmt.Errorf("failed to save journal: %w", err)
	}

	journal.Transactions = transactions
	logger.Info("Journal posted",
		slog.String("journal_id", journal.JournalID),
		slog.String("external_ref", journal.ExternalRef),
	)
	return journal, false, nil
}

// buildJournal validates the posting request against the chart of accounts
// and assembles the domain journal, its lines, and the net signed balance
// change per account. Nothing is persisted here.
func (s *ledgerService) buildJournal(ctx context.Context, req dto.PostJournalRequest, actorID string) (*domain.Journal, []domain.Transaction, map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()
	journalID := uuid.NewString()

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	transactions := make([]domain.Transaction, 0, len(req.Transactions))
	accountIDs := make([]string, 0, len(req.Transactions))
	for _, txnReq := range req.Transactions {
		transactions = append(transactions, domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       txnReq.AccountID,
			Amount:          txnReq.Amount,
			TransactionType: txnReq.TransactionType,
			CurrencyCode:    req.CurrencyCode,
			Notes:           txnReq.Notes,
			AuditFields:     audit,
		})
		accountIDs = append(accountIDs, txnReq.AccountID)
	}

	if err := accounting.ValidateJournalBalance(transactions); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", apperrors.ErrUnbalanced, err)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()))
		return nil, nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	amount := decimal.Zero
	balanceChanges := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		account, found := accounts[txn.AccountID]
		if !found {
			return nil, nil, nil, fmt.Errorf("account %s: %w", txn.AccountID, apperrors.ErrAccountUnknown)
		}
		if !account.IsActive {
			return nil, nil, nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, txn.AccountID)
		}
		if account.CurrencyCode != req.CurrencyCode {
			return nil, nil, nil, fmt.Errorf("%w: account %s is denominated in %s, journal is %s",
				apperrors.ErrValidation, txn.AccountID, account.CurrencyCode, req.CurrencyCode)
		}

		signed, err := accounting.CalculateSignedAmount(txn, account.AccountType)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(signed)

		if txn.TransactionType == domain.Debit {
			amount = amount.Add(txn.Amount)
		}
	}

	journal := &domain.Journal{
		JournalID:    journalID,
		ExternalRef:  req.ExternalRef,
		JournalDate:  req.Date.UTC(),
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Posted,
		Amount:       amount,
		AuditFields:  audit,
	}
	return journal, transactions, balanceChanges, nil
}

// ReverseJournal posts an offsetting journal under newExternalRef and marks
// the original as REVERSED. An already reversed journal cannot be reversed
// again.
func (s *ledgerService) ReverseJournal(ctx context.Context, journalID string, newExternalRef string, actorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("journal %s has status %s: %w", journalID, original.Status, apperrors.ErrInvalidTransition)
	}
	if newExternalRef == original.ExternalRef {
		return nil, fmt.Errorf("%w: reversal must use a fresh external reference", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}

	reversalTxns := make([]domain.Transaction, 0, len(original.Transactions))
	accountIDs := make([]string, 0, len(original.Transactions))
	for _, txn := range original.Transactions {
		flipped := domain.Credit
		if txn.TransactionType == domain.Credit {
			flipped = domain.Debit
		}
		reversalTxns = append(reversalTxns, domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       reversalID,
			AccountID:       txn.AccountID,
			Amount:          txn.Amount,
			TransactionType: flipped,
			CurrencyCode:    txn.CurrencyCode,
			Notes:           txn.Notes,
			AuditFields:     audit,
		})
		accountIDs = append(accountIDs, txn.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, txn := range reversalTxns {
		account, found := accounts[txn.AccountID]
		if !found {
			return nil, fmt.Errorf("account %s: %w", txn.AccountID, apperrors.ErrAccountUnknown)
		}
		signed, err := accounting.CalculateSignedAmount(txn, account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(signed)
	}

	reversal := domain.Journal{
		JournalID:         reversalID,
		ExternalRef:       newExternalRef,
		JournalDate:       now,
		Description:       fmt.Sprintf("Reversal of journal %s", original.JournalID),
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Posted,
		Amount:            original.Amount,
		OriginalJournalID: &original.JournalID,
		AuditFields:       audit,
	}

	if err := s.journalRepo.SaveJournal(ctx, reversal, reversalTxns, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("external ref %s already used: %w", newExternalRef, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save reversing journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversing journal: %w", err)
	}

	if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, original.JournalID, domain.Reversed, &reversalID, nil, actorID, now); err != nil {
		logger.Error("Reversal posted but original journal not marked reversed",
			slog.String("journal_id", original.JournalID),
			slog.String("reversing_journal_id", reversalID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to mark journal %s reversed: %w", original.JournalID, err)
	}

	reversal.Transactions = reversalTxns
	logger.Info("Journal reversed",
		slog.String("journal_id", original.JournalID),
		slog.String("reversing_journal_id", reversalID),
	)
	return &reversal, nil
}

// Balance computes the signed net of all posted lines against the account
// identified by code, up to and including asOf. The figure is derived from
// the lines, not from the persisted account balance, so it is correct for
// any historical asOf.
func (s *ledgerService) Balance(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("account code %s: %w", accountCode, apperrors.ErrAccountUnknown)
		}
		logger.Error("Failed to fetch account for balance", slog.String("account_code", accountCode), slog.String("error", err.Error()))
		return decimal.Zero, fmt.Errorf("failed to fetch account %s: %w", accountCode, err)
	}

	balance, err := s.journalRepo.SumAccountAsOf(ctx, account.AccountID, asOf)
	if err != nil {
		logger.Error("Failed to sum account lines", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
		return decimal.Zero, fmt.Errorf("failed to compute balance for account %s: %w", accountCode, err)
	}
	return balance, nil
}

// GetJournalByID retrieves a journal with its transaction lines.
func (s *ledgerService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch journal transactions", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch transactions for journal %s: %w", journalID, err)
	}
	journal.Transactions = transactions
	return journal, nil
}

// GetJournalByExternalRef retrieves a journal by its idempotency reference.
func (s *ledgerService) GetJournalByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error) {
	return s.fetchByExternalRef(ctx, externalRef)
}

func (s *ledgerService) fetchByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByExternalRef(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journal.JournalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for journal %s: %w", journal.JournalID, err)
	}
	journal.Transactions = transactions
	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
func (s *ledgerService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		responses[i] = dto.ToJournalResponse(&journals[i], false)
	}
	return &dto.ListJournalsResponse{
		Journals:  responses,
		NextToken: nextToken,
	}, nil
}

// ListTransactionsByAccount retrieves transactions for a specific account.
func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions, nextToken, err := s.journalRepo.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}
