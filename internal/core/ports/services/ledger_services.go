package services

import (
	"context"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations for posted ledger data
type LedgerReaderSvc interface {
	// GetJournalByID retrieves a journal with its transaction lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// GetJournalByExternalRef retrieves a journal by its idempotency reference.
	GetJournalByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ListTransactionsByAccount retrieves transactions for a specific account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines the posting operations. Posting is idempotent per
// external reference; reversal is the only correction mechanism.
type LedgerWriterSvc interface {
	// Post records a business event as a balanced journal exactly once per
	// external reference. A retry of an already-posted reference returns the
	// stored journal with alreadyPosted=true and no error; the stored entry
	// always wins over a divergent retry payload.
	Post(ctx context.Context, req dto.PostJournalRequest, actorID string) (journal *domain.Journal, alreadyPosted bool, err error)

	// ReverseJournal posts an offsetting journal under a fresh external
	// reference and marks the original as REVERSED.
	ReverseJournal(ctx context.Context, journalID string, newExternalRef string, actorID string) (*domain.Journal, error)
}

// LedgerCalculatorSvc defines derived balance queries.
type LedgerCalculatorSvc interface {
	// Balance sums all posted lines against the account identified by code up
	// to asOf, signed by the account type's normal balance so that "more
	// positive" always means more of what the account represents.
	Balance(ctx context.Context, accountCode string, asOf time.Time) (decimal.Decimal, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
}
