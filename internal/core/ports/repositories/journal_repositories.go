package repositories

import (
	"context"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalByExternalRef retrieves a journal by its unique external
	// reference. This is the read-after-conflict path for idempotent posting.
	FindJournalByExternalRef(ctx context.Context, externalRef string) (*domain.Journal, error)

	// FindJournalsByExternalRefs retrieves journals for multiple external
	// references, keyed by reference. Absent references have no map entry.
	FindJournalsByExternalRefs(ctx context.Context, externalRefs []string) (map[string]domain.Journal, error)

	// ListJournals retrieves a paginated list of journals using token-based
	// pagination, newest first.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data. Journals and
// their lines are insert-only; the single permitted update is the
// status/link change made when a journal is reversed.
type JournalWriter interface {
	// SaveJournal persists a journal and its transactions, updating account
	// balances, all within one database transaction. A journal whose
	// external reference already exists fails with apperrors.ErrDuplicate
	// and writes nothing.
	SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// UpdateJournalStatusAndLinks updates the status and reversal linkage of a journal.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error
}

// TransactionReader defines read operations for transaction line data
type TransactionReader interface {
	// FindTransactionsByJournalID retrieves all transactions associated with a single journal ID.
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)

	// FindTransactionsByJournalIDs retrieves transactions for multiple journal IDs, grouped by journal ID.
	FindTransactionsByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of transactions for an account.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumAccountAsOf computes the signed net of all posted lines against an
	// account up to and including asOf, using the account type's normal
	// balance convention.
	SumAccountAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	TransactionReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
