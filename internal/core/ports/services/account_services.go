package services

import (
	"context"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts keyed by ID.
	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines the setup-time account operations. Accounts are
// never deleted, only deactivated.
type AccountWriterSvc interface {
	// CreateAccount persists a new account from the chart-of-accounts bootstrap.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive, preserving history.
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
