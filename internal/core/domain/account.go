package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether the account type increases on the debit side.
// Assets and expenses are debit-normal; liabilities, equity and revenue are
// credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is a node in the chart of accounts. Accounts are created once at
// setup and never deleted; deactivation preserves referential integrity of
// historical journal lines.
type Account struct {
	AccountID    string          `json:"accountID"`    // Primary Key (UUID)
	Code         string          `json:"code"`         // Unique chart-of-accounts code
	Name         string          `json:"name"`         // User-defined name
	AccountType  AccountType     `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string          `json:"currencyCode"` // Currency this account is denominated in
	Description  string          `json:"description"`  // Nullable user description
	IsActive     bool            `json:"isActive"`     // Deactivation flag, never hard-deleted
	AuditFields                  // Embed CreatedAt, CreatedBy, etc.
	Balance      decimal.Decimal `json:"balance"` // Persisted account balance
}
