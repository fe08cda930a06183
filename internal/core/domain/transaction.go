package domain

import "github.com/shopspring/decimal"

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction represents a single line item within a Journal, affecting one
// account. A line carries either a debit or a credit magnitude, never both,
// and is owned exclusively by its parent journal.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary Key (UUID)
	JournalID       string          `json:"journalID"`       // FK -> Journal.journalID (Not Null)
	AccountID       string          `json:"accountID"`       // FK -> Account.accountID (Not Null)
	Amount          decimal.Decimal `json:"amount"`          // Positive magnitude; precise decimal type
	TransactionType TransactionType `json:"transactionType"` // DEBIT or CREDIT (Not Null)
	CurrencyCode    string          `json:"currencyCode"`    // Must match Journal currency (Not Null)
	Notes           string          `json:"notes"`           // Optional, empty when unset
	RunningBalance  decimal.Decimal `json:"runningBalance"`  // Account balance after this line, set by the repository
	AuditFields
}
