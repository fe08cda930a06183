package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction mirrors the transactions table: one debit or credit leg of a
// journal. Rows are insert-only.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	JournalID       string          `json:"journalID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transactionType"`
	CurrencyCode    string          `json:"currencyCode"`
	Notes           string          `json:"notes"`
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // Balance after this transaction
	JournalDate    time.Time       `json:"journalDate"`    // Joined from journals for cursor pagination; not a table column
}
