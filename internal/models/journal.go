package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal mirrors the journals table. external_ref carries a unique index;
// rows are never updated after insert except for the status/link columns
// touched by a reversal.
type Journal struct {
	JournalID          string          `json:"journalID"`
	ExternalRef        string          `json:"externalRef"`
	JournalDate        time.Time       `json:"journalDate"`
	Description        string          `json:"description"`
	CurrencyCode       string          `json:"currencyCode"`
	Status             JournalStatus   `json:"status"`
	Amount             decimal.Decimal `json:"amount"`
	OriginalJournalID  *string         `json:"originalJournalID"`
	ReversingJournalID *string         `json:"reversingJournalID"`
	AuditFields
}
