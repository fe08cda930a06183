package domain

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

// Journal represents a single, balanced financial event composed of multiple
// transaction lines. Journals are immutable after creation: corrections are
// made by posting a reversing journal under a fresh external reference,
// never by editing the original.
type Journal struct {
	JournalID          string          `json:"journalID"`          // Primary Key (UUID)
	ExternalRef        string          `json:"externalRef"`        // Caller-supplied idempotency key, unique system-wide
	JournalDate        time.Time       `json:"journalDate"`        // Date the business event occurred
	Description        string          `json:"description"`        // Optional user description, empty when unset
	CurrencyCode       string          `json:"currencyCode"`       // Primary currency of the journal (Not Null)
	Status             JournalStatus   `json:"status"`             // Default: POSTED
	Amount             decimal.Decimal `json:"amount"`             // Economic value (sum of the debit side)
	OriginalJournalID  *string         `json:"originalJournalID"`  // Set on a reversing journal, points to the reversed one
	ReversingJournalID *string         `json:"reversingJournalID"` // Set on a reversed journal, points to its reversal
	Transactions       []Transaction   `json:"transactions,omitempty"`
	AuditFields
}
