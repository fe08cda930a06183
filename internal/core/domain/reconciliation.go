package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationScope selects which operational facts a reconciliation run
// checks against the ledger.
type ReconciliationScope string

const (
	ScopeActivations ReconciliationScope = "ACTIVATIONS"
	ScopeCompletions ReconciliationScope = "COMPLETIONS"
	ScopeAll         ReconciliationScope = "ALL"
)

// FindingStatus classifies a single checked fact.
type FindingStatus string

const (
	FindingMatched        FindingStatus = "MATCHED"
	FindingMissing        FindingStatus = "MISSING"
	FindingAmountMismatch FindingStatus = "AMOUNT_MISMATCH"
)

// ReconciliationFinding is the result of checking one operational fact
// against the posting it should have produced.
type ReconciliationFinding struct {
	FindingID      string           `json:"findingID"`      // Primary Key (UUID)
	ReportID       string           `json:"reportID"`       // FK -> ReconciliationReport.reportID
	FactType       string           `json:"factType"`       // e.g. "reservation-activation"
	FactID         string           `json:"factID"`         // Identity of the operational fact (reservation ID)
	ExternalRef    string           `json:"externalRef"`    // Derived reference the posting was expected under
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"` // Amount the fact should have posted
	PostedAmount   *decimal.Decimal `json:"postedAmount"`   // Amount actually posted; nil when missing
	Status         FindingStatus    `json:"status"`
	Detail         string           `json:"detail"` // Human-readable mismatch detail
}

// ReconciliationReport is a point-in-time, append-only snapshot of one
// reconciliation run. Reports are never overwritten; each run produces a new
// one, so past findings stay auditable even after the underlying drift is
// corrected. Reports hold no authority: they are derived fresh from the two
// immutable sources each run.
type ReconciliationReport struct {
	ReportID    string                  `json:"reportID"` // Primary Key (UUID)
	Scope       ReconciliationScope     `json:"scope"`
	PeriodStart time.Time               `json:"periodStart"` // Inclusive
	PeriodEnd   time.Time               `json:"periodEnd"`   // Exclusive
	GeneratedAt time.Time               `json:"generatedAt"`
	Matched     int                     `json:"matched"`
	Missing     int                     `json:"missing"`
	Mismatched  int                     `json:"mismatched"`
	Findings    []ReconciliationFinding `json:"findings,omitempty"`
	CreatedBy   string                  `json:"createdBy"`
}
