package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationReport mirrors the reconciliation_reports table. Rows are
// append-only: every run inserts a new report.
type ReconciliationReport struct {
	ReportID    string    `json:"reportID"`
	Scope       string    `json:"scope"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	GeneratedAt time.Time `json:"generatedAt"`
	Matched     int       `json:"matched"`
	Missing     int       `json:"missing"`
	Mismatched  int       `json:"mismatched"`
	CreatedBy   string    `json:"createdBy"`
}

// ReconciliationFinding mirrors the reconciliation_findings table.
type ReconciliationFinding struct {
	FindingID      string           `json:"findingID"`
	ReportID       string           `json:"reportID"`
	FactType       string           `json:"factType"`
	FactID         string           `json:"factID"`
	ExternalRef    string           `json:"externalRef"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	PostedAmount   *decimal.Decimal `json:"postedAmount"`
	Status         string           `json:"status"`
	Detail         string           `json:"detail"`
}
