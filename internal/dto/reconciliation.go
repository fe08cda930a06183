package dto

import (
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileRequest defines the parameters of a reconciliation run over the
// half-open period [periodStart, periodEnd).
type ReconcileRequest struct {
	Scope       domain.ReconciliationScope `json:"scope" binding:"required,oneof=ACTIVATIONS COMPLETIONS ALL"`
	PeriodStart time.Time                  `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time                  `json:"periodEnd" binding:"required"`
}

// FindingResponse is one classified fact in a reconciliation report.
type FindingResponse struct {
	FactType       string               `json:"factType"`
	FactID         string               `json:"factID"`
	ExternalRef    string               `json:"externalRef"`
	ExpectedAmount decimal.Decimal      `json:"expectedAmount"`
	PostedAmount   *decimal.Decimal     `json:"postedAmount,omitempty"`
	Status         domain.FindingStatus `json:"status"`
	Detail         string               `json:"detail,omitempty"`
}

// ReconciliationReportResponse is the full result of one run.
type ReconciliationReportResponse struct {
	ReportID    string                     `json:"reportID"`
	Scope       domain.ReconciliationScope `json:"scope"`
	PeriodStart time.Time                  `json:"periodStart"`
	PeriodEnd   time.Time                  `json:"periodEnd"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Matched     int                        `json:"matched"`
	Missing     int                        `json:"missing"`
	Mismatched  int                        `json:"mismatched"`
	Findings    []FindingResponse          `json:"findings"`
}

// ToReconciliationReportResponse converts a domain report to its response DTO.
func ToReconciliationReportResponse(r *domain.ReconciliationReport) ReconciliationReportResponse {
	findings := make([]FindingResponse, len(r.Findings))
	for i, f := range r.Findings {
		findings[i] = FindingResponse{
			FactType:       f.FactType,
			FactID:         f.FactID,
			ExternalRef:    f.ExternalRef,
			ExpectedAmount: f.ExpectedAmount,
			PostedAmount:   f.PostedAmount,
			Status:         f.Status,
			Detail:         f.Detail,
		}
	}
	return ReconciliationReportResponse{
		ReportID:    r.ReportID,
		Scope:       r.Scope,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		GeneratedAt: r.GeneratedAt,
		Matched:     r.Matched,
		Missing:     r.Missing,
		Mismatched:  r.Mismatched,
		Findings:    findings,
	}
}
