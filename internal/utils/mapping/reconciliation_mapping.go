package mapping

import (
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/models"
)

// ToModelReconciliationReport converts a domain report header to its model
func ToModelReconciliationReport(d domain.ReconciliationReport) models.ReconciliationReport {
	return models.ReconciliationReport{
		ReportID:    d.ReportID,
		Scope:       string(d.Scope),
		PeriodStart: d.PeriodStart,
		PeriodEnd:   d.PeriodEnd,
		GeneratedAt: d.GeneratedAt,
		Matched:     d.Matched,
		Missing:     d.Missing,
		Mismatched:  d.Mismatched,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDomainReconciliationReport converts a model report header to its domain form
func ToDomainReconciliationReport(m models.ReconciliationReport) domain.ReconciliationReport {
	return domain.ReconciliationReport{
		ReportID:    m.ReportID,
		Scope:       domain.ReconciliationScope(m.Scope),
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		GeneratedAt: m.GeneratedAt,
		Matched:     m.Matched,
		Missing:     m.Missing,
		Mismatched:  m.Mismatched,
		CreatedBy:   m.CreatedBy,
	}
}

// ToModelReconciliationFinding converts a domain finding to its model
func ToModelReconciliationFinding(d domain.ReconciliationFinding) models.ReconciliationFinding {
	return models.ReconciliationFinding{
		FindingID:      d.FindingID,
		ReportID:       d.ReportID,
		FactType:       d.FactType,
		FactID:         d.FactID,
		ExternalRef:    d.ExternalRef,
		ExpectedAmount: d.ExpectedAmount,
		PostedAmount:   d.PostedAmount,
		Status:         string(d.Status),
		Detail:         d.Detail,
	}
}

// ToDomainReconciliationFinding converts a model finding to its domain form
func ToDomainReconciliationFinding(m models.ReconciliationFinding) domain.ReconciliationFinding {
	return domain.ReconciliationFinding{
		FindingID:      m.FindingID,
		ReportID:       m.ReportID,
		FactType:       m.FactType,
		FactID:         m.FactID,
		ExternalRef:    m.ExternalRef,
		ExpectedAmount: m.ExpectedAmount,
		PostedAmount:   m.PostedAmount,
		Status:         domain.FindingStatus(m.Status),
		Detail:         m.Detail,
	}
}
