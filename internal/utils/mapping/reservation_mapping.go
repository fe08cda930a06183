package mapping

import (
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/models"
)

// ToModelReservation converts a domain Reservation to a model Reservation
func ToModelReservation(d domain.Reservation) models.Reservation {
	return models.Reservation{
		ReservationID: d.ReservationID,
		AssetID:       d.AssetID,
		CustomerRef:   d.CustomerRef,
		StartAt:       d.StartAt,
		EndAt:         d.EndAt,
		Status:        models.ReservationStatus(d.Status),
		ActivatedAt:   d.ActivatedAt,
		CompletedAt:   d.CompletedAt,
		CancelledAt:   d.CancelledAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReservation converts a model Reservation to a domain Reservation
func ToDomainReservation(m models.Reservation) domain.Reservation {
	return domain.Reservation{
		ReservationID: m.ReservationID,
		AssetID:       m.AssetID,
		CustomerRef:   m.CustomerRef,
		StartAt:       m.StartAt,
		EndAt:         m.EndAt,
		Status:        domain.ReservationStatus(m.Status),
		ActivatedAt:   m.ActivatedAt,
		CompletedAt:   m.CompletedAt,
		CancelledAt:   m.CancelledAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReservationSlice converts a slice of model Reservations to domain Reservations
func ToDomainReservationSlice(ms []models.Reservation) []domain.Reservation {
	ds := make([]domain.Reservation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReservation(m)
	}
	return ds
}

// ToModelAsset converts a domain Asset to a model Asset
func ToModelAsset(d domain.Asset) models.Asset {
	return models.Asset{
		AssetID:      d.AssetID,
		Name:         d.Name,
		Status:       models.AssetStatus(d.Status),
		DailyRate:    d.DailyRate,
		CurrencyCode: d.CurrencyCode,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAsset converts a model Asset to a domain Asset
func ToDomainAsset(m models.Asset) domain.Asset {
	return domain.Asset{
		AssetID:      m.AssetID,
		Name:         m.Name,
		Status:       domain.AssetStatus(m.Status),
		DailyRate:    m.DailyRate,
		CurrencyCode: m.CurrencyCode,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
