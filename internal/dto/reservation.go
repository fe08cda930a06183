package dto

import (
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
)

// CreateReservationRequest defines the data needed to reserve an asset for a
// half-open period [startAt, endAt).
type CreateReservationRequest struct {
	AssetID     string    `json:"assetID" binding:"required"`
	CustomerRef string    `json:"customerRef" binding:"required"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
}

// TransitionReservationRequest carries the observed time for a lifecycle
// transition (activate/complete). Cancellation ignores it.
type TransitionReservationRequest struct {
	ObservedAt *time.Time `json:"observedAt"` // Defaults to now when omitted
}

// ReservationResponse defines the data returned for a reservation.
type ReservationResponse struct {
	ReservationID string                   `json:"reservationID"`
	AssetID       string                   `json:"assetID"`
	CustomerRef   string                   `json:"customerRef"`
	StartAt       time.Time                `json:"startAt"`
	EndAt         time.Time                `json:"endAt"`
	Status        domain.ReservationStatus `json:"status"`
	ActivatedAt   *time.Time               `json:"activatedAt,omitempty"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
	CancelledAt   *time.Time               `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ListReservationsParams holds parameters for listing reservations by asset.
type ListReservationsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListReservationsResponse is the paginated reservation listing.
type ListReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToReservationResponse converts a domain.Reservation to its response DTO.
func ToReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ReservationID,
		AssetID:       r.AssetID,
		CustomerRef:   r.CustomerRef,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		Status:        r.Status,
		ActivatedAt:   r.ActivatedAt,
		CompletedAt:   r.CompletedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
	}
}

// ToReservationResponses converts a slice of domain reservations.
func ToReservationResponses(rs []domain.Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(rs))
	for i := range rs {
		responses[i] = ToReservationResponse(&rs[i])
	}
	return responses
}
