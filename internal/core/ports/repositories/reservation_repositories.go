package repositories

import (
	"context"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
)

// ReservationReader defines read operations for reservation data
type ReservationReader interface {
	// FindReservationByID retrieves a reservation by its unique identifier.
	FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListReservationsByAsset retrieves a paginated list of reservations for an asset
	// using token-based pagination, newest first.
	ListReservationsByAsset(ctx context.Context, assetID string, limit int, nextToken *string) ([]domain.Reservation, *string, error)

	// ListActivatedInPeriod retrieves reservations whose activation was observed
	// within [periodStart, periodEnd). Used by reconciliation; reads a snapshot,
	// holds no locks.
	ListActivatedInPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.Reservation, error)

	// ListCompletedInPeriod retrieves reservations whose completion was observed
	// within [periodStart, periodEnd).
	ListCompletedInPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.Reservation, error)
}

// ReservationWriter defines write operations for reservation data.
// Reservations are never deleted, only inserted and status-transitioned.
type ReservationWriter interface {
	// SaveReservation inserts a new reservation. The database's exclusion
	// constraint is the decisive overlap check: an overlap with a RESERVED or
	// ACTIVE reservation for the same asset fails the insert at commit time
	// and surfaces as apperrors.ErrConflict.
	SaveReservation(ctx context.Context, reservation domain.Reservation) error

	// TransitionStatus atomically moves a reservation from expectedStatus to
	// newStatus in a single conditional update, recording observedAt in the
	// matching lifecycle timestamp column. If the row is not in
	// expectedStatus, no update happens and the current row is returned with
	// apperrors.ErrInvalidTransition; a missing row returns
	// apperrors.ErrNotFound.
	TransitionStatus(ctx context.Context, reservationID string, expectedStatus, newStatus domain.ReservationStatus, observedAt time.Time, updatedBy string) (*domain.Reservation, error)
}

// ReservationRepositoryFacade combines all reservation-related repository interfaces
type ReservationRepositoryFacade interface {
	ReservationReader
	ReservationWriter
}
