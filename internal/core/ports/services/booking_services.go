package services

import (
	"context"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
)

// BookingReaderSvc defines read operations for reservation data
type BookingReaderSvc interface {
	// GetReservationByID retrieves a specific reservation.
	GetReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// ListReservationsByAsset retrieves a paginated list of reservations for an asset.
	ListReservationsByAsset(ctx context.Context, assetID string, params dto.ListReservationsParams) (*dto.ListReservationsResponse, error)
}

// BookingWriterSvc defines the reservation lifecycle operations.
type BookingWriterSvc interface {
	// Reserve attempts to claim an asset for a half-open period. Overlap with
	// a reserved or active reservation on the same asset returns
	// apperrors.ErrConflict; the caller decides whether and how to retry.
	Reserve(ctx context.Context, req dto.CreateReservationRequest, actorID string) (*domain.Reservation, error)

	// Activate transitions a RESERVED reservation to ACTIVE.
	Activate(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error)

	// Complete transitions an ACTIVE reservation to COMPLETED.
	Complete(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error)

	// Cancel transitions a RESERVED or ACTIVE reservation to CANCELLED,
	// immediately freeing the asset's availability.
	Cancel(ctx context.Context, reservationID string, actorID string) (*domain.Reservation, error)
}

// BookingSvcFacade combines all booking-related service interfaces
type BookingSvcFacade interface {
	BookingReaderSvc
	BookingWriterSvc
}
