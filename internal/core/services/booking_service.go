package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/fleetstack/rental_ledger_app/internal/core/ports/services"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
	"github.com/fleetstack/rental_ledger_app/internal/middleware"
)

var (
	ErrPeriodInverted = errors.New("reservation period end must be after start")
	ErrAssetRetired   = errors.New("asset is retired and cannot be reserved")
)

// bookingService implements the reservation lifecycle. The overlap invariant
// is not checked here: the decisive check-and-write is the reservation
// insert itself, which the booking store rejects atomically on overlap.
type bookingService struct {
	reservationRepo portsrepo.ReservationRepositoryFacade
	assetRepo       portsrepo.AssetReader
}

// NewBookingService creates a new booking service.
func NewBookingService(reservationRepo portsrepo.ReservationRepositoryFacade, assetRepo portsrepo.AssetReader) portssvc.BookingSvcFacade {
	return &bookingService{
		reservationRepo: reservationRepo,
		assetRepo:       assetRepo,
	}
}

// Ensure bookingService implements the portssvc.BookingSvcFacade interface
var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// Reserve attempts to create a reservation for the half-open period
// [req.StartAt, req.EndAt). A storage-level overlap rejection surfaces as
// apperrors.ErrConflict; that outcome is expected and never retried here,
// since a conflict may reflect genuine unavailability.
func (s *bookingService) Reserve(ctx context.Context, req dto.CreateReservationRequest, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndAt.After(req.StartAt) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPeriodInverted)
	}

	asset, err := s.assetRepo.FindAssetByID(ctx, req.AssetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("asset %s: %w", req.AssetID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to fetch asset for reservation", slog.String("asset_id", req.AssetID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch asset %s: %w", req.AssetID, err)
	}
	if asset.Status == domain.AssetRetired {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAssetRetired)
	}

	now := time.Now().UTC()
	reservation := domain.Reservation{
		ReservationID: uuid.NewString(),
		AssetID:       req.AssetID,
		CustomerRef:   req.CustomerRef,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		Status:        domain.Reserved,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.reservationRepo.SaveReservation(ctx, reservation); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Reservation rejected on overlap",
				slog.String("asset_id", req.AssetID),
				slog.Time("start_at", reservation.StartAt),
				slog.Time("end_at", reservation.EndAt),
			)
			return nil, err
		}
		logger.Error("Failed to save reservation", slog.String("asset_id", req.AssetID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	logger.Info("Reservation confirmed",
		slog.String("reservation_id", reservation.ReservationID),
		slog.String("asset_id", reservation.AssetID),
	)
	return &reservation, nil
}

// Activate transitions a reservation from RESERVED to ACTIVE.
func (s *bookingService) Activate(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, domain.Reserved, domain.Active, observedAt, actorID)
}

// Complete transitions a reservation from ACTIVE to COMPLETED.
func (s *bookingService) Complete(ctx context.Context, reservationID string, observedAt time.Time, actorID string) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, domain.Active, domain.Completed, observedAt, actorID)
}

// Cancel transitions a reservation to CANCELLED from either RESERVED or
// ACTIVE. A cancelled reservation leaves the booking store's exclusion
// predicate, so the slot is reusable immediately without waiting for the
// original end time.
func (s *bookingService) Cancel(ctx context.Context, reservationID string, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	reservation, err := s.reservationRepo.TransitionStatus(ctx, reservationID, domain.Reserved, domain.Cancelled, now, actorID)
	if err == nil {
		logger.Info("Reservation cancelled", slog.String("reservation_id", reservationID))
		return reservation, nil
	}
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		return nil, s.classifyTransitionErr(ctx, err, reservationID, domain.Cancelled)
	}

	// Not RESERVED; an ACTIVE rental can still be cancelled.
	reservation, err = s.reservationRepo.TransitionStatus(ctx, reservationID, domain.Active, domain.Cancelled, now, actorID)
	if err != nil {
		return nil, s.classifyTransitionErr(ctx, err, reservationID, domain.Cancelled)
	}
	logger.Info("Active reservation cancelled", slog.String("reservation_id", reservationID))
	return reservation, nil
}

// GetReservationByID retrieves a single reservation.
func (s *bookingService) GetReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find reservation", slog.String("reservation_id", reservationID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return reservation, nil
}

// ListReservationsByAsset retrieves a paginated list of reservations for one asset.
func (s *bookingService) ListReservationsByAsset(ctx context.Context, assetID string, params dto.ListReservationsParams) (*dto.ListReservationsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	reservations, nextToken, err := s.reservationRepo.ListReservationsByAsset(ctx, assetID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list reservations", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}

	return &dto.ListReservationsResponse{
		Reservations: dto.ToReservationResponses(reservations),
		NextToken:    nextToken,
	}, nil
}

// transition performs a single conditional status move. The repository does
// the compare-and-set atomically; this method only classifies the outcome.
func (s *bookingService) transition(ctx context.Context, reservationID string, from, to domain.ReservationStatus, observedAt time.Time, actorID string) (*domain.Reservation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reservation, err := s.reservationRepo.TransitionStatus(ctx, reservationID, from, to, observedAt.UTC(), actorID)
	if err != nil {
		return nil, s.classifyTransitionErr(ctx, err, reservationID, to)
	}

	logger.Info("Reservation transitioned",
		slog.String("reservation_id", reservationID),
		slog.String("status", string(to)),
	)
	return reservation, nil
}

func (s *bookingService) classifyTransitionErr(ctx context.Context, err error, reservationID string, target domain.ReservationStatus) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("reservation %s: %w", reservationID, apperrors.ErrNotFound)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn("Invalid reservation transition",
			slog.String("reservation_id", reservationID),
			slog.String("target_status", string(target)),
		)
		return err
	default:
		logger.Error("Failed to transition reservation", slog.String("reservation_id", reservationID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to transition reservation %s: %w", reservationID, err)
	}
}
