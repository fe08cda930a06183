package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	"github.com/fleetstack/rental_ledger_app/internal/models"
	"github.com/fleetstack/rental_ledger_app/internal/utils/mapping"
	"github.com/fleetstack/rental_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReservationRepository struct {
	pool *pgxpool.Pool
}

// newPgxReservationRepository creates a new repository for reservation data.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{pool: pool}
}

// Ensure PgxReservationRepository implements portsrepo.ReservationRepositoryFacade
var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

const reservationColumns = `reservation_id, asset_id, customer_ref, start_at, end_at, status, activated_at, completed_at, cancelled_at, created_at, created_by, last_updated_at, last_updated_by`

func scanReservation(row pgx.Row) (models.Reservation, error) {
	var m models.Reservation
	err := row.Scan(
		&m.ReservationID,
		&m.AssetID,
		&m.CustomerRef,
		&m.StartAt,
		&m.EndAt,
		&m.Status,
		&m.ActivatedAt,
		&m.CompletedAt,
		&m.CancelledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveReservation inserts a new reservation. The reservations table carries a
// gist exclusion constraint over (asset_id, tstzrange(start_at, end_at))
// restricted to RESERVED/ACTIVE rows, so an overlapping insert fails here
// atomically; SQLSTATE 23P01 maps to apperrors.ErrConflict.
func (r *PgxReservationRepository) SaveReservation(ctx context.Context, reservation domain.Reservation) error {
	m := mapping.ToModelReservation(reservation)

	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ReservationID,
		m.AssetID,
		m.CustomerRef,
		m.StartAt,
		m.EndAt,
		m.Status,
		m.ActivatedAt,
		m.CompletedAt,
		m.CancelledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23P01": // exclusion_violation: period overlaps a held reservation
				return fmt.Errorf("%w: asset %s is already held for part of the requested period", apperrors.ErrConflict, m.AssetID)
			case "23505": // unique_violation on reservation_id
				return fmt.Errorf("%w: reservation %s already exists", apperrors.ErrDuplicate, m.ReservationID)
			}
		}
		return fmt.Errorf("failed to save reservation %s: %w", m.ReservationID, err)
	}
	return nil
}

// TransitionStatus moves a reservation from expectedStatus to newStatus with
// a single conditional update, so concurrent transitions cannot both land.
// When zero rows match, the row is re-read to distinguish a missing
// reservation from one in the wrong state.
func (r *PgxReservationRepository) TransitionStatus(ctx context.Context, reservationID string, expectedStatus, newStatus domain.ReservationStatus, observedAt time.Time, updatedBy string) (*domain.Reservation, error) {
	var timestampColumn string
	switch newStatus {
	case domain.Active:
		timestampColumn = "activated_at"
	case domain.Completed:
		timestampColumn = "completed_at"
	case domain.Cancelled:
		timestampColumn = "cancelled_at"
	default:
		return nil, fmt.Errorf("%w: cannot transition to status %s", apperrors.ErrValidation, newStatus)
	}

	query := `
		UPDATE reservations
		SET status = $3, ` + timestampColumn + ` = $4, last_updated_at = $5, last_updated_by = $6
		WHERE reservation_id = $1 AND status = $2
		RETURNING ` + reservationColumns + `;
	`

	m, err := scanReservation(r.pool.QueryRow(ctx, query,
		reservationID,
		expectedStatus,
		newStatus,
		observedAt,
		time.Now().UTC(),
		updatedBy,
	))
	if err == nil {
		d := mapping.ToDomainReservation(m)
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to transition reservation %s: %w", reservationID, err)
	}

	// The conditional update missed: either no such row, or wrong status.
	current, findErr := r.FindReservationByID(ctx, reservationID)
	if findErr != nil {
		return nil, findErr
	}
	return current, fmt.Errorf("%w: reservation %s is %s, expected %s", apperrors.ErrInvalidTransition, reservationID, current.Status, expectedStatus)
}

// FindReservationByID retrieves a reservation by its ID.
func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1;`

	m, err := scanReservation(r.pool.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation by ID %s: %w", reservationID, err)
	}

	d := mapping.ToDomainReservation(m)
	return &d, nil
}

// ListReservationsByAsset retrieves a paginated list of reservations for an
// asset using token-based pagination, newest first.
func (r *PgxReservationRepository) ListReservationsByAsset(ctx context.Context, assetID string, limit int, nextToken *string) ([]domain.Reservation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + reservationColumns + ` FROM reservations WHERE asset_id = $1`
	orderByClause := `ORDER BY start_at DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{assetID}

	if nextToken != nil && *nextToken != "" {
		lastStartAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (start_at, created_at) < ($2, $3)`
		args = append(args, lastStartAt, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query reservations for asset %s: %w", assetID, err)
	}
	defer rows.Close()

	reservations := make([]models.Reservation, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan reservation row for asset %s: %w", assetID, scanErr)
		}
		reservations = append(reservations, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating reservation rows for asset %s: %w", assetID, err)
	}

	var nextTokenVal *string
	results := reservations
	if len(reservations) > limit {
		last := reservations[limit-1]
		token := pagination.EncodeToken(last.StartAt, last.CreatedAt)
		nextTokenVal = &token
		results = reservations[:limit]
	}

	return mapping.ToDomainReservationSlice(results), nextTokenVal, nil
}

// ListActivatedInPeriod retrieves reservations whose activation was observed
// within [periodStart, periodEnd). Plain snapshot read, no locks.
func (r *PgxReservationRepository) ListActivatedInPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE activated_at >= $1 AND activated_at < $2
		ORDER BY activated_at;
	`
	return r.listByPeriod(ctx, query, periodStart, periodEnd)
}

// ListCompletedInPeriod retrieves reservations whose completion was observed
// within [periodStart, periodEnd).
func (r *PgxReservationRepository) ListCompletedInPeriod(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE completed_at >= $1 AND completed_at < $2
		ORDER BY completed_at;
	`
	return r.listByPeriod(ctx, query, periodStart, periodEnd)
}

func (r *PgxReservationRepository) listByPeriod(ctx context.Context, query string, periodStart, periodEnd time.Time) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations by period: %w", err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		m, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan reservation row: %w", scanErr)
		}
		reservations = append(reservations, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservation rows: %w", err)
	}

	return mapping.ToDomainReservationSlice(reservations), nil
}
