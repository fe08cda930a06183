package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetstack/rental_ledger_app/internal/apperrors"
	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	portsrepo "github.com/fleetstack/rental_ledger_app/internal/core/ports/repositories"
	"github.com/fleetstack/rental_ledger_app/internal/models"
	"github.com/fleetstack/rental_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAssetRepository struct {
	pool *pgxpool.Pool
}

// newPgxAssetRepository creates a new repository for fleet asset data.
func newPgxAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepositoryFacade {
	return &PgxAssetRepository{pool: pool}
}

// Ensure PgxAssetRepository implements portsrepo.AssetRepositoryFacade
var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

const assetColumns = `asset_id, name, status, daily_rate, currency_code, created_at, created_by, last_updated_at, last_updated_by`

func scanAsset(row pgx.Row) (models.Asset, error) {
	var m models.Asset
	err := row.Scan(
		&m.AssetID,
		&m.Name,
		&m.Status,
		&m.DailyRate,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAsset inserts a new asset.
func (r *PgxAssetRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	m := mapping.ToModelAsset(asset)

	query := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AssetID,
		m.Name,
		m.Status,
		m.DailyRate,
		m.CurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: asset %s already exists", apperrors.ErrDuplicate, m.AssetID)
		}
		return fmt.Errorf("failed to save asset %s: %w", m.AssetID, err)
	}
	return nil
}

// FindAssetByID retrieves an asset by its ID.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1;`

	m, err := scanAsset(r.pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset by ID %s: %w", assetID, err)
	}

	d := mapping.ToDomainAsset(m)
	return &d, nil
}

// FindAssetsByIDs retrieves multiple assets by their IDs. Missing IDs have no
// map entry.
func (r *PgxAssetRepository) FindAssetsByIDs(ctx context.Context, assetIDs []string) (map[string]domain.Asset, error) {
	if len(assetIDs) == 0 {
		return map[string]domain.Asset{}, nil
	}

	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, assetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets by IDs: %w", err)
	}
	defer rows.Close()

	assetsMap := make(map[string]domain.Asset)
	for rows.Next() {
		m, scanErr := scanAsset(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan asset row during batch fetch: %w", scanErr)
		}
		assetsMap[m.AssetID] = mapping.ToDomainAsset(m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows during batch fetch: %w", err)
	}

	return assetsMap, nil
}
