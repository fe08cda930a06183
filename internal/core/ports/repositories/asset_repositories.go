package repositories

import (
	"context"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
)

// AssetReader defines read operations for fleet asset data. The booking and
// reconciliation services only ever read assets.
type AssetReader interface {
	// FindAssetByID retrieves an asset by its unique identifier.
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// FindAssetsByIDs retrieves multiple assets by their IDs.
	FindAssetsByIDs(ctx context.Context, assetIDs []string) (map[string]domain.Asset, error)
}

// AssetWriter defines the setup-time write path for asset reference data.
type AssetWriter interface {
	// SaveAsset persists a new asset.
	SaveAsset(ctx context.Context, asset domain.Asset) error
}

// AssetRepositoryFacade combines all asset-related repository interfaces
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
}
