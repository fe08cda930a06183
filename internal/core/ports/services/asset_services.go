package services

import (
	"context"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/fleetstack/rental_ledger_app/internal/dto"
)

// AssetSvcFacade covers the setup-time asset surface. Assets are fleet-owned
// reference data; the booking engine only ever reads them.
type AssetSvcFacade interface {
	// RegisterAsset seeds a rentable asset.
	RegisterAsset(ctx context.Context, req dto.CreateAssetRequest, actorID string) (*domain.Asset, error)

	// GetAssetByID retrieves a specific asset.
	GetAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)
}
