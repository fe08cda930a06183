package dto

import (
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest defines the data needed to seed a rentable asset. The
// fleet subsystem owns assets; this endpoint exists for setup and sync.
type CreateAssetRequest struct {
	AssetID      string          `json:"assetID"` // Optional; generated when empty
	Name         string          `json:"name" binding:"required"`
	DailyRate    decimal.Decimal `json:"dailyRate" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required"`
}

// AssetResponse defines the data returned for an asset.
type AssetResponse struct {
	AssetID      string             `json:"assetID"`
	Name         string             `json:"name"`
	Status       domain.AssetStatus `json:"status"`
	DailyRate    decimal.Decimal    `json:"dailyRate"`
	CurrencyCode string             `json:"currencyCode"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ToAssetResponse converts a domain.Asset to its response DTO.
func ToAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		AssetID:      a.AssetID,
		Name:         a.Name,
		Status:       a.Status,
		DailyRate:    a.DailyRate,
		CurrencyCode: a.CurrencyCode,
		CreatedAt:    a.CreatedAt,
	}
}
