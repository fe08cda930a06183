package models

import "github.com/shopspring/decimal"

// AssetStatus is the lifecycle state of a rentable asset.
type AssetStatus string

const (
	AssetAvailable AssetStatus = "AVAILABLE"
	AssetReserved  AssetStatus = "RESERVED"
	AssetRetired   AssetStatus = "RETIRED"
)

// Asset mirrors the assets table. Owned by the fleet subsystem; this service
// reads it and seeds it at setup.
type Asset struct {
	AssetID      string          `json:"assetID"`
	Name         string          `json:"name"`
	Status       AssetStatus     `json:"status"`
	DailyRate    decimal.Decimal `json:"dailyRate"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}
