package domain

import (
	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of a rentable asset.
// The fleet subsystem owns assets; this core only reads them and reserves
// time ranges against them.
type AssetStatus string

const (
	AssetAvailable AssetStatus = "AVAILABLE"
	AssetReserved  AssetStatus = "RESERVED"
	AssetRetired   AssetStatus = "RETIRED"
)

// Asset identifies a rentable unit.
type Asset struct {
	AssetID      string          `json:"assetID"`      // Primary Key (UUID or fleet code)
	Name         string          `json:"name"`         // Display name, e.g. registration plate
	Status       AssetStatus     `json:"status"`       // AVAILABLE, RESERVED or RETIRED
	DailyRate    decimal.Decimal `json:"dailyRate"`    // Rental charge per started day
	CurrencyCode string          `json:"currencyCode"` // Currency of DailyRate
	AuditFields
}
