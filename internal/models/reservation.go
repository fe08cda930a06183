package models

import "time"

// ReservationStatus is the lifecycle state of a reservation row.
type ReservationStatus string

const (
	Reserved  ReservationStatus = "RESERVED"
	Active    ReservationStatus = "ACTIVE"
	Completed ReservationStatus = "COMPLETED"
	Cancelled ReservationStatus = "CANCELLED"
)

// Reservation mirrors the reservations table. The table carries a gist
// exclusion constraint over (asset_id, tstzrange(start_at, end_at))
// restricted to RESERVED/ACTIVE rows; overlap rejection happens at commit
// time in the database, never in application code.
type Reservation struct {
	ReservationID string            `json:"reservationID"`
	AssetID       string            `json:"assetID"`
	CustomerRef   string            `json:"customerRef"`
	StartAt       time.Time         `json:"startAt"`
	EndAt         time.Time         `json:"endAt"`
	Status        ReservationStatus `json:"status"`
	ActivatedAt   *time.Time        `json:"activatedAt"`
	CompletedAt   *time.Time        `json:"completedAt"`
	CancelledAt   *time.Time        `json:"cancelledAt"`
	AuditFields
}
