package domain

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	Reserved  ReservationStatus = "RESERVED"
	Active    ReservationStatus = "ACTIVE"
	Completed ReservationStatus = "COMPLETED"
	Cancelled ReservationStatus = "CANCELLED"
)

// CanTransitionTo reports whether the status machine permits moving from s
// to target. COMPLETED and CANCELLED are terminal.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch target {
	case Active:
		return s == Reserved
	case Completed:
		return s == Active
	case Cancelled:
		return s == Reserved || s == Active
	default:
		return false
	}
}

// Reservation represents one exclusive claim on an Asset for the half-open
// period [StartAt, EndAt). Reservations are never deleted, only
// status-transitioned, so the booking history stays auditable.
// For a given asset, reservations with status RESERVED or ACTIVE have
// pairwise-disjoint periods; the booking store enforces this at commit time.
type Reservation struct {
	ReservationID string            `json:"reservationID"` // Primary Key (UUID)
	AssetID       string            `json:"assetID"`       // FK -> assets.asset_id
	CustomerRef   string            `json:"customerRef"`   // Opaque customer reference from the calling layer
	StartAt       time.Time         `json:"startAt"`       // Inclusive period start
	EndAt         time.Time         `json:"endAt"`         // Exclusive period end
	Status        ReservationStatus `json:"status"`
	ActivatedAt   *time.Time        `json:"activatedAt"`   // Observed time of activation
	CompletedAt   *time.Time        `json:"completedAt"`   // Observed time of completion
	CancelledAt   *time.Time        `json:"cancelledAt"`   // Time cancellation was recorded
	AuditFields
}

// ChargeDays returns the number of billable days for the reservation period.
// Partial days round up, minimum one day.
func (r Reservation) ChargeDays() int64 {
	d := r.EndAt.Sub(r.StartAt)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps reports whether two half-open periods intersect. Adjacent
// periods ([a,b) and [b,c)) do not overlap. This is only an early-rejection
// helper; the storage constraint is the source of correctness.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
