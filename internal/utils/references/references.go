// Package references holds the canonical scheme for deriving ledger external
// references from reservation facts. The scheme must be deterministic and
// stable: retries of the same event reuse the same reference, and the
// reconciliation engine predicts references from reservation identity alone.
package references

import "fmt"

// ReservationActivation is the external reference for the journal posted
// when a reservation becomes active.
func ReservationActivation(reservationID string) string {
	return fmt.Sprintf("reservation-%s-activation", reservationID)
}

// ReservationCompletion is the external reference for the journal posted
// when a reservation completes.
func ReservationCompletion(reservationID string) string {
	return fmt.Sprintf("reservation-%s-completion", reservationID)
}

// Adjustment derives a fresh reference for a correcting posting. Corrections
// never reuse the original reference; the sequence number distinguishes
// repeated adjustments to the same fact.
func Adjustment(originalRef string, seq int) string {
	return fmt.Sprintf("%s-adj-%d", originalRef, seq)
}
