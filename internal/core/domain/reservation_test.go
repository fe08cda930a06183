package domain_test

import (
	"testing"
	"time"

	"github.com/fleetstack/rental_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.ReservationStatus
		to     domain.ReservationStatus
		want   bool
	}{
		{name: "reserved to active", from: domain.Reserved, to: domain.Active, want: true},
		{name: "active to completed", from: domain.Active, to: domain.Completed, want: true},
		{name: "reserved to cancelled", from: domain.Reserved, to: domain.Cancelled, want: true},
		{name: "active to cancelled", from: domain.Active, to: domain.Cancelled, want: true},
		{name: "reserved to completed skips activation", from: domain.Reserved, to: domain.Completed, want: false},
		{name: "completed is terminal", from: domain.Completed, to: domain.Active, want: false},
		{name: "cancelled is terminal", from: domain.Cancelled, to: domain.Active, want: false},
		{name: "cancelled cannot be cancelled again", from: domain.Cancelled, to: domain.Cancelled, want: false},
		{name: "active cannot re-activate", from: domain.Active, to: domain.Active, want: false},
		{name: "nothing transitions to reserved", from: domain.Active, to: domain.Reserved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReservation_ChargeDays(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int64
	}{
		{name: "exact four days", end: base.AddDate(0, 0, 4), want: 4},
		{name: "partial day rounds up", end: base.Add(26 * time.Hour), want: 2},
		{name: "under one day charges one", end: base.Add(3 * time.Hour), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Reservation{StartAt: base, EndAt: tt.end}
			assert.Equal(t, tt.want, r.ChargeDays())
		})
	}
}

func TestOverlaps_HalfOpenPeriods(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		aS   time.Time
		aE   time.Time
		bS   time.Time
		bE   time.Time
		want bool
	}{
		{name: "contained period overlaps", aS: day(1), aE: day(5), bS: day(3), bE: day(4), want: true},
		{name: "partial overlap", aS: day(1), aE: day(5), bS: day(4), bE: day(8), want: true},
		{name: "adjacent periods do not overlap", aS: day(1), aE: day(5), bS: day(5), bE: day(10), want: false},
		{name: "disjoint periods do not overlap", aS: day(1), aE: day(3), bS: day(7), bE: day(9), want: false},
		{name: "identical periods overlap", aS: day(1), aE: day(5), bS: day(1), bE: day(5), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Overlaps(tt.aS, tt.aE, tt.bS, tt.bE))
			assert.Equal(t, tt.want, domain.Overlaps(tt.bS, tt.bE, tt.aS, tt.aE))
		})
	}
}
