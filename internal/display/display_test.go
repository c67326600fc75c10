package display_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventxplore/internal/display"
	"eventxplore/internal/models"
)

func TestSpots(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		capacity       int
		registered     int
		wantLeft       int
		wantSoldOut    bool
		wantAlmostFull bool
	}{
		{name: "Exactly full", capacity: 50, registered: 50, wantLeft: 0, wantSoldOut: true},
		{name: "Five left", capacity: 50, registered: 45, wantLeft: 5, wantAlmostFull: true},
		{name: "Ten left is still almost full", capacity: 100, registered: 90, wantLeft: 10, wantAlmostFull: true},
		{name: "Eleven left is not", capacity: 100, registered: 89, wantLeft: 11},
		{name: "Overbooked goes negative", capacity: 50, registered: 55, wantLeft: -5, wantSoldOut: true},
		{name: "Empty event", capacity: 200, registered: 0, wantLeft: 200},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := models.Event{Capacity: tc.capacity, RegisteredCount: tc.registered}

			assert.Equal(t, tc.wantLeft, display.SpotsLeft(e))
			assert.Equal(t, tc.wantSoldOut, display.IsSoldOut(e))
			assert.Equal(t, tc.wantAlmostFull, display.IsAlmostFull(e))
		})
	}
}

func TestOccupancyPercent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		capacity   int
		registered int
		want       int
	}{
		{name: "Half full", capacity: 100, registered: 50, want: 50},
		{name: "Full", capacity: 100, registered: 100, want: 100},
		{name: "Overbooked clamps at 100", capacity: 50, registered: 60, want: 100},
		{name: "Empty", capacity: 100, registered: 0, want: 0},
		{name: "Zero capacity counts as full", capacity: 0, registered: 0, want: 100},
		{name: "Rounds down", capacity: 3, registered: 1, want: 33},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := models.Event{Capacity: tc.capacity, RegisteredCount: tc.registered}

			assert.Equal(t, tc.want, display.OccupancyPercent(e))
		})
	}
}

func TestCanCancelRegistration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		status models.RegistrationStatus
		date   string
		want   bool
	}{
		{name: "Confirmed and upcoming", status: models.RegistrationConfirmed, date: "2026-07-01", want: true},
		{name: "Confirmed but past", status: models.RegistrationConfirmed, date: "2026-06-01", want: false},
		{name: "Cancelled upcoming", status: models.RegistrationCancelled, date: "2026-07-01", want: false},
		{name: "Pending upcoming", status: models.RegistrationPending, date: "2026-07-01", want: false},
		{name: "Unparseable date", status: models.RegistrationConfirmed, date: "next friday", want: false},
		{name: "Empty date", status: models.RegistrationConfirmed, date: "", want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := models.Registration{
				Status: tc.status,
				Event:  &models.Event{Date: tc.date},
			}

			assert.Equal(t, tc.want, display.CanCancelRegistration(r, now))
		})
	}
}

func TestCanCancelRegistrationWithoutEvent(t *testing.T) {
	t.Parallel()

	r := models.Registration{Status: models.RegistrationConfirmed}

	assert.False(t, display.CanCancelRegistration(r, time.Now()))
}
