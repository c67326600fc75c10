// Package display derives the presentation values every view computes
// from event capacity and registration state.
package display

import (
	"time"

	"eventxplore/internal/models"
)

const dateLayout = "2006-01-02"

// SpotsLeft may go negative if the boundary ever violates
// registeredCount <= capacity; it is not guarded here.
func SpotsLeft(e models.Event) int {
	return e.Capacity - e.RegisteredCount
}

func IsSoldOut(e models.Event) bool {
	return SpotsLeft(e) <= 0
}

func IsAlmostFull(e models.Event) bool {
	left := SpotsLeft(e)

	return left > 0 && left <= 10
}

// OccupancyPercent is clamped to 100 so the progress indicator never
// overflows. Capacity of zero or less counts as full.
func OccupancyPercent(e models.Event) int {
	if e.Capacity <= 0 {
		return 100
	}

	p := e.RegisteredCount * 100 / e.Capacity
	if p > 100 {
		p = 100
	}

	return p
}

// CanCancelRegistration reports whether the registration is confirmed and
// its event has not started yet. A missing event or an unparseable date
// means not cancellable.
func CanCancelRegistration(r models.Registration, now time.Time) bool {
	if r.Status != models.RegistrationConfirmed {
		return false
	}

	if r.Event == nil {
		return false
	}

	start, ok := parseEventDate(r.Event.Date)
	if !ok {
		return false
	}

	return start.After(now)
}

func parseEventDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
