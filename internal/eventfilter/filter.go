// Package eventfilter evaluates browse criteria against events in memory.
//
// The boundary already filters on the same criteria via the query string;
// the client re-applies them after every fetch regardless. Both layers use
// Matches, so filtering twice with the same criteria is a no-op.
package eventfilter

import (
	"strings"

	"eventxplore/internal/models"
)

// Matches reports whether the event passes every active criterion.
// Zero-value fields are skipped. Search and city match case-insensitive
// substrings, category and state match exactly, and IsFree only ever
// narrows to free events (there is no paid-only filter). No unicode
// normalization: "Sao" does not match "São".
func Matches(e models.Event, f models.EventFilters) bool {
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Description), search) {
			return false
		}
	}

	if f.Category != "" && e.Category != f.Category {
		return false
	}

	if f.State != "" && e.State != f.State {
		return false
	}

	if f.City != "" && !strings.Contains(strings.ToLower(e.City), strings.ToLower(f.City)) {
		return false
	}

	if f.IsFree && !e.IsFree {
		return false
	}

	return true
}

// Apply returns the events that match, preserving input order. The input
// slice is never mutated. Date-range criteria are not applied here; they
// are query-string hints for the boundary.
func Apply(events []models.Event, f models.EventFilters) []models.Event {
	out := make([]models.Event, 0, len(events))

	for _, e := range events {
		if Matches(e, f) {
			out = append(out, e)
		}
	}

	return out
}
