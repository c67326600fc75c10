package eventfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventxplore/internal/eventfilter"
	"eventxplore/internal/models"
)

func sampleEvents() []models.Event {
	return []models.Event{
		{
			ID:          "1",
			Title:       "Tech Summit",
			Description: "The biggest technology conference around.",
			Category:    "Tecnologia",
			City:        "São Paulo",
			State:       "SP",
			IsFree:      false,
		},
		{
			ID:          "2",
			Title:       "Music Fest",
			Description: "Three days of live indie music.",
			Category:    "Música",
			City:        "Porto Alegre",
			State:       "RS",
			IsFree:      false,
		},
		{
			ID:          "3",
			Title:       "UX Workshop",
			Description: "Hands-on tech design practice.",
			Category:    "Tecnologia",
			City:        "Rio de Janeiro",
			State:       "RJ",
			IsFree:      true,
		},
	}
}

func ids(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}

	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		filters models.EventFilters
		wantIDs []string
	}{
		{
			name:    "Empty filters keep everything in order",
			filters: models.EventFilters{},
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "Search matches title case-insensitively",
			filters: models.EventFilters{Search: "tech"},
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "Search matches description too",
			filters: models.EventFilters{Search: "indie"},
			wantIDs: []string{"2"},
		},
		{
			name:    "Search with no hit",
			filters: models.EventFilters{Search: "cooking"},
			wantIDs: []string{},
		},
		{
			name:    "Category is exact and case-sensitive",
			filters: models.EventFilters{Category: "tecnologia"},
			wantIDs: []string{},
		},
		{
			name:    "Category exact match",
			filters: models.EventFilters{Category: "Tecnologia"},
			wantIDs: []string{"1", "3"},
		},
		{
			name:    "State is exact",
			filters: models.EventFilters{State: "RS"},
			wantIDs: []string{"2"},
		},
		{
			name:    "City is a case-insensitive substring",
			filters: models.EventFilters{City: "paulo"},
			wantIDs: []string{"1"},
		},
		{
			name:    "City has no diacritic folding",
			filters: models.EventFilters{City: "Sao Paulo"},
			wantIDs: []string{},
		},
		{
			name:    "IsFree keeps only free events",
			filters: models.EventFilters{IsFree: true},
			wantIDs: []string{"3"},
		},
		{
			name:    "Criteria combine with AND",
			filters: models.EventFilters{Search: "tech", State: "RJ"},
			wantIDs: []string{"3"},
		},
		{
			name:    "Date range is not a local predicate",
			filters: models.EventFilters{StartDate: "2099-01-01"},
			wantIDs: []string{"1", "2", "3"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := eventfilter.Apply(sampleEvents(), tc.filters)

			assert.Equal(t, tc.wantIDs, ids(got))
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	filterSets := []models.EventFilters{
		{},
		{Search: "tech"},
		{IsFree: true},
		{Category: "Tecnologia", City: "rio"},
		{Search: "music", State: "RS", IsFree: true},
	}

	for _, f := range filterSets {
		once := eventfilter.Apply(sampleEvents(), f)
		twice := eventfilter.Apply(once, f)

		assert.Equal(t, once, twice)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	events := sampleEvents()

	_ = eventfilter.Apply(events, models.EventFilters{Search: "tech"})

	require.Equal(t, sampleEvents(), events)
}

func TestApplyFreeSubset(t *testing.T) {
	t.Parallel()

	events := sampleEvents()

	got := eventfilter.Apply(events, models.EventFilters{IsFree: true})

	assert.LessOrEqual(t, len(got), len(events))
	for _, e := range got {
		assert.True(t, e.IsFree)
	}
}

func TestMatchesFalseIsNotPaidOnly(t *testing.T) {
	t.Parallel()

	paid := models.Event{Title: "Paid", IsFree: false}
	free := models.Event{Title: "Free", IsFree: true}

	// IsFree=false means "no constraint", not "paid only"
	assert.True(t, eventfilter.Matches(paid, models.EventFilters{IsFree: false}))
	assert.True(t, eventfilter.Matches(free, models.EventFilters{IsFree: false}))
}
