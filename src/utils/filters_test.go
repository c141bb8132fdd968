package utils

import (
	"maestro/src/models"
	"maestro/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testEvents() []models.Event {
	events := []models.Event{
		{ID: 1, Title: "Winter Recital", Date: "2020-12-20", Time: "19:00", LocationName: "St. Cecilia Hall, Boston"},
		{ID: 2, Title: "Baroque Evening", Date: "2030-03-10", Time: "20:00", LocationName: "Symphony Hall, Boston"},
		{ID: 3, Title: "Avantgarde Night", Date: "2030-03-10", Time: "20:00", LocationName: "The Loft, Chicago"},
		{ID: 4, Title: "Choral Matinee", Date: "2031-06-01", Time: "11:00", LocationName: "Old Church, Portland"},
	}
	events[0].CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	events[1].CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events[2].CreatedAt = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	events[3].CreatedAt = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	return events
}

func TestFilterSortEventsDefault(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{}, now)

	assert.Len(t, out, 4)
	assert.Equal(t, uint(1), out[0].ID)
	assert.Equal(t, uint(4), out[3].ID)
}

func TestFilterSortEventsUpcoming(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{When: "upcoming"}, now)

	assert.Len(t, out, 3)
	for _, e := range out {
		assert.False(t, e.IsPast(now))
	}
}

func TestFilterSortEventsPast(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{When: "past"}, now)

	assert.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)
}

func TestFilterSortEventsLocationCaseInsensitive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{Location: "BOSTON"}, now)

	assert.Len(t, out, 2)
}

func TestFilterSortEventsFiltersCombineAsAnd(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{When: "upcoming", Location: "boston"}, now)

	assert.Len(t, out, 1)
	assert.Equal(t, uint(2), out[0].ID)
}

func TestFilterSortEventsDateDesc(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{Sort: "date-desc"}, now)

	assert.Equal(t, uint(4), out[0].ID)
	assert.Equal(t, uint(1), out[3].ID)
}

func TestFilterSortEventsTitle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{Sort: "title"}, now)

	assert.Equal(t, "Avantgarde Night", out[0].Title)
	assert.Equal(t, "Winter Recital", out[3].Title)
}

func TestFilterSortEventsCreated(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{Sort: "created"}, now)

	assert.Equal(t, uint(2), out[0].ID)
	assert.Equal(t, uint(1), out[3].ID)
}

// Ties on the sort key must keep their original relative order so repeated
// calls render identical lists.
func TestFilterSortEventsStableOnTies(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	out := FilterSortEvents(testEvents(), types.EventListFilters{When: "upcoming"}, now)

	assert.Equal(t, uint(2), out[0].ID)
	assert.Equal(t, uint(3), out[1].ID)
}

func TestFilterSortEventsDoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	in := testEvents()
	FilterSortEvents(in, types.EventListFilters{Sort: "date-desc"}, now)

	assert.Equal(t, uint(1), in[0].ID)
	assert.Equal(t, uint(4), in[3].ID)
}
