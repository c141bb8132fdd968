package utils

import (
	"maestro/src/models"
	"maestro/src/types"
	"sort"
	"strings"
	"time"
)

// FilterSortEvents applies the date window and location filters as an AND
// combination, then sorts by the chosen key. The sort is stable; ties keep
// their original relative order. Pure: the input slice is not modified.
func FilterSortEvents(events []models.Event, filters types.EventListFilters, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	needle := strings.ToLower(strings.TrimSpace(filters.Location))
	for _, e := range events {
		switch filters.When {
		case "upcoming":
			if e.IsPast(now) {
				continue
			}
		case "past":
			if !e.IsPast(now) {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.LocationName), needle) {
			continue
		}
		out = append(out, e)
	}

	switch filters.Sort {
	case "date-desc":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartsAt().After(out[j].StartsAt())
		})
	case "title":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case "created":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default: // date-asc
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartsAt().Before(out[j].StartsAt())
		})
	}
	return out
}
