package lib

import (
	"fmt"
	"net/url"
	"time"

	"maestro/src/config"
)

const calendarRenderURL = "https://calendar.google.com/calendar/render"

// BuildCalendarLink produces a calendar "quick add" deep link for an event.
// Start/end are formatted as punctuation-free UTC stamps; end is start plus a
// fixed two hours since events carry no duration field.
func BuildCalendarLink(title string, startsAt time.Time, details string, location string) string {
	start := startsAt.UTC()
	end := start.Add(config.EVENT_DURATION_HOURS * time.Hour)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", fmt.Sprintf("%s/%s",
		start.Format(config.CALENDAR_STAMP_FORMAT),
		end.Format(config.CALENDAR_STAMP_FORMAT),
	))
	if details != "" {
		q.Set("details", details)
	}
	if location != "" {
		q.Set("location", location)
	}
	return calendarRenderURL + "?" + q.Encode()
}
