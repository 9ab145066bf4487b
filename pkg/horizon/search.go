package horizon

import (
	"strings"
	"time"
)

// Search filters events by a case-insensitive substring match over title,
// description, planet names and the event type. An empty query returns
// the input unchanged.
func Search(events []Event, query string) []Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return events
	}

	var matched []Event
	for _, ev := range events {
		fields := []string{
			ev.Title,
			ev.Description,
			ev.Planet.String(),
			ev.Type.String(),
		}
		if ev.Type == Conjunction || ev.Type == Opposition {
			fields = append(fields, ev.Planet2.String())
		}
		haystack := strings.ToLower(strings.Join(fields, " "))
		if strings.Contains(haystack, q) {
			matched = append(matched, ev)
		}
	}
	if matched == nil {
		matched = []Event{}
	}
	return matched
}

// NextMajorEvent returns the first event strictly after the given instant.
// ok is false when no later event exists. The input is assumed sorted, as
// Compute returns it.
func NextMajorEvent(events []Event, after time.Time) (Event, bool) {
	for _, ev := range events {
		if ev.Date.After(after) {
			return ev, true
		}
	}
	return Event{}, false
}
