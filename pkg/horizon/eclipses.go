package horizon

import (
	"fmt"
	"strings"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// Eclipse searches walk the provider's next-eclipse primitive through the
// window. The cursor advances 30 days past each found peak so the same
// eclipse is never found twice; iterations are capped as a guard against
// a misbehaving provider.

// eclipseCursorAdvance skips past a found eclipse before searching again.
const eclipseCursorAdvance = 30 * 24 * time.Hour

// eclipseIterationsPerYear caps the search loop. No year has more than
// three eclipses of one kind.
const eclipseIterationsPerYear = 3

func (e *Engine) solarEclipses(start, end time.Time, obs Observer) []Event {
	var events []Event
	cursor := start
	years := int(end.Sub(start).Hours()/24/daysPerYear) + 1

	for i := 0; i < years*eclipseIterationsPerYear; i++ {
		ecl, ok := e.eph.NextSolarEclipse(cursor)
		if !ok {
			break
		}
		if ecl.Peak.After(end) {
			break
		}

		title := fmt.Sprintf("%s Solar Eclipse", titleCase(ecl.Kind.String()))
		desc := fmt.Sprintf("%s solar eclipse peaking %s, obscuration %.0f%%.",
			titleCase(ecl.Kind.String()),
			ecl.Peak.UTC().Format("Jan 2 15:04 MST"),
			ecl.Obscuration*100)
		desc += e.visibilityNote(zodiac.Sun, ecl.Peak, obs)

		events = append(events, Event{
			ID:          eventID(SolarEclipse, ecl.Peak),
			Type:        SolarEclipse,
			Title:       title,
			Description: desc,
			Date:        ecl.Peak,
			Planet:      zodiac.Sun,
			Magnitude:   ecl.Magnitude,
		})
		cursor = ecl.Peak.Add(eclipseCursorAdvance)
	}
	return events
}

func (e *Engine) lunarEclipses(start, end time.Time, obs Observer) []Event {
	var events []Event
	cursor := start
	years := int(end.Sub(start).Hours()/24/daysPerYear) + 1

	for i := 0; i < years*eclipseIterationsPerYear; i++ {
		ecl, ok := e.eph.NextLunarEclipse(cursor)
		if !ok {
			break
		}
		if ecl.Peak.After(end) {
			break
		}

		title := fmt.Sprintf("%s Lunar Eclipse", titleCase(ecl.Kind.String()))
		desc := fmt.Sprintf("%s lunar eclipse peaking %s, magnitude %.2f.",
			titleCase(ecl.Kind.String()),
			ecl.Peak.UTC().Format("Jan 2 15:04 MST"),
			ecl.Magnitude)
		desc += e.visibilityNote(zodiac.Moon, ecl.Peak, obs)

		events = append(events, Event{
			ID:          eventID(LunarEclipse, ecl.Peak),
			Type:        LunarEclipse,
			Title:       title,
			Description: desc,
			Date:        ecl.Peak,
			Planet:      zodiac.Moon,
			Magnitude:   ecl.Magnitude,
		})
		cursor = ecl.Peak.Add(eclipseCursorAdvance)
	}
	return events
}

// visibilityNote reports whether the eclipsed body is above the observer's
// horizon at the peak. A failed topocentric call just drops the note.
func (e *Engine) visibilityNote(body zodiac.Planet, peak time.Time, obs Observer) string {
	hz, err := e.eph.Topocentric(body, peak, obs.Latitude, obs.Longitude)
	if err != nil {
		return ""
	}
	if hz.Altitude > 0 {
		return " Above the horizon at your location."
	}
	return " Below the horizon at your location."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
