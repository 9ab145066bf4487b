package horizon

import (
	"fmt"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// Station detection samples each planet's longitude at a fixed step and
// watches the sign of the one-day forward difference. A sign flip between
// consecutive samples is reported at the sample where it was seen, so
// station timestamps carry a worst-case error of one sampling step. This
// is a deliberate precision/performance tradeoff; the step sizes are
// tunable through Options.

// stationBodies lists the bodies that station geocentrically, with their
// sampling cadence class. The Sun and Moon never retrograde and are
// excluded.
var stationBodies = []struct {
	planet zodiac.Planet
	inner  bool
}{
	{zodiac.Mercury, true},
	{zodiac.Venus, true},
	{zodiac.Mars, false},
	{zodiac.Jupiter, false},
	{zodiac.Saturn, false},
}

func (e *Engine) stations(start, end time.Time, _ Observer) []Event {
	var events []Event
	for _, body := range stationBodies {
		step := e.opts.OuterStationStep
		if body.inner {
			step = e.opts.InnerStationStep
		}
		events = append(events, e.stationsFor(body.planet, start, end, step)...)
	}
	return events
}

// stationsFor scans one body across the window. Samples where either
// position call fails are skipped without aborting the scan.
func (e *Engine) stationsFor(planet zodiac.Planet, start, end time.Time, stepDays int) []Event {
	var events []Event
	step := time.Duration(stepDays) * 24 * time.Hour

	primed := false
	wasRetrograde := false

	for t := start; !t.After(end); t = t.Add(step) {
		speed, ok := e.dailySpeed(planet, t)
		if !ok {
			continue
		}
		retro := speed < 0

		if primed && retro != wasRetrograde {
			var typ EventType
			var title string
			if retro {
				typ = RetrogradeStart
				title = fmt.Sprintf("%v Retrograde Begins", planet)
			} else {
				typ = RetrogradeEnd
				title = fmt.Sprintf("%v Retrograde Ends", planet)
			}

			desc := fmt.Sprintf("%v stations %s.", planet, directionWord(retro))
			if pos, err := e.eph.Position(planet, t); err == nil {
				desc = fmt.Sprintf("%v stations %s near %s.", planet, directionWord(retro), describeAt(pos.Longitude))
			}

			events = append(events, Event{
				ID:          eventID(typ, t, planet.String()),
				Type:        typ,
				Title:       title,
				Description: desc,
				Date:        t,
				Planet:      planet,
			})
		}

		primed = true
		wasRetrograde = retro
	}
	return events
}

// dailySpeed returns the one-day forward difference of a body's
// longitude, normalized into (-180,180] to survive the 0°/360° seam.
func (e *Engine) dailySpeed(planet zodiac.Planet, t time.Time) (float64, bool) {
	p0, err := e.eph.Position(planet, t)
	if err != nil {
		return 0, false
	}
	p1, err := e.eph.Position(planet, t.Add(24*time.Hour))
	if err != nil {
		return 0, false
	}
	return zodiac.SignedDelta(p0.Longitude, p1.Longitude), true
}

func directionWord(retro bool) string {
	if retro {
		return "retrograde"
	}
	return "direct"
}
