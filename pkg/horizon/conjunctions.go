package horizon

import (
	"fmt"
	"math"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// Conjunction detection samples each pair's separation weekly and emits an
// event at every sample that is a local minimum below the gate: closer
// than both its neighbors. Like stations, this is a step-resolution
// detector; the true minimum falls within one step of the reported date.
// The same window mirrored around 180° yields oppositions.

// watchedPairs are the planet pairs scanned for conjunctions and
// oppositions.
var watchedPairs = [][2]zodiac.Planet{
	{zodiac.Jupiter, zodiac.Saturn},
	{zodiac.Mars, zodiac.Jupiter},
	{zodiac.Venus, zodiac.Jupiter},
	{zodiac.Venus, zodiac.Mars},
	{zodiac.Mercury, zodiac.Venus},
}

func (e *Engine) conjunctions(start, end time.Time, _ Observer) []Event {
	var events []Event
	for _, pair := range watchedPairs {
		events = append(events, e.pairEvents(pair[0], pair[1], start, end)...)
	}
	return events
}

// pairEvents collects the separation series for one pair, then reports
// local minima below the gate for both the conjunction (0°) and the
// opposition (180°) reading of the series. Failed samples become NaN and
// disqualify any window containing them.
func (e *Engine) pairEvents(p1, p2 zodiac.Planet, start, end time.Time) []Event {
	step := time.Duration(e.opts.ConjunctionStep) * 24 * time.Hour

	var dates []time.Time
	var seps []float64
	for t := start; !t.After(end); t = t.Add(step) {
		dates = append(dates, t)
		seps = append(seps, e.pairSeparation(p1, p2, t))
	}

	var events []Event
	for i := 1; i+1 < len(seps); i++ {
		prev, cur, next := seps[i-1], seps[i], seps[i+1]
		if math.IsNaN(prev) || math.IsNaN(cur) || math.IsNaN(next) {
			continue
		}

		if cur < e.opts.ConjunctionGate && cur < prev && next > cur {
			events = append(events, e.pairEvent(Conjunction, p1, p2, dates[i], cur))
		}

		oPrev, oCur, oNext := 180-prev, 180-cur, 180-next
		if oCur < e.opts.ConjunctionGate && oCur < oPrev && oNext > oCur {
			events = append(events, e.pairEvent(Opposition, p1, p2, dates[i], oCur))
		}
	}
	return events
}

func (e *Engine) pairEvent(typ EventType, p1, p2 zodiac.Planet, date time.Time, sep float64) Event {
	var title, link string
	if typ == Conjunction {
		title = fmt.Sprintf("%v Conjunct %v", p1, p2)
		link = "conjunction"
	} else {
		title = fmt.Sprintf("%v Opposite %v", p1, p2)
		link = "opposition"
	}

	desc := fmt.Sprintf("%v-%v %s within %.1f°.", p1, p2, link, sep)
	if pos, err := e.eph.Position(p1, date); err == nil {
		desc = fmt.Sprintf("%v-%v %s within %.1f° near %s.", p1, p2, link, sep, describeAt(pos.Longitude))
	}

	return Event{
		ID:          eventID(typ, date, p1.String(), p2.String()),
		Type:        typ,
		Title:       title,
		Description: desc,
		Date:        date,
		Planet:      p1,
		Planet2:     p2,
		Magnitude:   sep,
	}
}

// pairSeparation returns the pair's angular separation at t, or NaN when
// either position is unavailable.
func (e *Engine) pairSeparation(p1, p2 zodiac.Planet, t time.Time) float64 {
	a, err := e.eph.Position(p1, t)
	if err != nil {
		return math.NaN()
	}
	b, err := e.eph.Position(p2, t)
	if err != nil {
		return math.NaN()
	}
	return zodiac.Separation(a.Longitude, b.Longitude)
}
