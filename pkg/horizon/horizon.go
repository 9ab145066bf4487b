// Package horizon scans a multi-year window for significant astronomical
// events: solar and lunar eclipses, retrograde stations and close
// planetary conjunctions. The four searches are independent; station and
// conjunction detection work at fixed sampling steps, so their timestamps
// are step-resolution approximations rather than exact solves.
package horizon

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
	"github.com/google/uuid"
)

// EventType classifies an astronomical event.
type EventType int

const (
	SolarEclipse EventType = iota
	LunarEclipse
	RetrogradeStart
	RetrogradeEnd
	Conjunction
	Opposition
)

func (t EventType) String() string {
	switch t {
	case SolarEclipse:
		return "Solar Eclipse"
	case LunarEclipse:
		return "Lunar Eclipse"
	case RetrogradeStart:
		return "Retrograde Start"
	case RetrogradeEnd:
		return "Retrograde End"
	case Conjunction:
		return "Conjunction"
	default:
		return "Opposition"
	}
}

// Event is one entry in the event horizon. ID is stable: it is derived
// from the type and timestamp, so recomputing the same window yields the
// same IDs. Planet2 is meaningful only for pair events (conjunctions and
// oppositions). Magnitude carries the eclipse magnitude or the pair
// separation in degrees; it is zero for stations.
type Event struct {
	ID          string        `json:"id"`
	Type        EventType     `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Planet      zodiac.Planet `json:"planet"`
	Planet2     zodiac.Planet `json:"planet2,omitempty"`
	Magnitude   float64       `json:"magnitude,omitempty"`
}

// eventNamespace seeds the SHA1 UUIDs so event IDs are reproducible
// across processes.
var eventNamespace = uuid.MustParse("5e1b6d2c-9a37-4b6e-8f04-2f6f1f0a9c41")

// eventID derives the stable identifier for an event from its type and
// timestamp, plus the involved bodies to keep same-day events of one type
// distinct.
func eventID(t EventType, date time.Time, parts ...string) string {
	seed := t.String() + "|" + date.UTC().Format(time.RFC3339)
	for _, p := range parts {
		seed += "|" + p
	}
	return uuid.NewSHA1(eventNamespace, []byte(seed)).String()
}

// Observer is the geographic reference for visibility annotations. The
// searches themselves are geocentric.
type Observer struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Options tune the engine's sampling. Zero values select the defaults.
type Options struct {
	// InnerStationStep is the station sampling step for Mercury and
	// Venus, in days. Default 5.
	InnerStationStep int
	// OuterStationStep is the station sampling step for Mars through
	// Saturn, in days. Default 10.
	OuterStationStep int
	// ConjunctionStep is the pair sampling step in days. Default 7.
	ConjunctionStep int
	// ConjunctionGate is the separation in degrees under which a local
	// minimum counts as a conjunction (or, mirrored around 180°, an
	// opposition). Default 5.
	ConjunctionGate float64
}

func (o Options) withDefaults() Options {
	if o.InnerStationStep <= 0 {
		o.InnerStationStep = 5
	}
	if o.OuterStationStep <= 0 {
		o.OuterStationStep = 10
	}
	if o.ConjunctionStep <= 0 {
		o.ConjunctionStep = 7
	}
	if o.ConjunctionGate <= 0 {
		o.ConjunctionGate = 5
	}
	return o
}

// Engine runs the four event searches against one ephemeris provider.
type Engine struct {
	eph  ephemeris.Provider
	opts Options
}

// New creates an engine. Zero-valued options select the defaults.
func New(eph ephemeris.Provider, opts Options) *Engine {
	return &Engine{eph: eph, opts: opts.withDefaults()}
}

// DefaultYears is the default horizon length.
const DefaultYears = 5

// daysPerYear converts the year count to the window end.
const daysPerYear = 365.25

// Compute scans [start, start + years×365.25d] and returns all events in
// chronological order. years <= 0 yields an empty list. The four
// sub-searches run concurrently; a failing sample or an exhausted eclipse
// search degrades only its own results, never the whole scan.
func (e *Engine) Compute(start time.Time, obs Observer, years int) []Event {
	if years <= 0 {
		return []Event{}
	}
	end := start.Add(time.Duration(float64(years) * daysPerYear * 24 * float64(time.Hour)))

	searches := []func(start, end time.Time, obs Observer) []Event{
		e.solarEclipses,
		e.lunarEclipses,
		e.stations,
		e.conjunctions,
	}

	results := make([][]Event, len(searches))
	var wg sync.WaitGroup
	for i, search := range searches {
		wg.Add(1)
		go func(i int, search func(start, end time.Time, obs Observer) []Event) {
			defer wg.Done()
			results[i] = search(start, end, obs)
		}(i, search)
	}
	wg.Wait()

	var events []Event
	for _, r := range results {
		events = append(events, r...)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	if events == nil {
		events = []Event{}
	}
	return events
}

// describeAt formats a zodiacal position for event descriptions.
func describeAt(longitude float64) string {
	sign, deg, min, _ := zodiac.Decompose(longitude)
	return fmt.Sprintf("%d°%02d' %v", deg, min, sign)
}
