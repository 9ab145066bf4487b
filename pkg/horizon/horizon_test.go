package horizon

import (
	"math"
	"testing"
	"time"

	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
)

// fakeProvider scripts longitudes as functions of days since a base epoch
// and serves canned eclipse lists.
type fakeProvider struct {
	epoch         time.Time
	lonFn         map[zodiac.Planet]func(days float64) float64
	solarEclipses []ephemeris.SolarEclipse
	lunarEclipses []ephemeris.LunarEclipse
	failWindow    func(planet zodiac.Planet, t time.Time) bool
}

func newFakeProvider(epoch time.Time) *fakeProvider {
	f := &fakeProvider{
		epoch: epoch,
		lonFn: make(map[zodiac.Planet]func(days float64) float64),
	}
	// Default: everything moves at the same slow direct rate from spread
	// offsets, so separations stay constant and nothing stations.
	for i, body := range zodiac.Tracked {
		offset := float64(i * 27)
		f.lonFn[body] = func(days float64) float64 { return offset + 0.5*days }
	}
	return f
}

func (f *fakeProvider) days(t time.Time) float64 {
	return t.Sub(f.epoch).Hours() / 24
}

func (f *fakeProvider) Position(body zodiac.Planet, t time.Time) (ephemeris.Position, error) {
	if f.failWindow != nil && f.failWindow(body, t) {
		return ephemeris.Position{}, ephemeris.ErrUnavailable
	}
	return ephemeris.Position{
		Longitude:  zodiac.Normalize360(f.lonFn[body](f.days(t))),
		DistanceAU: 1,
	}, nil
}

func (f *fakeProvider) Topocentric(body zodiac.Planet, t time.Time, lat, lon float64) (ephemeris.Horizontal, error) {
	return ephemeris.Horizontal{Azimuth: 180, Altitude: 30}, nil
}

func (f *fakeProvider) NextSolarEclipse(after time.Time) (ephemeris.SolarEclipse, bool) {
	for _, ecl := range f.solarEclipses {
		if ecl.Peak.After(after) {
			return ecl, true
		}
	}
	return ephemeris.SolarEclipse{}, false
}

func (f *fakeProvider) NextLunarEclipse(after time.Time) (ephemeris.LunarEclipse, bool) {
	for _, ecl := range f.lunarEclipses {
		if ecl.Peak.After(after) {
			return ecl, true
		}
	}
	return ephemeris.LunarEclipse{}, false
}

// retrogradeLoop scripts motion that is direct until day onset, retrograde
// until day recovery, then direct again.
func retrogradeLoop(base, onset, recovery float64) func(days float64) float64 {
	return func(days float64) float64 {
		switch {
		case days < onset:
			return base + days
		case days < recovery:
			return base + onset - (days - onset)
		default:
			return base + onset - (recovery - onset) + (days - recovery)
		}
	}
}

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestComputeEmptyForZeroYears(t *testing.T) {
	e := New(newFakeProvider(testEpoch), Options{})
	events := e.Compute(testEpoch, Observer{}, 0)
	if len(events) != 0 {
		t.Errorf("years=0 returned %d events, expected none", len(events))
	}
}

func TestEclipseEvents(t *testing.T) {
	f := newFakeProvider(testEpoch)
	f.solarEclipses = []ephemeris.SolarEclipse{
		{Peak: testEpoch.AddDate(0, 0, 100), Kind: ephemeris.SolarTotal, Magnitude: 1.02, Obscuration: 1},
		{Peak: testEpoch.AddDate(0, 0, 280), Kind: ephemeris.SolarPartial, Magnitude: 0.4, Obscuration: 0.2},
		{Peak: testEpoch.AddDate(0, 0, 5000), Kind: ephemeris.SolarAnnular, Magnitude: 0.95, Obscuration: 0.9},
	}
	f.lunarEclipses = []ephemeris.LunarEclipse{
		{Peak: testEpoch.AddDate(0, 0, 114), Kind: ephemeris.LunarPenumbral, Magnitude: 0.3, Obscuration: 0.3},
	}

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{Latitude: 40, Longitude: -3}, 2)

	var solar, lunar int
	for _, ev := range events {
		switch ev.Type {
		case SolarEclipse:
			solar++
			if ev.Planet != zodiac.Sun {
				t.Errorf("solar eclipse attributed to %v", ev.Planet)
			}
		case LunarEclipse:
			lunar++
		}
	}
	if solar != 2 {
		t.Errorf("got %d solar eclipses in window, expected 2 (third is past the horizon)", solar)
	}
	if lunar != 1 {
		t.Errorf("got %d lunar eclipses, expected 1", lunar)
	}
}

func TestStationEvents(t *testing.T) {
	f := newFakeProvider(testEpoch)
	f.lonFn[zodiac.Mercury] = retrogradeLoop(10, 50, 80)

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, 1)

	var stations []Event
	for _, ev := range events {
		if ev.Planet == zodiac.Mercury && (ev.Type == RetrogradeStart || ev.Type == RetrogradeEnd) {
			stations = append(stations, ev)
		}
	}
	if len(stations) != 2 {
		t.Fatalf("got %d Mercury stations, expected 2", len(stations))
	}
	if stations[0].Type != RetrogradeStart || stations[1].Type != RetrogradeEnd {
		t.Errorf("station order = %v, %v; expected Start then End", stations[0].Type, stations[1].Type)
	}

	// Detected within one sampling step of the true station days (50, 80).
	startDay := stations[0].Date.Sub(testEpoch).Hours() / 24
	endDay := stations[1].Date.Sub(testEpoch).Hours() / 24
	if startDay < 50 || startDay > 56 {
		t.Errorf("retrograde start detected at day %.0f, expected within one step of day 50", startDay)
	}
	if endDay < 80 || endDay > 86 {
		t.Errorf("retrograde end detected at day %.0f, expected within one step of day 80", endDay)
	}
}

func TestStationsAlternate(t *testing.T) {
	f := newFakeProvider(testEpoch)
	// Several retrograde loops across the window: the oscillation's peak
	// speed (40·2π/300 ≈ 0.84°/day) exceeds the direct rate.
	f.lonFn[zodiac.Mars] = func(days float64) float64 {
		return 40 + 0.5*days + 40*math.Sin(days*2*math.Pi/300)
	}

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, 3)

	expectStart := true
	for _, ev := range events {
		if ev.Planet != zodiac.Mars {
			continue
		}
		switch ev.Type {
		case RetrogradeStart:
			if !expectStart {
				t.Fatalf("two consecutive RetrogradeStart events at %v", ev.Date)
			}
			expectStart = false
		case RetrogradeEnd:
			if expectStart {
				t.Fatalf("RetrogradeEnd without preceding start at %v", ev.Date)
			}
			expectStart = true
		}
	}
}

func TestConjunctionEvents(t *testing.T) {
	f := newFakeProvider(testEpoch)
	// Venus overtakes Jupiter around day 45.
	f.lonFn[zodiac.Venus] = func(days float64) float64 { return 100 + 1.2*days }
	f.lonFn[zodiac.Jupiter] = func(days float64) float64 { return 150 + 0.1*days }

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, 1)

	var conj *Event
	for i, ev := range events {
		if ev.Type == Conjunction && ev.Planet == zodiac.Venus && ev.Planet2 == zodiac.Jupiter {
			if conj != nil {
				t.Fatal("duplicate Venus-Jupiter conjunction")
			}
			conj = &events[i]
		}
	}
	if conj == nil {
		t.Fatal("Venus-Jupiter conjunction not detected")
	}

	day := conj.Date.Sub(testEpoch).Hours() / 24
	if day < 38 || day > 52 {
		t.Errorf("conjunction detected at day %.0f, expected near day 45", day)
	}
	if conj.Magnitude >= 5 {
		t.Errorf("magnitude = %.2f, expected below the 5° gate", conj.Magnitude)
	}
}

func TestOppositionEvents(t *testing.T) {
	f := newFakeProvider(testEpoch)
	// Jupiter pulls ahead of Mars through exact opposition near day 40.
	f.lonFn[zodiac.Mars] = func(days float64) float64 { return 0 + 0.1*days }
	f.lonFn[zodiac.Jupiter] = func(days float64) float64 { return 160 + 0.6*days }

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, 1)

	found := false
	for _, ev := range events {
		if ev.Type == Opposition && ev.Planet == zodiac.Mars && ev.Planet2 == zodiac.Jupiter {
			found = true
		}
	}
	if !found {
		t.Error("Mars-Jupiter opposition not detected")
	}
}

func TestComputeOrderedAndBounded(t *testing.T) {
	f := newFakeProvider(testEpoch)
	f.lonFn[zodiac.Mercury] = retrogradeLoop(10, 40, 62)
	f.solarEclipses = []ephemeris.SolarEclipse{
		{Peak: testEpoch.AddDate(0, 0, 200), Kind: ephemeris.SolarPartial, Magnitude: 0.5, Obscuration: 0.3},
	}

	years := 2
	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, years)
	end := testEpoch.Add(time.Duration(float64(years) * daysPerYear * 24 * float64(time.Hour)))

	for i, ev := range events {
		if ev.Date.Before(testEpoch) || ev.Date.After(end) {
			t.Errorf("event %d (%v) at %v outside window", i, ev.Title, ev.Date)
		}
		if i > 0 && events[i].Date.Before(events[i-1].Date) {
			t.Errorf("events out of order at index %d", i)
		}
	}
}

func TestComputeIDsAreStable(t *testing.T) {
	build := func() []Event {
		f := newFakeProvider(testEpoch)
		f.lonFn[zodiac.Mercury] = retrogradeLoop(10, 50, 80)
		f.solarEclipses = []ephemeris.SolarEclipse{
			{Peak: testEpoch.AddDate(0, 0, 90), Kind: ephemeris.SolarTotal, Magnitude: 1.01, Obscuration: 1},
		}
		return New(f, Options{}).Compute(testEpoch, Observer{}, 1)
	}

	a, b := build(), build()
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("runs differ in size: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("event %d ID unstable: %s vs %s", i, a[i].ID, b[i].ID)
		}
		if a[i].ID == "" {
			t.Errorf("event %d has empty ID", i)
		}
	}
}

func TestFailedSamplesAreSkipped(t *testing.T) {
	f := newFakeProvider(testEpoch)
	f.lonFn[zodiac.Mercury] = retrogradeLoop(10, 50, 80)
	// Every Venus call fails; Mercury fails inside a window that does not
	// cover its stations.
	f.failWindow = func(planet zodiac.Planet, at time.Time) bool {
		if planet == zodiac.Venus {
			return true
		}
		d := at.Sub(testEpoch).Hours() / 24
		return planet == zodiac.Mercury && d > 100 && d < 130
	}

	e := New(f, Options{})
	events := e.Compute(testEpoch, Observer{}, 1)

	var mercuryStations int
	for _, ev := range events {
		if ev.Planet == zodiac.Venus {
			t.Errorf("event for Venus despite failing provider: %v", ev.Title)
		}
		if ev.Planet == zodiac.Mercury && (ev.Type == RetrogradeStart || ev.Type == RetrogradeEnd) {
			mercuryStations++
		}
	}
	if mercuryStations != 2 {
		t.Errorf("got %d Mercury stations with transient failures elsewhere, expected 2", mercuryStations)
	}
}

func TestSearch(t *testing.T) {
	events := []Event{
		{Title: "Total Solar Eclipse", Description: "Peak at noon.", Planet: zodiac.Sun, Type: SolarEclipse},
		{Title: "Mercury Retrograde Begins", Description: "Mercury stations retrograde.", Planet: zodiac.Mercury, Type: RetrogradeStart},
		{Title: "Venus Conjunct Jupiter", Description: "Close pass.", Planet: zodiac.Venus, Planet2: zodiac.Jupiter, Type: Conjunction},
	}

	if got := Search(events, "eclipse"); len(got) != 1 || got[0].Type != SolarEclipse {
		t.Errorf("eclipse query: got %d results", len(got))
	}
	if got := Search(events, "MERCURY"); len(got) != 1 || got[0].Planet != zodiac.Mercury {
		t.Errorf("case-insensitive planet query failed")
	}
	if got := Search(events, "jupiter"); len(got) != 1 || got[0].Type != Conjunction {
		t.Errorf("second-planet query: got %d results", len(got))
	}
	if got := Search(events, "retrograde start"); len(got) != 1 {
		t.Errorf("space-normalized type query: got %d results", len(got))
	}
	if got := Search(events, "pluto"); len(got) != 0 {
		t.Errorf("unmatched query returned %d results", len(got))
	}
	if got := Search(events, ""); len(got) != len(events) {
		t.Errorf("empty query filtered events")
	}
}

func TestNextMajorEvent(t *testing.T) {
	events := []Event{
		{Title: "first", Date: testEpoch.AddDate(0, 0, 10)},
		{Title: "second", Date: testEpoch.AddDate(0, 0, 20)},
	}

	ev, ok := NextMajorEvent(events, testEpoch)
	if !ok || ev.Title != "first" {
		t.Errorf("got %v, expected first event", ev.Title)
	}

	// Strictly after: an event at the query instant does not count.
	ev, ok = NextMajorEvent(events, events[0].Date)
	if !ok || ev.Title != "second" {
		t.Errorf("got %v, expected second event", ev.Title)
	}

	if _, ok := NextMajorEvent(events, testEpoch.AddDate(0, 0, 30)); ok {
		t.Error("expected no event past the end of the list")
	}
}
