package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
)

// fakeEphemeris serves scripted longitudes advancing linearly from a base
// epoch, so the assembler's finite-difference speed comes out equal to the
// scripted daily speed.
type fakeEphemeris struct {
	epoch       time.Time
	lons        map[zodiac.Planet]float64
	speeds      map[zodiac.Planet]float64
	sunAltitude float64
	topoErr     error
	failBody    zodiac.Planet
	fail        bool
}

func newFakeEphemeris() *fakeEphemeris {
	f := &fakeEphemeris{
		epoch:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		lons:   make(map[zodiac.Planet]float64),
		speeds: make(map[zodiac.Planet]float64),
	}
	for i, body := range zodiac.Tracked {
		f.lons[body] = float64(i*27) + 3
		f.speeds[body] = 0.5
	}
	return f
}

func (f *fakeEphemeris) Position(body zodiac.Planet, t time.Time) (ephemeris.Position, error) {
	if f.fail && body == f.failBody {
		return ephemeris.Position{}, ephemeris.ErrUnavailable
	}
	days := t.Sub(f.epoch).Hours() / 24
	return ephemeris.Position{
		Longitude:  zodiac.Normalize360(f.lons[body] + f.speeds[body]*days),
		DistanceAU: 1,
	}, nil
}

func (f *fakeEphemeris) Topocentric(body zodiac.Planet, t time.Time, lat, lon float64) (ephemeris.Horizontal, error) {
	if f.topoErr != nil {
		return ephemeris.Horizontal{}, f.topoErr
	}
	alt := 10.0
	if body == zodiac.Sun {
		alt = f.sunAltitude
	}
	return ephemeris.Horizontal{Azimuth: 180, Altitude: alt}, nil
}

func (f *fakeEphemeris) NextSolarEclipse(after time.Time) (ephemeris.SolarEclipse, bool) {
	return ephemeris.SolarEclipse{}, false
}

func (f *fakeEphemeris) NextLunarEclipse(after time.Time) (ephemeris.LunarEclipse, bool) {
	return ephemeris.LunarEclipse{}, false
}

func TestComputeSnapshot(t *testing.T) {
	f := newFakeEphemeris()
	f.sunAltitude = 40
	f.speeds[zodiac.Saturn] = -0.05

	snap, err := Compute(f, f.epoch, Location{Latitude: 40.4, Longitude: -3.7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Planets) != len(zodiac.Tracked) {
		t.Errorf("got %d planets, expected %d", len(snap.Planets), len(zodiac.Tracked))
	}
	if snap.Sect != zodiac.SectDay || snap.SectSource != SectFromAltitude {
		t.Errorf("sect = %v from %v, expected Day from altitude", snap.Sect, snap.SectSource)
	}
	if len(snap.Dignities) != len(zodiac.Classical) {
		t.Errorf("got %d dignity entries, expected the %d classical planets",
			len(snap.Dignities), len(zodiac.Classical))
	}
	if len(snap.Conditions) != len(zodiac.Tracked) {
		t.Errorf("got %d condition entries, expected %d", len(snap.Conditions), len(zodiac.Tracked))
	}
	if !snap.Conditions[zodiac.Saturn].Retrograde {
		t.Error("Saturn with negative speed must be flagged retrograde")
	}
	if snap.Conditions[zodiac.Sun].Cazimi || snap.Conditions[zodiac.Sun].Combust || snap.Conditions[zodiac.Sun].UnderBeams {
		t.Error("the Sun must never carry Sun-relative conditions")
	}
	if snap.JulianDay == 0 {
		t.Error("julian day not set")
	}
	if snap.LocalSiderealTime < 0 || snap.LocalSiderealTime >= 360 {
		t.Errorf("LST = %v, outside [0,360)", snap.LocalSiderealTime)
	}

	// Positions decompose consistently.
	for _, p := range snap.Planets {
		back := zodiac.Recompose(p.Sign, p.SignDegree, p.SignMinute, p.SignSecond)
		if zodiac.Separation(back, p.Longitude) > 1e-9 {
			t.Errorf("%v decomposition does not round-trip: %v vs %v", p.Planet, back, p.Longitude)
		}
	}
}

func TestComputeFailsAtomically(t *testing.T) {
	f := newFakeEphemeris()
	f.fail = true
	f.failBody = zodiac.Venus

	snap, err := Compute(f, f.epoch, Location{})
	if err == nil {
		t.Fatal("expected error when a body cannot be resolved")
	}
	if snap != nil {
		t.Error("no partial snapshot may be returned on failure")
	}
	if !errors.Is(err, ephemeris.ErrUnavailable) {
		t.Errorf("error %v does not wrap ErrUnavailable", err)
	}
}

func TestComputeSectFallback(t *testing.T) {
	f := newFakeEphemeris()
	f.topoErr = errors.New("no horizon data")

	snap, err := Compute(f, f.epoch, Location{Latitude: 51.5, Longitude: 0})
	if err != nil {
		t.Fatalf("topocentric failure must not fail the chart: %v", err)
	}
	if snap.SectSource != SectFromAscendant {
		t.Errorf("sect source = %v, expected ascendant fallback", snap.SectSource)
	}
	for _, p := range snap.Planets {
		if p.HasHorizontal {
			t.Errorf("%v claims horizontal coordinates despite failing topocentric calls", p.Planet)
		}
	}
}

func TestComputeSpeedFromFiniteDifference(t *testing.T) {
	f := newFakeEphemeris()
	f.speeds[zodiac.Moon] = 13.2
	f.speeds[zodiac.Mercury] = -1.1

	snap, err := Compute(f, f.epoch, Location{})
	if err != nil {
		t.Fatal(err)
	}
	moon := snap.position(zodiac.Moon)
	if math.Abs(moon.Speed-13.2) > 1e-6 {
		t.Errorf("Moon speed = %v, expected 13.2", moon.Speed)
	}
	merc := snap.position(zodiac.Mercury)
	if merc.Speed >= 0 {
		t.Errorf("Mercury speed = %v, expected negative", merc.Speed)
	}
}
