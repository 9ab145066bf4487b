package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// sep returns the smallest absolute separation of two longitudes.
func sep(a, b float64) float64 {
	d := math.Abs(normalize360(a - b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

func TestSunAtEquinox(t *testing.T) {
	// March equinox 2024: Mar 20, 03:06 UTC. Sun at 0° Aries.
	m := NewMeeus()
	pos, err := m.Position(zodiac.Sun, time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sep(pos.Longitude, 0); got > 0.1 {
		t.Errorf("Sun longitude at equinox = %.4f, expected within 0.1° of 0", pos.Longitude)
	}
	if pos.DistanceAU < 0.98 || pos.DistanceAU > 1.02 {
		t.Errorf("Sun distance = %.4f AU, outside plausible range", pos.DistanceAU)
	}
}

func TestSunAtSolstice(t *testing.T) {
	// June solstice 2023: Jun 21, 14:58 UTC. Sun at 0° Cancer (90°).
	m := NewMeeus()
	pos, err := m.Position(zodiac.Sun, time.Date(2023, 6, 21, 14, 58, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sep(pos.Longitude, 90); got > 0.1 {
		t.Errorf("Sun longitude at solstice = %.4f, expected within 0.1° of 90", pos.Longitude)
	}
}

func TestMoonAtNewMoon(t *testing.T) {
	// Known new moon: Jan 21, 2023 20:53 UTC. Sun and Moon conjunct.
	m := NewMeeus()
	when := time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC)
	sun, err := m.Position(zodiac.Sun, when)
	if err != nil {
		t.Fatal(err)
	}
	moon, err := m.Position(zodiac.Moon, when)
	if err != nil {
		t.Fatal(err)
	}
	if got := sep(sun.Longitude, moon.Longitude); got > 2 {
		t.Errorf("Sun-Moon separation at new moon = %.3f°, expected < 2°", got)
	}
}

func TestGreatConjunction2020(t *testing.T) {
	// Jupiter-Saturn great conjunction, Dec 21 2020, both near 0° Aquarius.
	m := NewMeeus()
	when := time.Date(2020, 12, 21, 18, 0, 0, 0, time.UTC)
	jup, err := m.Position(zodiac.Jupiter, when)
	if err != nil {
		t.Fatal(err)
	}
	sat, err := m.Position(zodiac.Saturn, when)
	if err != nil {
		t.Fatal(err)
	}
	if got := sep(jup.Longitude, sat.Longitude); got > 1.5 {
		t.Errorf("Jupiter-Saturn separation = %.3f°, expected < 1.5°", got)
	}
	if got := sep(jup.Longitude, 300.5); got > 2 {
		t.Errorf("Jupiter longitude = %.3f, expected near 300.5°", jup.Longitude)
	}
}

func TestMarsDistanceAtOpposition(t *testing.T) {
	// Mars opposition Dec 8, 2022: geocentric distance near its minimum.
	m := NewMeeus()
	near, err := m.Position(zodiac.Mars, time.Date(2022, 12, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	far, err := m.Position(zodiac.Mars, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if near.DistanceAU >= far.DistanceAU {
		t.Errorf("Mars at opposition (%.3f AU) should be closer than near conjunction (%.3f AU)",
			near.DistanceAU, far.DistanceAU)
	}
	if near.DistanceAU < 0.3 || near.DistanceAU > 0.9 {
		t.Errorf("Mars opposition distance = %.3f AU, outside plausible range", near.DistanceAU)
	}
}

func TestMercuryRetrogradeSpeed(t *testing.T) {
	// Mercury was retrograde through most of April 2024 (station direct
	// around Apr 25). The daily longitude delta must be negative mid-month.
	m := NewMeeus()
	day1 := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	p1, err := m.Position(zodiac.Mercury, day1)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := m.Position(zodiac.Mercury, day1.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	delta := normalize360(p2.Longitude - p1.Longitude)
	if delta > 180 {
		delta -= 360
	}
	if delta >= 0 {
		t.Errorf("Mercury daily motion on 2024-04-12 = %+.4f°/day, expected retrograde", delta)
	}
}

func TestLunarPoints(t *testing.T) {
	m := NewMeeus()
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	nn, err := m.Position(zodiac.NorthNode, when)
	if err != nil {
		t.Fatal(err)
	}
	sn, err := m.Position(zodiac.SouthNode, when)
	if err != nil {
		t.Fatal(err)
	}
	if got := sep(normalize360(nn.Longitude+180), sn.Longitude); got > 1e-9 {
		t.Errorf("south node not opposite north node: %.6f° apart from opposition", got)
	}
	// Mean node was in Aries (around 21°) at the start of 2024.
	if zodiac.SignOf(nn.Longitude) != zodiac.Aries {
		t.Errorf("north node in %v at 2024-01-01, expected Aries (lon=%.3f)", zodiac.SignOf(nn.Longitude), nn.Longitude)
	}

	// The node regresses: a week later its longitude must be smaller.
	later, err := m.Position(zodiac.NorthNode, when.AddDate(0, 0, 7))
	if err != nil {
		t.Fatal(err)
	}
	d := normalize360(later.Longitude - nn.Longitude)
	if d < 180 { // forward motion would land in (0,180)
		t.Errorf("node moved forward by %.4f°, expected retrograde motion", d)
	}
}

func TestPositionOutsideValidityWindow(t *testing.T) {
	m := NewMeeus()
	_, err := m.Position(zodiac.Mars, time.Date(1492, 10, 12, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for year 1492, got %v", err)
	}
}

func TestTopocentricSunNoonMadrid(t *testing.T) {
	// Solar noon in Madrid (40.4°N, 3.7°W) in late June: Sun high in the
	// south, altitude near 90 − 40.4 + 23.4 ≈ 73°.
	m := NewMeeus()
	hz, err := m.Topocentric(zodiac.Sun, time.Date(2024, 6, 21, 12, 15, 0, 0, time.UTC), 40.4, -3.7)
	if err != nil {
		t.Fatal(err)
	}
	if hz.Altitude < 68 || hz.Altitude > 78 {
		t.Errorf("noon solstice altitude = %.2f°, expected around 73°", hz.Altitude)
	}
	if hz.Azimuth < 150 || hz.Azimuth > 210 {
		t.Errorf("noon azimuth = %.2f°, expected near 180°", hz.Azimuth)
	}
}

func TestTopocentricSunMidnightBelowHorizon(t *testing.T) {
	m := NewMeeus()
	hz, err := m.Topocentric(zodiac.Sun, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 40.4, -3.7)
	if err != nil {
		t.Fatal(err)
	}
	if hz.Altitude >= 0 {
		t.Errorf("midnight sun altitude = %.2f°, expected below horizon", hz.Altitude)
	}
}

func TestNextSolarEclipse(t *testing.T) {
	// The next solar eclipse after 2024-03-01 is the total eclipse of
	// 2024-04-08 (18:17 UTC greatest eclipse).
	m := NewMeeus()
	ecl, ok := m.NextSolarEclipse(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("expected an eclipse")
	}
	want := time.Date(2024, 4, 8, 18, 17, 0, 0, time.UTC)
	if d := ecl.Peak.Sub(want); d < -12*time.Hour || d > 12*time.Hour {
		t.Errorf("eclipse peak = %v, expected near %v", ecl.Peak, want)
	}
	if ecl.Kind != SolarTotal {
		t.Errorf("eclipse kind = %v, expected total", ecl.Kind)
	}
	if ecl.Obscuration <= 0 || ecl.Obscuration > 1 {
		t.Errorf("obscuration = %.3f, expected in (0,1]", ecl.Obscuration)
	}
}

func TestNextLunarEclipse(t *testing.T) {
	// The next lunar eclipse after 2025-01-01 is the total eclipse of
	// 2025-03-14 (06:59 UTC greatest eclipse).
	m := NewMeeus()
	ecl, ok := m.NextLunarEclipse(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		t.Fatal("expected an eclipse")
	}
	want := time.Date(2025, 3, 14, 6, 59, 0, 0, time.UTC)
	if d := ecl.Peak.Sub(want); d < -12*time.Hour || d > 12*time.Hour {
		t.Errorf("eclipse peak = %v, expected near %v", ecl.Peak, want)
	}
	if ecl.Kind != LunarTotal {
		t.Errorf("eclipse kind = %v, expected total", ecl.Kind)
	}
}

func TestEclipseSearchAdvances(t *testing.T) {
	// Successive searches from each found peak must advance strictly in
	// time and stay in chronological order.
	m := NewMeeus()
	cursor := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var prev time.Time
	for i := 0; i < 5; i++ {
		ecl, ok := m.NextSolarEclipse(cursor)
		if !ok {
			t.Fatalf("search exhausted after %d eclipses", i)
		}
		if !ecl.Peak.After(cursor) {
			t.Fatalf("eclipse %d peak %v not after cursor %v", i, ecl.Peak, cursor)
		}
		if !prev.IsZero() && !ecl.Peak.After(prev) {
			t.Fatalf("eclipse %d out of order", i)
		}
		prev = ecl.Peak
		cursor = ecl.Peak
	}
}

func TestLocalSiderealTimeRange(t *testing.T) {
	for h := 0; h < 24; h++ {
		lst := LocalSiderealTime(time.Date(2024, 5, 1, h, 0, 0, 0, time.UTC), -122.3)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at hour %d = %.4f, outside [0,360)", h, lst)
		}
	}
}

func TestAscendantRange(t *testing.T) {
	for h := 0; h < 24; h += 3 {
		asc := Ascendant(time.Date(2024, 5, 1, h, 0, 0, 0, time.UTC), 40.4, -3.7)
		if asc < 0 || asc >= 360 {
			t.Errorf("ascendant at hour %d = %.4f, outside [0,360)", h, asc)
		}
	}
}
