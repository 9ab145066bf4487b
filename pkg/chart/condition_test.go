package chart

import (
	"testing"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name     string
		planet   zodiac.Planet
		speed    float64
		lon      float64
		sunLon   float64
		expected Condition
	}{
		{
			name:   "exact conjunction is cazimi only",
			planet: zodiac.Mercury, speed: 1.2, lon: 100, sunLon: 100,
			expected: Condition{Cazimi: true},
		},
		{
			name:   "within 17 arcminutes is cazimi",
			planet: zodiac.Venus, speed: 1.1, lon: 100.2, sunLon: 100,
			expected: Condition{Cazimi: true},
		},
		{
			name:   "inside 8 degrees is combust, not cazimi",
			planet: zodiac.Mercury, speed: 0.5, lon: 105, sunLon: 100,
			expected: Condition{Combust: true},
		},
		{
			name:   "inside 15 degrees is under the beams only",
			planet: zodiac.Venus, speed: 1.0, lon: 112, sunLon: 100,
			expected: Condition{UnderBeams: true},
		},
		{
			name:   "outside all bands is free of the Sun",
			planet: zodiac.Mars, speed: 0.6, lon: 200, sunLon: 100,
			expected: Condition{},
		},
		{
			name:   "negative speed flags retrograde",
			planet: zodiac.Saturn, speed: -0.05, lon: 250, sunLon: 100,
			expected: Condition{Retrograde: true},
		},
		{
			name:   "retrograde and combust combine",
			planet: zodiac.Mercury, speed: -1.1, lon: 96, sunLon: 100,
			expected: Condition{Retrograde: true, Combust: true},
		},
		{
			name:   "separation wraps across 0 degrees",
			planet: zodiac.Venus, speed: 1.0, lon: 357, sunLon: 3,
			expected: Condition{Combust: true},
		},
		{
			name:   "the Sun never carries Sun-relative flags",
			planet: zodiac.Sun, speed: 0.98, lon: 100, sunLon: 100,
			expected: Condition{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCondition(tt.planet, tt.speed, tt.lon, tt.sunLon)
			if got != tt.expected {
				t.Errorf("got %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestConditionBandsAreExclusive(t *testing.T) {
	// Sweep separations across all three bands: exactly one of the three
	// Sun-relative flags may be set at any separation.
	for s := 0.0; s <= 20; s += 0.05 {
		c := EvaluateCondition(zodiac.Mercury, 1.0, 100+s, 100)
		set := 0
		for _, f := range []bool{c.Cazimi, c.Combust, c.UnderBeams} {
			if f {
				set++
			}
		}
		if set > 1 {
			t.Fatalf("separation %.2f sets %d bands: %+v", s, set, c)
		}
		if s <= UnderBeamsOrb && set == 0 {
			t.Fatalf("separation %.2f inside the beams sets no band", s)
		}
	}
}

func TestResolveSect(t *testing.T) {
	tests := []struct {
		name        string
		altitude    float64
		hasAltitude bool
		sunLon      float64
		ascendant   float64
		sect        zodiac.Sect
		source      SectSource
	}{
		{"sun above horizon", 35, true, 0, 0, zodiac.SectDay, SectFromAltitude},
		{"sun below horizon", -20, true, 0, 0, zodiac.SectNight, SectFromAltitude},
		{"sun on horizon counts as night", 0, true, 0, 0, zodiac.SectNight, SectFromAltitude},
		{"fallback sun in 10th house", 0, false, 280, 10, zodiac.SectDay, SectFromAscendant},
		{"fallback sun in 3rd house", 0, false, 80, 10, zodiac.SectNight, SectFromAscendant},
		{"fallback sun on descendant", 0, false, 190, 10, zodiac.SectDay, SectFromAscendant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sect, source := ResolveSect(tt.altitude, tt.hasAltitude, tt.sunLon, tt.ascendant)
			if sect != tt.sect || source != tt.source {
				t.Errorf("got (%v, %v), expected (%v, %v)", sect, source, tt.sect, tt.source)
			}
		})
	}
}
