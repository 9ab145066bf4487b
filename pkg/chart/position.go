// Package chart assembles classical-astrology chart snapshots: planetary
// positions with sign placements, essential dignities, solar-proximity
// conditions, sect and aspects, all computed for one instant and observer
// location. Snapshots are plain values and never mutated after assembly.
package chart

import "github.com/calder-ross/almagest/pkg/zodiac"

// Position is one body's place in the chart. Sign, degree, minute and
// second are the decomposition of the ecliptic longitude within its sign.
// Azimuth/Altitude are observer-relative and only valid when
// HasHorizontal is set.
type Position struct {
	Planet        zodiac.Planet `json:"planet"`
	Longitude     float64       `json:"longitude"`
	Speed         float64       `json:"speed"` // degrees/day, signed
	Sign          zodiac.Sign   `json:"sign"`
	SignDegree    int           `json:"sign_degree"`
	SignMinute    int           `json:"sign_minute"`
	SignSecond    float64       `json:"sign_second"`
	Azimuth       float64       `json:"azimuth,omitempty"`
	Altitude      float64       `json:"altitude,omitempty"`
	HasHorizontal bool          `json:"has_horizontal"`
}

// NewPosition builds a Position from a longitude and daily speed,
// filling in the sign decomposition.
func NewPosition(planet zodiac.Planet, longitude, speed float64) Position {
	sign, deg, min, sec := zodiac.Decompose(longitude)
	return Position{
		Planet:     planet,
		Longitude:  zodiac.Normalize360(longitude),
		Speed:      speed,
		Sign:       sign,
		SignDegree: deg,
		SignMinute: min,
		SignSecond: sec,
	}
}

// DegreeInSign returns the fractional degree within the body's sign.
func (p Position) DegreeInSign() float64 {
	return float64(p.SignDegree) + float64(p.SignMinute)/60 + p.SignSecond/3600
}
