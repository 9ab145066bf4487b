package chart

import (
	"github.com/calder-ross/almagest/pkg/zodiac"
	"github.com/soniakeys/unit"
)

// Solar-proximity bands, Lilly's classical values. Applied in descending
// specificity: a body inside the cazimi band is cazimi only, never also
// combust or under the beams.
var (
	// CazimiOrb is 17 arcminutes: exact conjunction with the Sun.
	CazimiOrb = unit.AngleFromMin(17).Deg()
)

const (
	// CombustOrb is the outer edge of combustion.
	CombustOrb = 8.0
	// UnderBeamsOrb is the outer edge of the Sun's beams.
	UnderBeamsOrb = 15.0
)

// Condition holds the accidental conditions of one body: motion direction
// and the graduated bands of closeness to the Sun.
type Condition struct {
	Retrograde bool `json:"retrograde"`
	Cazimi     bool `json:"cazimi"`
	Combust    bool `json:"combust"`
	UnderBeams bool `json:"under_beams"`
}

// EvaluateCondition derives a body's condition from its own daily speed
// and its angular separation from the Sun. The Sun itself never carries
// the three Sun-relative flags: its separation from itself is zero and
// must not read as cazimi.
func EvaluateCondition(planet zodiac.Planet, speed, longitude, sunLongitude float64) Condition {
	c := Condition{Retrograde: speed < 0}

	if planet == zodiac.Sun {
		return c
	}

	s := zodiac.Separation(longitude, sunLongitude)
	switch {
	case s <= CazimiOrb:
		c.Cazimi = true
	case s <= CombustOrb:
		c.Combust = true
	case s <= UnderBeamsOrb:
		c.UnderBeams = true
	}
	return c
}
