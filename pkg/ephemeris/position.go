package ephemeris

import (
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
	"github.com/soniakeys/unit"
)

// normalize360 wraps an angle in degrees to [0, 360).
func normalize360(a float64) float64 {
	return unit.PMod(a, 360)
}

// Position implements Provider.
func (m *Meeus) Position(body zodiac.Planet, t time.Time) (Position, error) {
	if !inRange(t) {
		return Position{}, unavailable(body, t)
	}

	switch body {
	case zodiac.Sun:
		return sunPositionAt(t), nil
	case zodiac.Moon:
		return moonPositionAt(t), nil
	case zodiac.NorthNode:
		return lunarPointAt(pointNorthNode, t), nil
	case zodiac.SouthNode:
		return lunarPointAt(pointSouthNode, t), nil
	case zodiac.Lilith:
		return lunarPointAt(pointLilith, t), nil
	default:
		return planetPositionAt(body, t)
	}
}
