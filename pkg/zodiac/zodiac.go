// Package zodiac defines the closed sets of chart bodies and zodiac signs
// together with the angle arithmetic shared by the chart and event-horizon
// packages. All longitudes are ecliptic degrees measured from 0° Aries.
package zodiac

import "math"

// Planet identifies a tracked chart body. The set is closed: table lookups
// switch exhaustively over these values and treat anything else as a
// programming error.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	SouthNode
	Lilith
)

var planetNames = [...]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn",
	"Uranus", "Neptune", "Pluto", "North Node", "South Node", "Lilith",
}

func (p Planet) String() string {
	if p < Sun || p > Lilith {
		return "Unknown"
	}
	return planetNames[p]
}

// Classical lists the seven planets of the traditional dignity tables.
var Classical = []Planet{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn}

// Tracked lists every body included in a full chart snapshot.
var Tracked = []Planet{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
	Uranus, Neptune, Pluto, NorthNode, SouthNode, Lilith,
}

// Sign is a zodiac sign, each spanning exactly 30° of ecliptic longitude
// starting at 0° = Aries 0°.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return "Unknown"
	}
	return signNames[s]
}

// Element is the classical element of a sign, used by the triplicity table.
type Element int

const (
	Fire Element = iota
	Earth
	Air
	Water
)

// Element returns the sign's classical element. Signs cycle
// fire-earth-air-water starting at Aries.
func (s Sign) Element() Element {
	return Element(int(s) % 4)
}

// Sect classifies a chart as diurnal or nocturnal.
type Sect int

const (
	SectDay Sect = iota
	SectNight
)

func (s Sect) String() string {
	if s == SectDay {
		return "Day"
	}
	return "Night"
}

// Normalize360 wraps an angle in degrees to the range [0, 360).
func Normalize360(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// SignedDelta returns the signed difference to−from normalized into
// (-180, 180], preserving direction across the 0°/360° wraparound.
func SignedDelta(from, to float64) float64 {
	d := Normalize360(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

// Separation returns the smallest absolute angular distance between two
// longitudes, in [0, 180].
func Separation(a, b float64) float64 {
	return math.Abs(SignedDelta(a, b))
}

// SignOf returns the sign containing the given ecliptic longitude.
func SignOf(longitude float64) Sign {
	return Sign(int(Normalize360(longitude) / 30))
}

// Decompose splits an ecliptic longitude into its sign and the
// degree/minute/second position within that sign. Seconds carry the
// fractional remainder so the decomposition round-trips.
func Decompose(longitude float64) (sign Sign, deg, min int, sec float64) {
	lon := Normalize360(longitude)
	sign = Sign(int(lon / 30))
	within := lon - float64(sign)*30
	deg = int(within)
	rem := (within - float64(deg)) * 60
	min = int(rem)
	sec = (rem - float64(min)) * 60
	return sign, deg, min, sec
}

// Recompose rebuilds an ecliptic longitude from a sign position. Inverse of
// Decompose up to floating rounding.
func Recompose(sign Sign, deg, min int, sec float64) float64 {
	return Normalize360(float64(sign)*30 + float64(deg) + float64(min)/60 + sec/3600)
}
