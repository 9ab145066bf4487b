package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Lunar position from the dominant terms of Meeus Ch. 47. Good to a few
// arcminutes in longitude, which is ample for sign placement, aspects and
// the event searches.

const kmPerAU = 149597870.7

// moonFundamentals returns the Moon's mean longitude L', elongation D,
// solar mean anomaly M, lunar mean anomaly M' and argument of latitude F,
// all in degrees, at Julian centuries T.
func moonFundamentals(T float64) (L, D, M, Mp, F float64) {
	L = 218.3164477 +
		481267.88123421*T -
		0.0015786*T*T +
		T*T*T/538841 -
		T*T*T*T/65194000

	D = 297.8501921 +
		445267.1114034*T -
		0.0018819*T*T +
		T*T*T/545868 -
		T*T*T*T/113065000

	M = 357.5291092 +
		35999.0502909*T -
		0.0001536*T*T +
		T*T*T/24490000

	Mp = 134.9633964 +
		477198.8675055*T +
		0.0087414*T*T +
		T*T*T/69699 -
		T*T*T*T/14712000

	F = 93.2720950 +
		483202.0175233*T -
		0.0036539*T*T -
		T*T*T/3526000 +
		T*T*T*T/863310000

	return L, D, M, Mp, F
}

// moonPositionCalc returns the Moon's geocentric ecliptic longitude and
// latitude (degrees) and distance (AU) at Julian centuries T.
func moonPositionCalc(T float64) (lon, lat, distAU float64) {
	L, D, _, Mp, F := moonFundamentals(T)

	Drad := degToRad(normalize360(D))
	Mprad := degToRad(normalize360(Mp))
	Frad := degToRad(normalize360(F))

	// Longitude correction, dominant terms of Meeus Table 47.A
	lon = normalize360(L +
		6.289*math.Sin(Mprad) +
		1.274*math.Sin(2*Drad-Mprad) +
		0.658*math.Sin(2*Drad) +
		0.214*math.Sin(2*Mprad) +
		0.110*math.Sin(Drad))

	// Latitude, dominant terms of Table 47.B
	lat = 5.128*math.Sin(Frad) +
		0.2806*math.Sin(Mprad+Frad) +
		0.2777*math.Sin(Mprad-Frad) +
		0.1732*math.Sin(2*Drad-Frad)

	// Distance in km from the leading cosine terms
	distKm := 385000.56 -
		20905.355*math.Cos(Mprad) -
		3699.111*math.Cos(2*Drad-Mprad) -
		2955.968*math.Cos(2*Drad) -
		569.925*math.Cos(2*Mprad)

	return lon, lat, distKm / kmPerAU
}

// moonPositionAt returns the Moon's geocentric position at a time.
func moonPositionAt(t time.Time) Position {
	T := julianCenturies(julian.TimeToJD(t.UTC()))
	lon, lat, dist := moonPositionCalc(T)
	return Position{Longitude: lon, Latitude: lat, DistanceAU: dist}
}

// meanNodeLongitude returns the mean longitude of the Moon's ascending
// node at Julian centuries T, in degrees. The node regresses through the
// zodiac at about 0.053°/day.
func meanNodeLongitude(T float64) float64 {
	return normalize360(125.0445479 -
		1934.1362891*T +
		0.0020754*T*T +
		T*T*T/467441 -
		T*T*T*T/60616000)
}

// meanLilithLongitude returns the mean lunar apogee (Black Moon Lilith):
// the mean perigee longitude L' − M' plus 180°.
func meanLilithLongitude(T float64) float64 {
	perigee := 83.3532465 +
		4069.0137287*T -
		0.0103200*T*T -
		T*T*T/80053 +
		T*T*T*T/18999000
	return normalize360(perigee + 180)
}

// lunarPointAt returns the position of a mean lunar point (nodes, Lilith).
// These are directions on the ecliptic, not physical bodies; distance is
// reported as the Moon's mean distance and latitude as zero.
func lunarPointAt(point int, t time.Time) Position {
	T := julianCenturies(julian.TimeToJD(t.UTC()))
	var lon float64
	switch point {
	case pointNorthNode:
		lon = meanNodeLongitude(T)
	case pointSouthNode:
		lon = normalize360(meanNodeLongitude(T) + 180)
	default:
		lon = meanLilithLongitude(T)
	}
	return Position{Longitude: lon, Latitude: 0, DistanceAU: 385000.56 / kmPerAU}
}

const (
	pointNorthNode = iota
	pointSouthNode
	pointLilith
)
