package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Solar position from the truncated series of Meeus Ch. 25: mean longitude
// plus equation of center, corrected for nutation and aberration to give
// the apparent longitude of date.

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// julianCenturies returns Julian centuries since J2000.0.
func julianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// sunPosition returns the Sun's apparent ecliptic longitude (degrees) and
// Earth-Sun distance (AU) at Julian centuries T.
func sunPosition(T float64) (lon, distAU float64) {
	// Mean longitude and mean anomaly
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mrad := degToRad(normalize360(M))

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	trueLon := L0 + C

	// Apparent longitude: nutation and aberration
	omega := 125.04 - 1934.136*T
	lon = normalize360(trueLon - 0.00569 - 0.00478*math.Sin(degToRad(omega)))

	// Radius vector from the eccentric anomaly
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	E := Mrad + e*math.Sin(Mrad)*(1+e*math.Cos(Mrad))
	v := 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(E/2))
	distAU = (1 - e*e) / (1 + e*math.Cos(v))

	return lon, distAU
}

// sunPositionAt returns the Sun's geocentric position at a time.
func sunPositionAt(t time.Time) Position {
	T := julianCenturies(julian.TimeToJD(t.UTC()))
	lon, dist := sunPosition(T)
	return Position{Longitude: lon, Latitude: 0, DistanceAU: dist}
}
