package ephemeris

import (
	"math"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
	"github.com/soniakeys/meeus/v3/julian"
)

// Topocentric reduction: ecliptic of date -> equatorial -> horizontal via
// Greenwich sidereal time and the local hour angle (Meeus Ch. 12/13).
// Diurnal parallax is neglected; it matters only for the Moon (under 1°)
// and is inside this package's documented accuracy.

// obliquity returns the mean obliquity of the ecliptic in degrees.
func obliquity(T float64) float64 {
	return 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
}

// eclipticToEquatorial converts ecliptic coordinates of date (degrees) to
// right ascension and declination (radians).
func eclipticToEquatorial(lonDeg, latDeg, epsDeg float64) (ra, dec float64) {
	lam := degToRad(lonDeg)
	bet := degToRad(latDeg)
	eps := degToRad(epsDeg)

	sinDec := math.Sin(bet)*math.Cos(eps) + math.Cos(bet)*math.Sin(eps)*math.Sin(lam)
	dec = math.Asin(sinDec)

	y := math.Sin(lam)*math.Cos(eps) - math.Tan(bet)*math.Sin(eps)
	ra = math.Atan2(y, math.Cos(lam))
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return ra, dec
}

// greenwichMeanSiderealTime computes GMST in degrees for a Julian Day
// (IAU 1982 model, Meeus eq. 12.4).
func greenwichMeanSiderealTime(jd float64) float64 {
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - 2451545.0) / 36525.0

	gmst := 6.697374558 + 2400.0513369*T + 0.0000258622*T*T - 1.7222e-9*T*T*T
	gmst += 1.00273790935 * (jd - jd0) * 24.0

	gmst = math.Mod(gmst, 24)
	if gmst < 0 {
		gmst += 24
	}
	return gmst * 15.0
}

// LocalSiderealTime returns the local sidereal time in degrees [0,360) for
// a UTC instant and an east-positive geographic longitude.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	jd := julian.TimeToJD(t.UTC())
	return normalize360(greenwichMeanSiderealTime(jd) + lonDeg)
}

// Topocentric implements Provider.
func (m *Meeus) Topocentric(body zodiac.Planet, t time.Time, latDeg, lonDeg float64) (Horizontal, error) {
	pos, err := m.Position(body, t)
	if err != nil {
		return Horizontal{}, err
	}

	jd := julian.TimeToJD(t.UTC())
	T := julianCenturies(jd)

	ra, dec := eclipticToEquatorial(pos.Longitude, pos.Latitude, obliquity(T))

	lst := degToRad(LocalSiderealTime(t, lonDeg))
	H := lst - ra // hour angle
	phi := degToRad(latDeg)

	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(H)
	alt := math.Asin(sinAlt)

	// Azimuth from north, eastward
	azY := math.Sin(H)
	azX := math.Cos(H)*math.Sin(phi) - math.Tan(dec)*math.Cos(phi)
	az := normalize360(radToDeg(math.Atan2(azY, azX)) + 180)

	return Horizontal{Azimuth: az, Altitude: radToDeg(alt)}, nil
}

// Ascendant returns the ecliptic longitude of the ascendant (the degree
// rising on the eastern horizon) for an observer. Used as the sect
// fallback when the Sun's altitude is unavailable.
func Ascendant(t time.Time, latDeg, lonDeg float64) float64 {
	jd := julian.TimeToJD(t.UTC())
	T := julianCenturies(jd)

	ramc := degToRad(LocalSiderealTime(t, lonDeg))
	eps := degToRad(obliquity(T))
	phi := degToRad(latDeg)

	asc := math.Atan2(math.Cos(ramc), -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)))
	return normalize360(radToDeg(asc))
}
