package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Eclipse search by the lunation method of Meeus Ch. 54: evaluate the
// eclipse conditions at each mean new moon (solar) or full moon (lunar)
// and classify by the shadow-axis distance γ and the umbral radius u.
// Peak times are good to a few minutes; the small TD-UT offset is ignored.

// eclipseCircumstances holds the geometry evaluated at one mean phase.
type eclipseCircumstances struct {
	jde   float64 // JDE of maximum eclipse
	gamma float64 // least distance of shadow axis from Earth center, Earth radii
	u     float64 // radius of the umbral cone in the fundamental plane, Earth radii
}

// lunationNear returns the lunation number k (new moons since 2000 Jan 6)
// nearest the given time, per Meeus eq. 49.2.
func lunationNear(t time.Time) float64 {
	year := 2000 + (julian.TimeToJD(t.UTC())-2451545.0)/365.25
	return math.Floor((year - 2000) * 12.3685)
}

// phaseCircumstances evaluates the Ch. 54 eclipse geometry at lunation k.
// Integer k selects new moons (solar eclipses); k+0.5 selects full moons
// (lunar eclipses). ok is false when no eclipse occurs at this phase.
func phaseCircumstances(k float64, lunar bool) (eclipseCircumstances, bool) {
	T := k / 1236.85

	jde := 2451550.09766 +
		29.530588861*k +
		0.00015437*T*T -
		0.000000150*T*T*T +
		0.00000000073*T*T*T*T

	E := 1 - 0.002516*T - 0.0000074*T*T

	M := degToRad(normalize360(2.5534 + 29.10535670*k - 0.0000014*T*T - 0.00000011*T*T*T))
	Mp := degToRad(normalize360(201.5643 + 385.81693528*k + 0.0107582*T*T + 0.00001238*T*T*T - 0.000000058*T*T*T*T))
	F := degToRad(normalize360(160.7108 + 390.67050284*k - 0.0016118*T*T - 0.00000227*T*T*T + 0.000000011*T*T*T*T))
	omega := degToRad(normalize360(124.7746 - 1.56375588*k + 0.0020672*T*T + 0.00000215*T*T*T))

	// No eclipse possible when the phase is too far from a node.
	if math.Abs(math.Sin(F)) > 0.36 {
		return eclipseCircumstances{}, false
	}

	F1 := F - degToRad(0.02665*math.Sin(omega))
	A1 := degToRad(normalize360(299.77 + 0.107408*k - 0.009173*T*T))

	// Time of maximum eclipse
	var c0 float64
	if lunar {
		c0 = -0.4065*math.Sin(Mp) + 0.1727*E*math.Sin(M)
	} else {
		c0 = -0.4075*math.Sin(Mp) + 0.1721*E*math.Sin(M)
	}
	jde += c0 +
		0.0161*math.Sin(2*Mp) -
		0.0097*math.Sin(2*F1) +
		0.0073*E*math.Sin(Mp-M) -
		0.0050*E*math.Sin(Mp+M) -
		0.0023*math.Sin(Mp-2*F1) +
		0.0021*E*math.Sin(2*M) +
		0.0012*math.Sin(Mp+2*F1) +
		0.0006*E*math.Sin(2*Mp+M) -
		0.0004*math.Sin(3*Mp) -
		0.0003*E*math.Sin(M+2*F1) +
		0.0003*math.Sin(A1) -
		0.0002*E*math.Sin(M-2*F1) -
		0.0002*E*math.Sin(2*Mp-M) -
		0.0002*math.Sin(omega)

	P := 0.2070*E*math.Sin(M) +
		0.0024*E*math.Sin(2*M) -
		0.0392*math.Sin(Mp) +
		0.0116*math.Sin(2*Mp) -
		0.0073*E*math.Sin(Mp+M) +
		0.0067*E*math.Sin(Mp-M) +
		0.0118*math.Sin(2*F1)

	Q := 5.2207 -
		0.0048*E*math.Cos(M) +
		0.0020*E*math.Cos(2*M) -
		0.3299*math.Cos(Mp) -
		0.0060*E*math.Cos(Mp+M) +
		0.0041*E*math.Cos(Mp-M)

	W := math.Abs(math.Cos(F1))
	gamma := (P*math.Cos(F1) + Q*math.Sin(F1)) * (1 - 0.0048*W)

	u := 0.0059 +
		0.0046*E*math.Cos(M) -
		0.0182*math.Cos(Mp) +
		0.0004*math.Cos(2*Mp) -
		0.0005*math.Cos(M+Mp)

	return eclipseCircumstances{jde: jde, gamma: gamma, u: u}, true
}

// classifySolar maps the eclipse geometry to a kind and magnitude.
// ok is false when the shadow axis misses the Earth entirely.
func classifySolar(c eclipseCircumstances) (kind SolarEclipseKind, mag float64, ok bool) {
	ag := math.Abs(c.gamma)

	if ag > 1.5433+c.u {
		return 0, 0, false
	}
	if ag > 0.9972 {
		mag = (1.5433 + c.u - ag) / (0.5461 + 2*c.u)
		return SolarPartial, mag, true
	}

	// Central eclipse; magnitude approximated from the umbral radius.
	mag = 1 - c.u/0.5450
	switch {
	case c.u < 0:
		return SolarTotal, mag, true
	case c.u > 0.0047:
		return SolarAnnular, mag, true
	case c.u < 0.00464*math.Sqrt(1-c.gamma*c.gamma):
		// Hybrid (annular-total); reported as total at greatest eclipse.
		return SolarTotal, mag, true
	default:
		return SolarAnnular, mag, true
	}
}

// classifyLunar maps the eclipse geometry to a kind and magnitude.
func classifyLunar(c eclipseCircumstances) (kind LunarEclipseKind, mag float64, ok bool) {
	ag := math.Abs(c.gamma)

	umbral := (1.0128 - c.u - ag) / 0.5450
	penumbral := (1.5573 + c.u - ag) / 0.5450

	switch {
	case umbral >= 1:
		return LunarTotal, umbral, true
	case umbral > 0:
		return LunarPartial, umbral, true
	case penumbral > 0:
		return LunarPenumbral, penumbral, true
	default:
		return 0, 0, false
	}
}

// solarObscuration approximates the covered fraction of the solar disk
// from the eclipse magnitude. Exact obscuration needs the apparent disk
// radii; this quadratic approximation is within a few percent.
func solarObscuration(kind SolarEclipseKind, mag float64) float64 {
	if kind != SolarPartial {
		return clamp01(mag)
	}
	return clamp01(mag * mag)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// searchCap bounds both eclipse searches: lunations to examine past the
// starting instant before giving up.
const searchCap = 500

// NextSolarEclipse implements Provider.
func (m *Meeus) NextSolarEclipse(after time.Time) (SolarEclipse, bool) {
	afterJD := julian.TimeToJD(after.UTC())
	k := lunationNear(after) - 1

	for i := 0; i < searchCap; i++ {
		c, possible := phaseCircumstances(k, false)
		k++
		if !possible {
			continue
		}
		if c.jde <= afterJD {
			continue
		}
		peak := julian.JDToTime(c.jde)
		if !inRange(peak) {
			return SolarEclipse{}, false
		}
		kind, mag, ok := classifySolar(c)
		if !ok {
			continue
		}
		return SolarEclipse{
			Peak:        peak,
			Kind:        kind,
			Magnitude:   mag,
			Obscuration: solarObscuration(kind, mag),
		}, true
	}
	return SolarEclipse{}, false
}

// NextLunarEclipse implements Provider.
func (m *Meeus) NextLunarEclipse(after time.Time) (LunarEclipse, bool) {
	afterJD := julian.TimeToJD(after.UTC())
	k := lunationNear(after) - 1

	for i := 0; i < searchCap; i++ {
		c, possible := phaseCircumstances(k+0.5, true)
		k++
		if !possible {
			continue
		}
		if c.jde <= afterJD {
			continue
		}
		peak := julian.JDToTime(c.jde)
		if !inRange(peak) {
			return LunarEclipse{}, false
		}
		kind, mag, ok := classifyLunar(c)
		if !ok {
			continue
		}
		return LunarEclipse{
			Peak:        peak,
			Kind:        kind,
			Magnitude:   mag,
			Obscuration: clamp01(mag),
		}, true
	}
	return LunarEclipse{}, false
}
