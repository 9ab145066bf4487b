// Package ephemeris computes geocentric and topocentric positions of the
// Sun, Moon, planets and lunar points, and searches for eclipses. The
// implementation uses truncated Meeus series for the luminaries, Keplerian
// mean elements for the planets, and the Meeus lunation method for
// eclipses. Accuracy is on the order of arcminutes for the luminaries and
// a few tenths of a degree for the planets, which is well inside the
// step-resolution bounds of the event searches built on top of it.
package ephemeris

import (
	"errors"
	"fmt"
	"time"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// ErrUnavailable is returned when a position cannot be resolved for a body
// at an instant, typically because the instant falls outside the validity
// window of the underlying series.
var ErrUnavailable = errors.New("ephemeris: position unavailable")

// Series validity window. The planetary mean elements are fitted to
// 1800-2050; a margin is allowed on both sides at reduced accuracy.
var (
	validFrom = time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	validTo   = time.Date(2150, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Position is a geocentric ecliptic position of date.
type Position struct {
	Longitude  float64 `json:"longitude"`   // ecliptic longitude, degrees [0,360)
	Latitude   float64 `json:"latitude"`    // ecliptic latitude, degrees
	DistanceAU float64 `json:"distance_au"` // geocentric distance, AU
}

// Horizontal is an observer-relative position.
type Horizontal struct {
	Azimuth  float64 `json:"azimuth"`  // degrees from true north, eastward [0,360)
	Altitude float64 `json:"altitude"` // degrees above the horizon [-90,90]
}

// SolarEclipseKind classifies a solar eclipse.
type SolarEclipseKind int

const (
	SolarTotal SolarEclipseKind = iota
	SolarAnnular
	SolarPartial
)

func (k SolarEclipseKind) String() string {
	switch k {
	case SolarTotal:
		return "total"
	case SolarAnnular:
		return "annular"
	default:
		return "partial"
	}
}

// LunarEclipseKind classifies a lunar eclipse.
type LunarEclipseKind int

const (
	LunarTotal LunarEclipseKind = iota
	LunarPartial
	LunarPenumbral
)

func (k LunarEclipseKind) String() string {
	switch k {
	case LunarTotal:
		return "total"
	case LunarPartial:
		return "partial"
	default:
		return "penumbral"
	}
}

// SolarEclipse describes one solar eclipse at its moment of greatest
// eclipse. Obscuration is an approximation derived from the magnitude.
type SolarEclipse struct {
	Peak        time.Time        `json:"peak"`
	Kind        SolarEclipseKind `json:"kind"`
	Magnitude   float64          `json:"magnitude"`
	Obscuration float64          `json:"obscuration"` // fraction of solar disk covered, 0..1
}

// LunarEclipse describes one lunar eclipse at maximum.
type LunarEclipse struct {
	Peak        time.Time        `json:"peak"`
	Kind        LunarEclipseKind `json:"kind"`
	Magnitude   float64          `json:"magnitude"` // umbral magnitude (penumbral for penumbral eclipses)
	Obscuration float64          `json:"obscuration"`
}

// Provider is the single external capability the chart and event-horizon
// engines consume. All methods are pure functions of their arguments; the
// consumers neither retry nor cache.
type Provider interface {
	// Position returns the geocentric ecliptic position of a body.
	Position(body zodiac.Planet, t time.Time) (Position, error)

	// Topocentric returns azimuth and altitude of a body for an observer
	// at the given geographic latitude and longitude (east positive).
	Topocentric(body zodiac.Planet, t time.Time, lat, lon float64) (Horizontal, error)

	// NextSolarEclipse returns the first solar eclipse peaking strictly
	// after the given instant. ok is false when the search space is
	// exhausted, which is a normal termination and not an error.
	NextSolarEclipse(after time.Time) (SolarEclipse, bool)

	// NextLunarEclipse is the lunar counterpart of NextSolarEclipse.
	NextLunarEclipse(after time.Time) (LunarEclipse, bool)
}

// Meeus is the built-in Provider. The zero value is ready to use.
type Meeus struct{}

// NewMeeus returns the built-in Meeus-series provider.
func NewMeeus() *Meeus {
	return &Meeus{}
}

func unavailable(body zodiac.Planet, t time.Time) error {
	return fmt.Errorf("%w: %v at %s", ErrUnavailable, body, t.UTC().Format(time.RFC3339))
}

func inRange(t time.Time) bool {
	return !t.Before(validFrom) && t.Before(validTo)
}
