package chart

import "github.com/calder-ross/almagest/pkg/zodiac"

// SectSource records which input decided the chart's sect, so tests and
// callers can tell the primary path from the fallback.
type SectSource int

const (
	// SectFromAltitude means the Sun's topocentric altitude was used.
	SectFromAltitude SectSource = iota
	// SectFromAscendant means altitude was unavailable and sect came from
	// the Sun's whole-sign house relative to the ascendant.
	SectFromAscendant
)

func (s SectSource) String() string {
	if s == SectFromAltitude {
		return "altitude"
	}
	return "ascendant"
}

// ResolveSect determines Day or Night sect. When the Sun's altitude is
// known, day is altitude above the horizon. Otherwise the Sun's position
// relative to the ascendant-descendant axis decides: houses 7-12 (180° or
// more past the ascendant in zodiacal order) are above the horizon.
func ResolveSect(sunAltitude float64, hasAltitude bool, sunLongitude, ascendant float64) (zodiac.Sect, SectSource) {
	if hasAltitude {
		if sunAltitude > 0 {
			return zodiac.SectDay, SectFromAltitude
		}
		return zodiac.SectNight, SectFromAltitude
	}

	offset := zodiac.Normalize360(sunLongitude - ascendant)
	if offset >= 180 {
		return zodiac.SectDay, SectFromAscendant
	}
	return zodiac.SectNight, SectFromAscendant
}
