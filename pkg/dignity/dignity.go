// Package dignity evaluates classical essential dignities: a planet's
// strength by zodiacal position against the traditional rulership tables
// (domicile, exaltation, triplicity, term, face, detriment, fall).
package dignity

import (
	"fmt"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// Scoring weights per dignity, Lilly's values. Peregrine carries no
// penalty of its own; the score simply stays at baseline.
const (
	DomicileScore   = 5
	ExaltationScore = 4
	TriplicityScore = 3
	TermScore       = 2
	FaceScore       = 1
	DetrimentScore  = -5
	FallScore       = -4
)

// Essential holds the dignity flags and signed score for one planet in one
// zodiacal position. Flags are independent booleans; peregrine is true iff
// no positive dignity applies.
type Essential struct {
	Domicile   bool `json:"domicile"`
	Exaltation bool `json:"exaltation"`
	Triplicity bool `json:"triplicity"`
	Term       bool `json:"term"`
	Face       bool `json:"face"`
	Detriment  bool `json:"detriment"`
	Fall       bool `json:"fall"`
	Peregrine  bool `json:"peregrine"`
	Score      int  `json:"score"`
}

// Evaluate computes the essential dignities of a classical planet at the
// given sign and degree within sign [0,30). Sect selects the Dorothean
// triplicity ruler; charts without a resolvable sect pass zodiac.SectDay.
//
// Only the seven classical planets appear in the rulership tables. Calling
// Evaluate with any other body is a logic error and panics: the planet and
// sign domains are closed, so an unmapped combination can only come from a
// caller bug, never from data.
func Evaluate(planet zodiac.Planet, sign zodiac.Sign, degree float64, sect zodiac.Sect) Essential {
	if !isClassical(planet) {
		panic(fmt.Sprintf("dignity: %v is not a classical planet", planet))
	}
	if sign < zodiac.Aries || sign > zodiac.Pisces {
		panic(fmt.Sprintf("dignity: invalid sign %d", int(sign)))
	}

	var e Essential

	e.Domicile = domicileRulers[sign] == planet
	e.Detriment = detrimentPlanets[sign] == planet
	e.Exaltation = exaltations[planet] == sign
	e.Fall = falls[planet] == sign

	trip := triplicityRulers[sign.Element()]
	if sect == zodiac.SectDay {
		e.Triplicity = trip.day == planet
	} else {
		e.Triplicity = trip.night == planet
	}

	e.Term = termRuler(sign, degree) == planet
	e.Face = faceRuler(sign, degree) == planet

	e.Peregrine = !(e.Domicile || e.Exaltation || e.Triplicity || e.Term || e.Face)

	if e.Domicile {
		e.Score += DomicileScore
	}
	if e.Exaltation {
		e.Score += ExaltationScore
	}
	if e.Triplicity {
		e.Score += TriplicityScore
	}
	if e.Term {
		e.Score += TermScore
	}
	if e.Face {
		e.Score += FaceScore
	}
	if e.Detriment {
		e.Score += DetrimentScore
	}
	if e.Fall {
		e.Score += FallScore
	}

	return e
}

// Flags lists the active dignity names, for display.
func (e Essential) Flags() []string {
	var flags []string
	if e.Domicile {
		flags = append(flags, "domicile")
	}
	if e.Exaltation {
		flags = append(flags, "exaltation")
	}
	if e.Triplicity {
		flags = append(flags, "triplicity")
	}
	if e.Term {
		flags = append(flags, "term")
	}
	if e.Face {
		flags = append(flags, "face")
	}
	if e.Detriment {
		flags = append(flags, "detriment")
	}
	if e.Fall {
		flags = append(flags, "fall")
	}
	if e.Peregrine {
		flags = append(flags, "peregrine")
	}
	return flags
}

func isClassical(p zodiac.Planet) bool {
	switch p {
	case zodiac.Sun, zodiac.Moon, zodiac.Mercury, zodiac.Venus,
		zodiac.Mars, zodiac.Jupiter, zodiac.Saturn:
		return true
	}
	return false
}
