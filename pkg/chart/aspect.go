package chart

import (
	"math"

	"github.com/calder-ross/almagest/pkg/zodiac"
)

// AspectType is one of the five classical (Ptolemaic) aspects.
type AspectType int

const (
	Conjunction AspectType = iota
	Sextile
	Square
	Trine
	Opposition
)

// Angle returns the exact angular distance of the aspect in degrees.
func (a AspectType) Angle() float64 {
	switch a {
	case Conjunction:
		return 0
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	default:
		return 180
	}
}

func (a AspectType) String() string {
	switch a {
	case Conjunction:
		return "Conjunction"
	case Sextile:
		return "Sextile"
	case Square:
		return "Square"
	case Trine:
		return "Trine"
	default:
		return "Opposition"
	}
}

var aspectTypes = [...]AspectType{Conjunction, Sextile, Square, Trine, Opposition}

// Orb defaults. DefaultMaxOrb is the wide orb used for full charts;
// MajorMaxOrb restricts to close aspects only; ExactOrb marks an aspect
// as exact (partile).
const (
	DefaultMaxOrb = 8.0
	MajorMaxOrb   = 3.0
	ExactOrb      = 1.0
)

// Aspect is a classical aspect between two bodies. Orb is the absolute
// deviation from the exact aspect angle. Each unordered pair appears at
// most once.
type Aspect struct {
	Planet1 zodiac.Planet `json:"planet1"`
	Planet2 zodiac.Planet `json:"planet2"`
	Type    AspectType    `json:"type"`
	Orb     float64       `json:"orb"`
	Exact   bool          `json:"exact"`
}

// ScanAspects finds all classical aspects between every unordered pair of
// positions within maxOrb. A separation matches only its nearest classical
// angle: 58° is a sextile of orb 2, never a wide square. maxOrb <= 0
// selects DefaultMaxOrb.
func ScanAspects(positions []Position, maxOrb float64) []Aspect {
	if maxOrb <= 0 {
		maxOrb = DefaultMaxOrb
	}

	var aspects []Aspect
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			s := zodiac.Separation(positions[i].Longitude, positions[j].Longitude)

			best := aspectTypes[0]
			bestOrb := math.Abs(s - best.Angle())
			for _, at := range aspectTypes[1:] {
				if orb := math.Abs(s - at.Angle()); orb < bestOrb {
					best, bestOrb = at, orb
				}
			}

			if bestOrb <= maxOrb {
				aspects = append(aspects, Aspect{
					Planet1: positions[i].Planet,
					Planet2: positions[j].Planet,
					Type:    best,
					Orb:     bestOrb,
					Exact:   bestOrb <= ExactOrb,
				})
			}
		}
	}
	return aspects
}
