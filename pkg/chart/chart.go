package chart

import (
	"fmt"
	"time"

	"github.com/calder-ross/almagest/pkg/dignity"
	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
	"github.com/soniakeys/meeus/v3/julian"
)

// Location is an observer's geographic position, east longitude positive.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Snapshot is one immutable chart: every tracked body's position plus the
// derived dignities, conditions, sect and aspects. A recalculation
// produces a whole new snapshot; partial snapshots are never returned.
type Snapshot struct {
	Time              time.Time                           `json:"time"`
	JulianDay         float64                             `json:"julian_day"`
	LocalSiderealTime float64                             `json:"local_sidereal_time"` // degrees
	Latitude          float64                             `json:"latitude"`
	Longitude         float64                             `json:"longitude"`
	Planets           []Position                          `json:"planets"`
	Dignities         map[zodiac.Planet]dignity.Essential `json:"dignities"`
	Conditions        map[zodiac.Planet]Condition         `json:"conditions"`
	Sect              zodiac.Sect                         `json:"sect"`
	SectSource        SectSource                          `json:"sect_source"`
	Aspects           []Aspect                            `json:"aspects"`
}

// speedSampleInterval is the forward-difference step used to derive daily
// motion from two position calls.
const speedSampleInterval = 24 * time.Hour

// Compute assembles a chart snapshot for an instant and location. Every
// tracked body's position is requested from the provider; if any single
// position cannot be resolved the whole computation fails and no snapshot
// is returned. A failed topocentric call only downgrades sect resolution
// to the ascendant fallback.
func Compute(eph ephemeris.Provider, t time.Time, loc Location) (*Snapshot, error) {
	return ComputeWithOrb(eph, t, loc, DefaultMaxOrb)
}

// ComputeWithOrb is Compute with a caller-chosen maximum aspect orb.
func ComputeWithOrb(eph ephemeris.Provider, t time.Time, loc Location, maxOrb float64) (*Snapshot, error) {
	snap := &Snapshot{
		Time:              t.UTC(),
		JulianDay:         julian.TimeToJD(t.UTC()),
		LocalSiderealTime: ephemeris.LocalSiderealTime(t, loc.Longitude),
		Latitude:          loc.Latitude,
		Longitude:         loc.Longitude,
		Dignities:         make(map[zodiac.Planet]dignity.Essential, len(zodiac.Classical)),
		Conditions:        make(map[zodiac.Planet]Condition, len(zodiac.Tracked)),
	}

	snap.Planets = make([]Position, 0, len(zodiac.Tracked))
	for _, body := range zodiac.Tracked {
		pos, err := eph.Position(body, t)
		if err != nil {
			return nil, fmt.Errorf("chart: resolving %v: %w", body, err)
		}
		next, err := eph.Position(body, t.Add(speedSampleInterval))
		if err != nil {
			return nil, fmt.Errorf("chart: resolving %v speed: %w", body, err)
		}
		speed := zodiac.SignedDelta(pos.Longitude, next.Longitude)

		p := NewPosition(body, pos.Longitude, speed)
		if hz, err := eph.Topocentric(body, t, loc.Latitude, loc.Longitude); err == nil {
			p.Azimuth = hz.Azimuth
			p.Altitude = hz.Altitude
			p.HasHorizontal = true
		}
		snap.Planets = append(snap.Planets, p)
	}

	sun := snap.position(zodiac.Sun)

	snap.Sect, snap.SectSource = ResolveSect(
		sun.Altitude, sun.HasHorizontal,
		sun.Longitude, ephemeris.Ascendant(t, loc.Latitude, loc.Longitude))

	for _, p := range snap.Planets {
		snap.Conditions[p.Planet] = EvaluateCondition(p.Planet, p.Speed, p.Longitude, sun.Longitude)
	}
	for _, body := range zodiac.Classical {
		p := snap.position(body)
		snap.Dignities[body] = dignity.Evaluate(body, p.Sign, p.DegreeInSign(), snap.Sect)
	}

	snap.Aspects = ScanAspects(snap.Planets, maxOrb)

	return snap, nil
}

// position returns the snapshot's entry for a body. The tracked set is
// closed, so a miss is unreachable.
func (s *Snapshot) position(body zodiac.Planet) Position {
	for _, p := range s.Planets {
		if p.Planet == body {
			return p
		}
	}
	panic(fmt.Sprintf("chart: %v missing from snapshot", body))
}
