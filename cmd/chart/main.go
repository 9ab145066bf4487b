package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/calder-ross/almagest/pkg/chart"
	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
)

func main() {
	var timeStr string
	var lat, lon, orb float64
	flag.StringVar(&timeStr, "time", "", "UTC time to compute the chart for (RFC3339 format, e.g., 2026-01-15T12:00:00Z)")
	flag.Float64Var(&lat, "lat", 0, "Observer latitude in degrees, north positive")
	flag.Float64Var(&lon, "lon", 0, "Observer longitude in degrees, east positive")
	flag.Float64Var(&orb, "orb", chart.DefaultMaxOrb, "Maximum aspect orb in degrees")
	flag.Parse()

	var t time.Time
	if timeStr == "" {
		t = time.Now().UTC()
	} else {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	eph := ephemeris.NewMeeus()
	snap, err := chart.ComputeWithOrb(eph, t, chart.Location{Latitude: lat, Longitude: lon}, orb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart for %s at %.4f°, %.4f°\n", snap.Time.Format(time.RFC3339), lat, lon)
	fmt.Printf("  Sect:         %v (%v)\n", snap.Sect, snap.SectSource)
	fmt.Printf("  Julian Day:   %.5f\n", snap.JulianDay)
	fmt.Printf("  LST:          %.2f°\n\n", snap.LocalSiderealTime)

	fmt.Println("Positions:")
	for _, pos := range snap.Planets {
		line := fmt.Sprintf("  %-12v %2d°%02d'%02.0f\" %v", pos.Planet, pos.SignDegree, pos.SignMinute, pos.SignSecond, pos.Sign)
		if cond, ok := snap.Conditions[pos.Planet]; ok && cond.Retrograde {
			line += " R"
		}
		fmt.Println(line)
	}

	if len(snap.Dignities) > 0 {
		fmt.Println("\nEssential dignities:")
		for _, planet := range zodiac.Classical {
			ess, ok := snap.Dignities[planet]
			if !ok {
				continue
			}
			fmt.Printf("  %-12v score %+d (%s)\n", planet, ess.Score, strings.Join(ess.Flags(), ", "))
		}
	}

	if len(snap.Aspects) > 0 {
		fmt.Println("\nAspects:")
		for _, asp := range snap.Aspects {
			fmt.Printf("  %v %v %v (orb %.2f°)\n", asp.Planet1, asp.Type, asp.Planet2, asp.Orb)
		}
	}
}
