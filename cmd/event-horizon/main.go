package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/horizon"
)

func main() {
	var startStr string
	var lat, lon float64
	var years int
	flag.StringVar(&startStr, "start", "", "UTC start of the search window (RFC3339 format; default now)")
	flag.Float64Var(&lat, "lat", 0, "Observer latitude in degrees, north positive")
	flag.Float64Var(&lon, "lon", 0, "Observer longitude in degrees, east positive")
	flag.IntVar(&years, "years", horizon.DefaultYears, "Length of the search window in years")
	flag.Parse()

	start := time.Now().UTC()
	if startStr != "" {
		var err error
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start time: %v\n", err)
			os.Exit(1)
		}
	}

	engine := horizon.New(ephemeris.NewMeeus(), horizon.Options{})
	events := engine.Compute(start, horizon.Observer{Latitude: lat, Longitude: lon}, years)

	fmt.Printf("Event horizon: %d years from %s (%d events)\n\n", years, start.Format("2006-01-02"), len(events))
	for _, ev := range events {
		fmt.Printf("%s  %-16s  %s\n", ev.Date.Format("2006-01-02"), ev.Type, ev.Title)
		fmt.Printf("            %s\n", ev.Description)
	}
}
