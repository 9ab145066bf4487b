// station-tune measures how station timestamp error grows with the
// sampling step, to pick sensible step defaults. It scans one planet's
// stations at a fine reference step, rescans at a range of coarser
// steps, and fits the error against the step size. With a database
// connection it also compares archived station events against the
// reference scan.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/calder-ross/almagest/pkg/ephemeris"
	"github.com/calder-ross/almagest/pkg/zodiac"
	_ "github.com/lib/pq"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StepResult holds the timestamp error statistics for one sampling step
type StepResult struct {
	StepDays     int
	StationCount int
	MeanError    float64 // days
	MaxError     float64 // days
	StdDev       float64 // days
}

func main() {
	var (
		planetName = flag.String("planet", "Mercury", "Planet to scan for stations")
		startStr   = flag.String("start", "", "UTC start of the scan window (RFC3339; default now)")
		years      = flag.Int("years", 5, "Length of the scan window in years")
		maxStep    = flag.Int("max-step", 15, "Largest sampling step to evaluate, in days")
		dbConn     = flag.String("db-conn", "", "Optional Postgres connection string for comparing archived events")
	)
	flag.Parse()

	planet, err := parsePlanet(*planetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now().UTC()
	if *startStr != "" {
		start, err = time.Parse(time.RFC3339, *startStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start time: %v\n", err)
			os.Exit(1)
		}
	}
	end := start.Add(time.Duration(float64(*years) * 365.25 * 24 * float64(time.Hour)))

	eph := ephemeris.NewMeeus()

	fmt.Printf("Station Sampling Step Calibration\n")
	fmt.Printf("=================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Planet: %v\n", planet)
	fmt.Printf("  Window: %s to %s\n\n", start.Format("2006-01-02"), end.Format("2006-01-02"))

	// Reference scan at one-day resolution.
	reference := scanStations(eph, planet, start, end, 1)
	if len(reference) < 2 {
		fmt.Fprintf(os.Stderr, "Error: only %d stations in window; widen it with -years.\n", len(reference))
		os.Exit(1)
	}
	fmt.Printf("Reference scan found %d stations at 1-day resolution\n\n", len(reference))

	var results []StepResult
	for step := 2; step <= *maxStep; step++ {
		coarse := scanStations(eph, planet, start, end, step)
		res := compareScans(reference, coarse, step)
		results = append(results, res)
	}

	displayResults(results)
	fitErrorModel(results)

	if *dbConn != "" {
		compareArchived(*dbConn, planet, reference, start, end)
	}
}

func parsePlanet(name string) (zodiac.Planet, error) {
	for _, p := range zodiac.Tracked {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown planet: %s", name)
}

// scanStations reports every direct/retrograde transition seen at the
// given step, at step resolution. Mirrors the event engine's detector.
func scanStations(eph ephemeris.Provider, planet zodiac.Planet, start, end time.Time, stepDays int) []time.Time {
	step := time.Duration(stepDays) * 24 * time.Hour

	var stations []time.Time
	primed := false
	wasRetrograde := false

	for t := start; !t.After(end); t = t.Add(step) {
		p0, err := eph.Position(planet, t)
		if err != nil {
			continue
		}
		p1, err := eph.Position(planet, t.Add(24*time.Hour))
		if err != nil {
			continue
		}
		retro := zodiac.SignedDelta(p0.Longitude, p1.Longitude) < 0

		if primed && retro != wasRetrograde {
			stations = append(stations, t)
		}
		primed = true
		wasRetrograde = retro
	}
	return stations
}

// compareScans matches each coarse station to its nearest reference
// station and summarizes the timestamp offsets
func compareScans(reference, coarse []time.Time, stepDays int) StepResult {
	var errs []float64
	for _, c := range coarse {
		best := math.Inf(1)
		for _, r := range reference {
			d := math.Abs(c.Sub(r).Hours() / 24)
			if d < best {
				best = d
			}
		}
		errs = append(errs, best)
	}

	res := StepResult{StepDays: stepDays, StationCount: len(coarse)}
	if len(errs) == 0 {
		return res
	}
	res.MeanError = stat.Mean(errs, nil)
	res.StdDev = stat.StdDev(errs, nil)
	for _, e := range errs {
		if e > res.MaxError {
			res.MaxError = e
		}
	}
	return res
}

func displayResults(results []StepResult) {
	fmt.Printf("%-10s %-10s %-12s %-12s %-12s\n", "Step (d)", "Stations", "Mean (d)", "Max (d)", "StdDev (d)")
	for _, r := range results {
		fmt.Printf("%-10d %-10d %-12.2f %-12.2f %-12.2f\n",
			r.StepDays, r.StationCount, r.MeanError, r.MaxError, r.StdDev)
	}
	fmt.Println()
}

// fitErrorModel fits mean error against step size, linearly and
// quadratically, and reports both
func fitErrorModel(results []StepResult) {
	steps := make([]float64, len(results))
	errs := make([]float64, len(results))
	for i, r := range results {
		steps[i] = float64(r.StepDays)
		errs[i] = r.MeanError
	}

	alpha, beta := stat.LinearRegression(steps, errs, nil, false)
	r2 := stat.RSquared(steps, errs, nil, alpha, beta)
	fmt.Printf("Linear fit:    error = %.3f + %.3f*step  (R² = %.3f)\n", alpha, beta, r2)

	coeffs, err := polyFit(steps, errs, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Quadratic fit failed: %v\n", err)
		return
	}
	fmt.Printf("Quadratic fit: error = %.3f + %.3f*step + %.4f*step²\n\n", coeffs[0], coeffs[1], coeffs[2])
}

// polyFit solves a least-squares polynomial fit via QR decomposition
func polyFit(x, y []float64, degree int) ([]float64, error) {
	n := len(x)
	a := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x[i]
		}
	}
	b := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, err
	}

	coeffs := make([]float64, degree+1)
	for i := range coeffs {
		coeffs[i] = sol.AtVec(i)
	}
	return coeffs, nil
}

// compareArchived loads this planet's archived station events and reports
// their offset from the reference scan
func compareArchived(connStr string, planet zodiac.Planet, reference []time.Time, start, end time.Time) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		return
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT event_time FROM events
		WHERE planet = $1
		  AND event_type IN ('Retrograde Start', 'Retrograde End')
		  AND event_time BETWEEN $2 AND $3
		ORDER BY event_time
	`, planet.String(), start, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying archived events: %v\n", err)
		return
	}
	defer rows.Close()

	var offsets []float64
	count := 0
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning row: %v\n", err)
			return
		}
		count++

		best := math.Inf(1)
		for _, r := range reference {
			d := math.Abs(at.Sub(r).Hours() / 24)
			if d < best {
				best = d
			}
		}
		offsets = append(offsets, best)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading rows: %v\n", err)
		return
	}

	if count == 0 {
		fmt.Println("No archived station events for this planet in the window.")
		return
	}
	fmt.Printf("Archived events: %d, mean offset from reference %.2f days (max %.2f)\n",
		count, stat.Mean(offsets, nil), maxOf(offsets))
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
