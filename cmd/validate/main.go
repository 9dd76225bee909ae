// Command validate checks a shelter document offline before it is deployed:
// every entry must decode with in-range coordinates, names must be present
// and unique, and no two shelters may share a location. When a position is
// given (flags or USER_LON/USER_LAT) it also reports the closest shelter and
// the camera pose a route to it would use.
//
// Usage:
//
//	go run ./cmd/validate -shelters shelters.json -lon 139.70 -lat 35.70
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/shelter-nav/internal/adapter/shelters"
	"github.com/couchcryptid/shelter-nav/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("shelters", sharedcfg.EnvOrDefault("SHELTERS_PATH", "shelters.json"), "path to the shelter JSON or GeoJSON document")
	lon := flag.String("lon", sharedcfg.EnvOrDefault("USER_LON", ""), "user longitude for the closest-shelter report")
	lat := flag.String("lat", sharedcfg.EnvOrDefault("USER_LAT", ""), "user latitude for the closest-shelter report")
	flag.Parse()

	pos, err := parsePosition(*lon, *lat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	var source domain.PositionSource
	if pos != nil {
		source = pos
	}
	if code := run(os.Stdout, *path, source); code != 0 {
		os.Exit(code)
	}
}

// parsePosition returns nil when neither value is set.
func parsePosition(lon, lat string) (*domain.StaticPosition, error) {
	if lon == "" && lat == "" {
		return nil, nil
	}
	if lon == "" || lat == "" {
		return nil, fmt.Errorf("lon and lat must be set together")
	}
	x, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lon %q: %w", lon, err)
	}
	y, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lat %q: %w", lat, err)
	}
	c := domain.Coordinate{Lon: x, Lat: y}
	if !c.Valid() {
		return nil, fmt.Errorf("position out of range: %s", c)
	}
	return &domain.StaticPosition{Coordinate: c}, nil
}

func run(w io.Writer, path string, pos domain.PositionSource) int {
	fmt.Fprintln(w, "=== Shelter Document Validation ===")
	fmt.Fprintln(w)

	list, report, err := shelters.LoadFile(path, nil)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateEntries(report),
		validateNames(list),
		validateLocations(list),
	}
	if pos != nil {
		phases = append(phases, validateClosest(w, list, pos))
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Shelters: %d entries, %d loaded, %d skipped\n", report.Total, report.Loaded, len(report.Skipped))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateEntries(report shelters.Report) *phase {
	p := &phase{name: "Phase 1: Entry decoding"}
	if report.Total == 0 {
		p.errorf("document contains no shelters")
	}
	for _, s := range report.Skipped {
		p.errorf("entry %d: %s", s.Index, s.Reason)
	}
	return p
}

func validateNames(list []domain.Shelter) *phase {
	p := &phase{name: "Phase 2: Shelter names"}
	seen := make(map[string]int, len(list))
	for i, s := range list {
		if j, ok := seen[s.Name]; ok {
			p.errorf("shelter %d: name %q already used by shelter %d", i, s.Name, j)
			continue
		}
		seen[s.Name] = i
	}
	return p
}

func validateLocations(list []domain.Shelter) *phase {
	p := &phase{name: "Phase 3: Shelter locations"}
	seen := make(map[domain.Coordinate]int, len(list))
	for i, s := range list {
		if j, ok := seen[s.Coordinates]; ok {
			p.errorf("shelter %d (%s): same coordinates as shelter %d (%s)", i, s.Name, j, list[j].Name)
			continue
		}
		seen[s.Coordinates] = i
	}
	return p
}

// validateClosest reports the closest shelter and cross-checks it against a
// full scan of every distance.
func validateClosest(w io.Writer, list []domain.Shelter, pos domain.PositionSource) *phase {
	p := &phase{name: "Phase 4: Closest shelter"}

	user, err := pos.CurrentPosition(context.Background())
	if err != nil {
		p.errorf("position: %s", domain.UserMessage(err))
		return p
	}

	s, km, index, err := domain.ClosestShelter(user, list)
	if err != nil {
		p.errorf("closest shelter: %s", domain.UserMessage(err))
		return p
	}

	for i, other := range list {
		if d := domain.DistanceKm(user, other.Coordinates); d < km {
			p.errorf("shelter %d (%s) at %.3f km is closer than reported shelter %d at %.3f km", i, other.Name, d, index, km)
		}
	}

	view := domain.PlanView(user, s.Coordinates)
	fmt.Fprintf(w, "Position %s\n", user)
	fmt.Fprintf(w, "Closest shelter: [%d] %s at %.3f km\n", index, s.Name, km)
	fmt.Fprintf(w, "View: bearing %.2f°, zoom %.0f, pitch %.0f°\n", view.BearingDegrees, view.Zoom, view.PitchDegrees)
	return p
}
