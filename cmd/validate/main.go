// Command validate re-reads the GeoJSON files written by trackgeo and checks
// them end to end: every feature decodes, the global collection passes the
// quality gate, each storm file equals its slice of the global collection,
// and every property set is well formed.
//
// Usage:
//
//	go run ./cmd/validate -dir output
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-track-geojson/internal/adapter/filestore"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/google/go-cmp/cmp"
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
	dir := flag.String("dir", "output", "directory containing currentGeoJSON.json and the storm files")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, out io.Writer) int {
	fmt.Fprintln(out, "=== Storm Track GeoJSON Validation ===")
	fmt.Fprintln(out)

	global, err := loadCollection(filepath.Join(dir, filestore.GlobalFile))
	if err != nil {
		fmt.Fprintf(out, "FATAL: load %s: %v\n", filestore.GlobalFile, err)
		return 1
	}

	storms := domain.StormNames(global)
	phases := []*phase{
		validateQuality(global),
		validateStormFiles(dir, global, storms),
		validateProperties(global),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Features: %d across %d storms\n", len(global), len(storms))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func loadCollection(path string) (domain.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.DecodeFeatureCollection(data)
}

// ── Phase 1: Quality gate ──

func validateQuality(global domain.FeatureCollection) *phase {
	p := &phase{name: "Phase 1: Quality gate"}
	if err := domain.CheckQuality(global); err != nil {
		p.errorf("%v", err)
	}
	return p
}

// ── Phase 2: Storm files ──
// Each storm file must hold exactly the global features for that storm, in order.

func validateStormFiles(dir string, global domain.FeatureCollection, storms []string) *phase {
	p := &phase{name: "Phase 2: Storm files match global"}
	partition := domain.PartitionByStorm(global)

	for _, storm := range storms {
		name := filestore.StormFile(storm)
		fc, err := loadCollection(filepath.Join(dir, name))
		if err != nil {
			p.errorf("%s: %v", name, err)
			continue
		}
		if diff := cmp.Diff(partition[storm], fc); diff != "" {
			p.errorf("%s differs from global (-global +file):\n%s", name, diff)
		}
	}
	return p
}

// ── Phase 3: Properties ──

func validateProperties(global domain.FeatureCollection) *phase {
	p := &phase{name: "Phase 3: Feature properties"}
	for i := range global {
		checkFeature(p.errorf, i, &global[i])
	}
	return p
}

func checkFeature(pf func(string, ...any), i int, f *domain.Feature) {
	props := f.Properties
	if props.Storm == "" {
		pf("feature %d: empty storm name", i)
	}

	switch f.GeometryType() {
	case "Polygon":
		if props.Kind != domain.PolygonComponent {
			pf("feature %d: polygon without fcstpd", i)
		}
		if props.ForecastPeriod <= 0 {
			pf("feature %d: fcstpd %d is not positive", i, props.ForecastPeriod)
		}
	case "Point", "LineString":
		if props.Kind != domain.PointComponent {
			pf("feature %d: %s without point properties", i, f.GeometryType())
			return
		}
		if _, err := time.Parse("2006-01-02T15:04:05", props.Datetime); err != nil {
			pf("feature %d: datetime %q is not ISO-8601", i, props.Datetime)
		}
		if props.Wind%5 != 0 || props.Wind < 0 {
			pf("feature %d: wind %d is not a non-negative multiple of 5", i, props.Wind)
		}
		if props.Current && props.Source != domain.Forecast {
			pf("feature %d: current marker on %s point", i, props.Source)
		}
	default:
		pf("feature %d: unexpected geometry %q", i, f.GeometryType())
	}
}
