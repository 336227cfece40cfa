package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CheckQuality runs the acceptance checks over a pooled feature list:
//   - every Point carries a source of "historical" or "forecast"
//   - only Point, LineString and Polygon geometries appear
//   - each non-remnant storm contributes exactly one Polygon (its forecast cone)
//
// An empty list passes. Violations are reported together, wrapped in
// ErrDataQuality.
func CheckQuality(features []Feature) error {
	if len(features) == 0 {
		return nil
	}

	var violations []string
	badSources := map[string]bool{}
	badShapes := map[string]bool{}
	storms := map[string]bool{}
	polygons := 0

	for _, f := range features {
		typ := f.GeometryType()
		switch typ {
		case "Point":
			if f.Properties.Source != Historical && f.Properties.Source != Forecast {
				badSources[string(f.Properties.Source)] = true
			}
		case "LineString":
		case "Polygon":
			if !f.Properties.RemnantFlag {
				polygons++
			}
		default:
			badShapes[typ] = true
		}
		if !f.Properties.RemnantFlag {
			storms[f.Properties.Storm] = true
		}
	}

	if len(badSources) > 0 {
		violations = append(violations, fmt.Sprintf("unexpected point sources %s", setString(badSources)))
	}
	if len(badShapes) > 0 {
		violations = append(violations, fmt.Sprintf("unexpected geometry types %s", setString(badShapes)))
	}
	if len(storms) != polygons {
		violations = append(violations, fmt.Sprintf("observed %d storms but %d polygons", len(storms), polygons))
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrDataQuality, strings.Join(violations, "; "))
	}
	return nil
}

// PartitionByStorm splits features into one collection per storm name,
// preserving feature order within each storm.
func PartitionByStorm(features []Feature) map[string]FeatureCollection {
	out := make(map[string]FeatureCollection)
	for _, f := range features {
		out[f.Properties.Storm] = append(out[f.Properties.Storm], f)
	}
	return out
}

// StormNames returns the distinct storm names in sorted order.
func StormNames(features []Feature) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range features {
		if !seen[f.Properties.Storm] {
			seen[f.Properties.Storm] = true
			names = append(names, f.Properties.Storm)
		}
	}
	sort.Strings(names)
	return names
}

func setString(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, fmt.Sprintf("%q", k))
	}
	sort.Strings(keys)
	return "[" + strings.Join(keys, " ") + "]"
}
