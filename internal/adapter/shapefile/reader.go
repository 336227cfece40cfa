// Package shapefile decodes ESRI shapefiles into domain raw records.
package shapefile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// ReadLayers decodes every shapefile in dir whose name contains "_<component>",
// e.g. "al112017_5day_pgn.shp". Layers are returned in file-name order.
func ReadLayers(dir string, component domain.Component) ([]domain.Layer, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.shp"))
	if err != nil {
		return nil, fmt.Errorf("list shapefiles: %w", err)
	}
	sort.Strings(paths)

	var layers []domain.Layer
	for _, path := range paths {
		if !strings.Contains(filepath.Base(path), "_"+string(component)) {
			continue
		}
		records, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, domain.Layer{
			Name:      filepath.Base(path),
			Component: component,
			Records:   records,
		})
	}
	return layers, nil
}

// ReadFile decodes one shapefile and its .dbf attribute table.
func ReadFile(path string) ([]domain.RawRecord, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer r.Close()

	fields := r.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}

	var records []domain.RawRecord
	for r.Next() {
		n, shape := r.Shape()
		geom, err := toGeometry(shape)
		if err != nil {
			return nil, fmt.Errorf("%s shape %d: %w", filepath.Base(path), n, err)
		}

		attrs := make(domain.Attributes, len(names))
		for k, name := range names {
			attrs[name] = strings.Trim(r.ReadAttribute(n, k), " \x00")
		}
		records = append(records, domain.RawRecord{Geometry: geom, Attributes: attrs})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return records, nil
}

// toGeometry converts a decoded shape to an orb geometry. Z and M values are
// dropped.
func toGeometry(shape shp.Shape) (orb.Geometry, error) {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}, nil
	case *shp.PointM:
		return orb.Point{s.X, s.Y}, nil
	case *shp.Polygon:
		return polygons(rings(s.Parts, s.Points)), nil
	case *shp.PolygonZ:
		return polygons(rings(s.Parts, s.Points)), nil
	case *shp.PolyLine:
		parts := rings(s.Parts, s.Points)
		if len(parts) == 1 {
			return orb.LineString(parts[0]), nil
		}
		mls := make(orb.MultiLineString, len(parts))
		for i, p := range parts {
			mls[i] = orb.LineString(p)
		}
		return mls, nil
	default:
		return nil, fmt.Errorf("unsupported shape type %T", shape)
	}
}

// polygons groups shapefile rings into polygons. A clockwise ring starts a new
// outer boundary and a counter-clockwise ring is a hole in the preceding one.
// A leading hole is promoted to an outer boundary. More than one outer
// boundary yields a MultiPolygon.
func polygons(rs []orb.Ring) orb.Geometry {
	var mp orb.MultiPolygon
	for _, r := range rs {
		if len(r) == 0 {
			continue
		}
		if len(mp) == 0 || r.Orientation() == orb.CW {
			mp = append(mp, orb.Polygon{r})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], r)
	}
	switch len(mp) {
	case 0:
		return orb.Polygon{}
	case 1:
		return mp[0]
	default:
		return mp
	}
}

func rings(parts []int32, points []shp.Point) []orb.Ring {
	out := make([]orb.Ring, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		out = append(out, ring)
	}
	return out
}
