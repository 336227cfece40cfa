package domain

import (
	"github.com/paulmach/orb"
)

// Provenance tells whether a shapefile holds observed best-track positions or
// a forward-looking forecast advisory. The value doubles as the "source"
// property tag on point features.
type Provenance string

const (
	Historical Provenance = "historical"
	Forecast   Provenance = "forecast"
)

// Component identifies a layer inside an NHC shapefile archive. The value is
// the layer suffix used in the archive's file names (e.g. "al112017_5day_pts.shp").
type Component string

const (
	PointComponent   Component = "pts"
	PolygonComponent Component = "pgn"
)

// Attributes is one decoded DBF row keyed by field name. Shapefile attributes
// always arrive as text, including numeric columns such as "63.0".
type Attributes map[string]string

// RawRecord pairs a decoded shape with its attribute row.
type RawRecord struct {
	Geometry   orb.Geometry
	Attributes Attributes
}

// StormContext is supplied by the feed layer and is constant across every
// record of one shapefile.
type StormContext struct {
	Name    string
	Remnant bool
}

// RecordContext carries everything the normalizer needs besides the raw row.
// Ordinal is the zero-based position of the record within its component.
type RecordContext struct {
	Provenance Provenance
	Component  Component
	Storm      StormContext
	Ordinal    int
}

// ShapefileRef is a wanted RSS item pointing at a zipped shapefile archive.
type ShapefileRef struct {
	URL        string
	Title      string
	Provenance Provenance
	Storm      StormContext
}

// Properties is the canonical property set attached to every output feature.
// Which fields are meaningful depends on Kind and Source; see Map.
type Properties struct {
	Kind        Component
	Storm       string
	RemnantFlag bool

	// Polygon layers only.
	ForecastPeriod int

	// Point layers (and the line segments derived from them).
	Source   Provenance
	Datetime string // UTC, ISO-8601 without offset
	Pressure *int   // millibars; nil when the advisory reports it missing
	Wind     int    // mph, multiple of 5
	Current  bool

	Category string // TD, TS, H1-H5 or the raw storm-type code, possibly blank

	// Uncategorized is set when a hurricane code falls below the H1 band.
	// The "cat" key is then omitted.
	Uncategorized bool
}

// Feature is an immutable geometry with its normalized properties.
type Feature struct {
	Geometry   orb.Geometry
	Properties Properties
}

// FeatureCollection is an ordered list of features.
type FeatureCollection []Feature

// GeometryType returns the GeoJSON type name of the feature's geometry, or ""
// when the feature has none.
func (f Feature) GeometryType() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.GeoJSONType()
}

// Layer is one decoded shapefile from an archive, records in file order.
type Layer struct {
	Name      string
	Component Component
	Records   []RawRecord
}
