package domain

import "github.com/paulmach/orb"

// Segment connects successive track points with two-point line features.
// Each line carries the properties of its earlier endpoint. The result lists
// the n-1 lines first, in track order, followed by the original points.
//
// A pair is skipped if either feature is not a point.
func Segment(points []Feature) []Feature {
	out := make([]Feature, 0, 2*len(points))
	for i := 0; i+1 < len(points); i++ {
		from, ok1 := points[i].Geometry.(orb.Point)
		to, ok2 := points[i+1].Geometry.(orb.Point)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Feature{
			Geometry:   orb.LineString{from, to},
			Properties: points[i].Properties,
		})
	}
	return append(out, points...)
}
