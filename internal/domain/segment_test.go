package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func trackPoint(lon, lat float64, datetime string) Feature {
	return Feature{
		Geometry: orb.Point{lon, lat},
		Properties: Properties{
			Kind:     PointComponent,
			Storm:    testStorm,
			Source:   Historical,
			Datetime: datetime,
			Pressure: intPtr(1000),
			Wind:     50,
			Category: "TS",
		},
	}
}

func TestSegment(t *testing.T) {
	p0 := trackPoint(-45.0, 16.0, "2017-09-05T00:00:00")
	p1 := trackPoint(-47.5, 16.5, "2017-09-05T06:00:00")
	p2 := trackPoint(-50.1, 16.9, "2017-09-05T12:00:00")

	got := Segment([]Feature{p0, p1, p2})

	want := []Feature{
		{Geometry: orb.LineString{{-45.0, 16.0}, {-47.5, 16.5}}, Properties: p0.Properties},
		{Geometry: orb.LineString{{-47.5, 16.5}, {-50.1, 16.9}}, Properties: p1.Properties},
		p0, p1, p2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segment() mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_SinglePoint(t *testing.T) {
	p0 := trackPoint(-45.0, 16.0, "2017-09-05T00:00:00")

	got := Segment([]Feature{p0})

	assert.Equal(t, []Feature{p0}, got)
}

func TestSegment_Empty(t *testing.T) {
	assert.Empty(t, Segment(nil))
}

func TestSegment_LineCount(t *testing.T) {
	for n := 0; n <= 6; n++ {
		points := make([]Feature, n)
		for i := range points {
			points[i] = trackPoint(float64(-40-i), 15, "")
		}

		got := Segment(points)

		lines := 0
		for _, f := range got {
			if f.GeometryType() == "LineString" {
				lines++
			}
		}
		assert.Equal(t, max(n-1, 0), lines, "n=%d", n)
		assert.Len(t, got, n+max(n-1, 0))
	}
}

func TestSegment_DoesNotMutateInput(t *testing.T) {
	points := []Feature{
		trackPoint(-45.0, 16.0, "a"),
		trackPoint(-47.5, 16.5, "b"),
	}
	before := append([]Feature(nil), points...)

	_ = Segment(points)

	if diff := cmp.Diff(before, points); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSegment_SkipsNonPointPairs(t *testing.T) {
	p0 := trackPoint(-45.0, 16.0, "a")
	poly := Feature{Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}

	got := Segment([]Feature{p0, poly})

	assert.Len(t, got, 2)
	assert.Equal(t, "Point", got[0].GeometryType())
}
