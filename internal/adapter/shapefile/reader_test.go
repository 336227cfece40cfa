package shapefile

import (
	"path/filepath"
	"testing"

	"github.com/couchcryptid/storm-track-geojson/internal/adapter/shapefile/shapefiletest"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_Points(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "al112017_5day_pts.shp")
	shapefiletest.WritePoints(t, path, []shapefiletest.PointRecord{
		{X: -60.1, Y: 17.2, Attrs: shapefiletest.Row{"MAXWIND": "160.0", "STORMTYPE": "MH"}},
		{X: -63.5, Y: 18.0, Attrs: shapefiletest.Row{"MAXWIND": "150.0", "STORMTYPE": "HU"}},
	})

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, orb.Point{-60.1, 17.2}, records[0].Geometry)
	assert.Equal(t, domain.Attributes{"MAXWIND": "160.0", "STORMTYPE": "MH"}, records[0].Attributes)
	assert.Equal(t, orb.Point{-63.5, 18.0}, records[1].Geometry)
	assert.Equal(t, "HU", records[1].Attributes["STORMTYPE"])
}

func TestReadFile_Polygon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "al112017_5day_pgn.shp")
	ring := [][2]float64{{-60, 17}, {-55, 17}, {-55, 22}, {-60, 17}}
	shapefiletest.WritePolygons(t, path, []shapefiletest.PolygonRecord{
		{Ring: ring, Attrs: shapefiletest.Row{"FCSTPRD": "120.0", "STORMTYPE": "HU"}},
	})

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	poly, ok := records[0].Geometry.(orb.Polygon)
	require.True(t, ok, "got %T", records[0].Geometry)
	require.Len(t, poly, 1)
	assert.Equal(t, orb.Ring{{-60, 17}, {-55, 17}, {-55, 22}, {-60, 17}}, poly[0])
	assert.Equal(t, "120.0", records[0].Attributes["FCSTPRD"])
}

func shpRing(coords ...[2]float64) []shp.Point {
	points := make([]shp.Point, len(coords))
	for i, c := range coords {
		points[i] = shp.Point{X: c[0], Y: c[1]}
	}
	return points
}

func TestToGeometry_PolygonParts(t *testing.T) {
	// Shapefile convention: outer rings clockwise, holes counter-clockwise.
	outer := shpRing([2]float64{0, 0}, [2]float64{0, 10}, [2]float64{10, 10}, [2]float64{10, 0}, [2]float64{0, 0})
	hole := shpRing([2]float64{2, 2}, [2]float64{4, 2}, [2]float64{4, 4}, [2]float64{2, 4}, [2]float64{2, 2})
	second := shpRing([2]float64{20, 0}, [2]float64{20, 5}, [2]float64{25, 5}, [2]float64{25, 0}, [2]float64{20, 0})

	toOrb := func(points []shp.Point) orb.Ring {
		r := make(orb.Ring, len(points))
		for i, p := range points {
			r[i] = orb.Point{p.X, p.Y}
		}
		return r
	}

	tests := []struct {
		name     string
		parts    [][]shp.Point
		expected orb.Geometry
	}{
		{
			name:     "outer with hole",
			parts:    [][]shp.Point{outer, hole},
			expected: orb.Polygon{toOrb(outer), toOrb(hole)},
		},
		{
			name:     "two outer rings",
			parts:    [][]shp.Point{outer, second},
			expected: orb.MultiPolygon{{toOrb(outer)}, {toOrb(second)}},
		},
		{
			name:     "hole stays with its outer ring",
			parts:    [][]shp.Point{outer, hole, second},
			expected: orb.MultiPolygon{{toOrb(outer), toOrb(hole)}, {toOrb(second)}},
		},
		{
			name:     "leading counter-clockwise ring is outer",
			parts:    [][]shp.Point{hole},
			expected: orb.Polygon{toOrb(hole)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poly := shp.Polygon(*shp.NewPolyLine(tt.parts))
			got, err := toGeometry(&poly)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.shp"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open shapefile")
}

func TestReadLayers_SelectsByComponent(t *testing.T) {
	dir := t.TempDir()
	point := []shapefiletest.PointRecord{{X: 1, Y: 2, Attrs: shapefiletest.Row{"A": "1"}}}
	shapefiletest.WritePoints(t, filepath.Join(dir, "al112017_5day_pts.shp"), point)
	shapefiletest.WritePoints(t, filepath.Join(dir, "al112017_5day_lin_pts.shp"), point)
	shapefiletest.WritePolygons(t, filepath.Join(dir, "al112017_5day_pgn.shp"), []shapefiletest.PolygonRecord{
		{Ring: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, Attrs: shapefiletest.Row{"A": "1"}},
	})

	pts, err := ReadLayers(dir, domain.PointComponent)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, "al112017_5day_lin_pts.shp", pts[0].Name)
	assert.Equal(t, "al112017_5day_pts.shp", pts[1].Name)
	assert.Equal(t, domain.PointComponent, pts[1].Component)

	pgn, err := ReadLayers(dir, domain.PolygonComponent)
	require.NoError(t, err)
	require.Len(t, pgn, 1)
	assert.Len(t, pgn[0].Records, 1)
}

func TestReadLayers_NoMatch(t *testing.T) {
	layers, err := ReadLayers(t.TempDir(), domain.PolygonComponent)
	require.NoError(t, err)
	assert.Empty(t, layers)
}
