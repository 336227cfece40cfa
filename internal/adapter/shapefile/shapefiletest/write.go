// Package shapefiletest writes small NHC-style shapefiles for tests.
package shapefiletest

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jonas-p/go-shp"
)

// Row is one shape's attributes. Every column is written as a text field.
type Row map[string]string

// PointRecord is a track position with its attributes.
type PointRecord struct {
	X, Y  float64
	Attrs Row
}

// PolygonRecord is a single-ring polygon with its attributes.
type PolygonRecord struct {
	Ring  [][2]float64
	Attrs Row
}

// WritePoints writes a POINT shapefile at path (which must end in ".shp").
func WritePoints(t testing.TB, path string, records []PointRecord) {
	t.Helper()
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer w.Close()

	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = r.Attrs
	}
	names := columns(rows)
	w.SetFields(fields(names))

	for _, r := range records {
		n := int(w.Write(&shp.Point{X: r.X, Y: r.Y}))
		writeRow(w, n, names, r.Attrs)
	}
}

// WritePolygons writes a POLYGON shapefile at path.
func WritePolygons(t testing.TB, path string, records []PolygonRecord) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer w.Close()

	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = r.Attrs
	}
	names := columns(rows)
	w.SetFields(fields(names))

	for _, r := range records {
		points := make([]shp.Point, len(r.Ring))
		for i, c := range r.Ring {
			points[i] = shp.Point{X: c[0], Y: c[1]}
		}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{points}))
		n := int(w.Write(&poly))
		writeRow(w, n, names, r.Attrs)
	}
}

// ZipDir archives every regular file in dir into a flat zip at dest.
func ZipDir(t testing.TB, dir, dest string) {
	t.Helper()
	out, err := os.Create(dest)
	if err != nil {
		t.Fatalf("create %s: %v", dest, err)
	}
	defer out.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}

	zw := zip.NewWriter(out)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w, err := zw.Create(e.Name())
		if err != nil {
			t.Fatalf("zip entry %s: %v", e.Name(), err)
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("open %s: %v", e.Name(), err)
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			t.Fatalf("copy %s: %v", e.Name(), err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

func columns(rows []Row) []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func fields(names []string) []shp.Field {
	out := make([]shp.Field, len(names))
	for i, n := range names {
		out[i] = shp.StringField(n, 40)
	}
	return out
}

func writeRow(w *shp.Writer, row int, names []string, attrs Row) {
	for k, name := range names {
		w.WriteAttribute(row, k, attrs[name])
	}
}
