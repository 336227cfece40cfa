package integration_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/storm-track-geojson/internal/adapter/archive"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/feed"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/shapefile/shapefiletest"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/couchcryptid/storm-track-geojson/internal/observability"
	"github.com/couchcryptid/storm-track-geojson/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>National Hurricane Center GIS Products (Atlantic)</title>
  <link>https://www.nhc.noaa.gov/</link>
  <description>Active tropical cyclone GIS data</description>
  <item>
    <title>Advisory #037 Forecast [shp] - Hurricane Irma (AL112017)</title>
    <link>%[1]s/gis/forecast/archive/al112017_5day_037.zip</link>
  </item>
  <item>
    <title>Advisory #037 Cone of Uncertainty [kmz] - Hurricane Irma (AL112017)</title>
    <link>%[1]s/storm_graphics/api/AL112017_037adv_CONE.kmz</link>
  </item>
  <item>
    <title>Preliminary Best Track [shp] - Hurricane Irma (AL112017)</title>
    <link>%[1]s/gis/best_track/al112017_best_track.zip</link>
  </item>
  <item>
    <title>Advisory #020 Forecast [shp] - Hurricane Jose (AL122017)</title>
    <link>%[1]s/gis/forecast/archive/al122017_5day_020.zip</link>
  </item>
</channel>
</rss>`

// nhcServer serves an Atlantic feed plus the Irma forecast and best-track
// archives it references.
type nhcServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func (s *nhcServer) feedURL() string {
	return s.URL + "/gis-at.xml"
}

func newNHCServer(t *testing.T) *nhcServer {
	t.Helper()
	forecast := forecastArchive(t)
	bestTrack := bestTrackArchive(t)

	s := &nhcServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gis-at.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, feedTemplate, s.URL)
	})
	mux.HandleFunc("GET /gis/forecast/archive/al112017_5day_037.zip", func(w http.ResponseWriter, _ *http.Request) {
		s.downloads.Add(1)
		_, _ = w.Write(forecast)
	})
	mux.HandleFunc("GET /gis/best_track/al112017_best_track.zip", func(w http.ResponseWriter, _ *http.Request) {
		s.downloads.Add(1)
		_, _ = w.Write(bestTrack)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func forecastArchive(t *testing.T) []byte {
	t.Helper()
	dir := t.TempDir()
	shapefiletest.WritePolygons(t, filepath.Join(dir, "al112017-037_5day_pgn.shp"), []shapefiletest.PolygonRecord{
		{
			Ring:  [][2]float64{{-60, 17}, {-55, 17}, {-55, 22}, {-60, 17}},
			Attrs: shapefiletest.Row{"FCSTPRD": "120.0", "STORMTYPE": "MH", "STORMNAME": "IRMA"},
		},
	})
	shapefiletest.WritePoints(t, filepath.Join(dir, "al112017-037_5day_pts.shp"), []shapefiletest.PointRecord{
		{X: -60.1, Y: 17.2, Attrs: shapefiletest.Row{
			"ADVDATE": "1100 PM AST Tue Sep 05 2017", "DATELBL": "11:00 PM Tue",
			"FLDATELBL": "2017-09-05 11:00 PM Tue AST", "TIMEZONE": "AST",
			"MSLP": "914.0", "MAXWIND": "160.0", "STORMTYPE": "MH",
		}},
		{X: -63.5, Y: 18.0, Attrs: shapefiletest.Row{
			"ADVDATE": "1100 PM AST Tue Sep 05 2017", "DATELBL": "8:00 AM Wed",
			"FLDATELBL": "2017-09-06 8:00 AM Wed AST", "TIMEZONE": "AST",
			"MSLP": "9999.0", "MAXWIND": "150.0", "STORMTYPE": "MH",
		}},
		{X: -66.8, Y: 19.3, Attrs: shapefiletest.Row{
			"ADVDATE": "1100 PM AST Tue Sep 05 2017", "DATELBL": "8:00 PM Wed",
			"FLDATELBL": "2017-09-06 8:00 PM Wed AST", "TIMEZONE": "AST",
			"MSLP": "9999.0", "MAXWIND": "145.0", "STORMTYPE": "MH",
		}},
	})
	return zipBytes(t, dir)
}

func bestTrackArchive(t *testing.T) []byte {
	t.Helper()
	dir := t.TempDir()
	shapefiletest.WritePoints(t, filepath.Join(dir, "AL112017_pts.shp"), []shapefiletest.PointRecord{
		{X: -30.0, Y: 16.4, Attrs: shapefiletest.Row{
			"YEAR": "2017", "MONTH": "08", "DAY": "30", "HHMM": "1800",
			"MSLP": "1004.0", "INTENSITY": "45.0", "STORMTYPE": "TS",
		}},
		{X: -31.6, Y: 16.5, Attrs: shapefiletest.Row{
			"YEAR": "2017", "MONTH": "08", "DAY": "31", "HHMM": "0000",
			"MSLP": "1001.0", "INTENSITY": "50.0", "STORMTYPE": "TS",
		}},
	})
	return zipBytes(t, dir)
}

func zipBytes(t *testing.T, dir string) []byte {
	t.Helper()
	dest := filepath.Join(t.TempDir(), "archive.zip")
	shapefiletest.ZipDir(t, dir, dest)
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read %s: %v", dest, err)
	}
	return data
}

// newPipeline wires the real feed and archive adapters against srv.
func newPipeline(t *testing.T, srv *nhcServer, metrics *observability.Metrics, loaders ...pipeline.Loader) *pipeline.Pipeline {
	t.Helper()
	vocab := domain.DefaultVocabulary()
	logger := discardLogger()

	reader := feed.NewReader(vocab, []string{"Irma"}, 5*time.Second, logger)
	fetcher := archive.NewFetcher(t.TempDir(), 5*time.Second, vocab.BestTrackMarker, logger)
	source := archive.NewCachedSource(archive.NewSource(fetcher), 8, vocab.BestTrackMarker, metrics)

	return pipeline.New([]string{srv.feedURL()}, reader, source, vocab, logger, metrics, loaders...)
}
