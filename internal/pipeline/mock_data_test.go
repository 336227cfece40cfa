package pipeline_test

import (
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/paulmach/orb"
)

const (
	atlanticFeed = "https://www.nhc.noaa.gov/gis-at.xml"
	pacificFeed  = "https://www.nhc.noaa.gov/gis-ep.xml"

	irmaForecastURL  = "https://www.nhc.noaa.gov/gis/forecast/archive/al112017_5day_037.zip"
	irmaBestTrackURL = "https://www.nhc.noaa.gov/gis/best_track/al112017_best_track.zip"
	katiaForecastURL = "https://www.nhc.noaa.gov/gis/forecast/archive/al132017_5day_012.zip"
)

func irmaForecastRef() domain.ShapefileRef {
	return domain.ShapefileRef{
		URL:        irmaForecastURL,
		Title:      "Advisory #037 Forecast [shp] - Hurricane Irma (AL112017)",
		Provenance: domain.Forecast,
		Storm:      domain.StormContext{Name: "Irma"},
	}
}

func irmaBestTrackRef() domain.ShapefileRef {
	return domain.ShapefileRef{
		URL:        irmaBestTrackURL,
		Title:      "Preliminary Best Track [shp] - Hurricane Irma (AL112017)",
		Provenance: domain.Historical,
		Storm:      domain.StormContext{Name: "Irma"},
	}
}

func katiaRemnantRef() domain.ShapefileRef {
	return domain.ShapefileRef{
		URL:        katiaForecastURL,
		Title:      "Advisory #012 Forecast [shp] - Remnants of Katia (AL132017)",
		Provenance: domain.Forecast,
		Storm:      domain.StormContext{Name: "Katia", Remnant: true},
	}
}

func coneLayer() domain.Layer {
	return domain.Layer{
		Name:      "al112017_5day_pgn.shp",
		Component: domain.PolygonComponent,
		Records: []domain.RawRecord{{
			Geometry:   orb.Polygon{{{-60, 17}, {-55, 17}, {-55, 22}, {-60, 17}}},
			Attributes: domain.Attributes{"FCSTPRD": "120.0", "STORMTYPE": "MH"},
		}},
	}
}

func forecastPointLayer() domain.Layer {
	return domain.Layer{
		Name:      "al112017_5day_pts.shp",
		Component: domain.PointComponent,
		Records: []domain.RawRecord{
			{
				Geometry: orb.Point{-60.1, 17.2},
				Attributes: domain.Attributes{
					"ADVDATE":   "1100 PM AST Tue Sep 05 2017",
					"DATELBL":   "11:00 PM Tue",
					"FLDATELBL": "2017-09-05 11:00 PM Tue AST",
					"TIMEZONE":  "AST",
					"MSLP":      "914.0",
					"MAXWIND":   "160.0",
					"STORMTYPE": "MH",
				},
			},
			{
				Geometry: orb.Point{-63.5, 18.0},
				Attributes: domain.Attributes{
					"ADVDATE":   "1100 PM AST Tue Sep 05 2017",
					"DATELBL":   "8:00 AM Wed",
					"FLDATELBL": "2017-09-06 8:00 AM Wed AST",
					"TIMEZONE":  "AST",
					"MSLP":      "9999.0",
					"MAXWIND":   "150.0",
					"STORMTYPE": "MH",
				},
			},
		},
	}
}

func bestTrackLayer() domain.Layer {
	return domain.Layer{
		Name:      "AL112017_pts.shp",
		Component: domain.PointComponent,
		Records: []domain.RawRecord{
			{
				Geometry: orb.Point{-30.0, 16.4},
				Attributes: domain.Attributes{
					"YEAR": "2017", "MONTH": "08", "DAY": "30", "HHMM": "1800",
					"MSLP": "1004.0", "INTENSITY": "45.0", "STORMTYPE": "TS",
				},
			},
			{
				Geometry: orb.Point{-31.6, 16.5},
				Attributes: domain.Attributes{
					"YEAR": "2017", "MONTH": "08", "DAY": "31", "HHMM": "0000",
					"MSLP": "1001.0", "INTENSITY": "50.0", "STORMTYPE": "TS",
				},
			},
		},
	}
}

func remnantPointLayer() domain.Layer {
	l := forecastPointLayer()
	l.Name = "al132017_5day_pts.shp"
	return l
}
