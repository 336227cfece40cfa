package domain

// FieldNames maps each logical attribute to its DBF column name.
type FieldNames struct {
	StormType      string
	ForecastPeriod string

	// Forecast points.
	AdvisoryDate  string
	DateLabel     string
	FullDateLabel string
	TimeZone      string
	MaxWind       string

	// Best-track points.
	Year      string
	Month     string
	Day       string
	HHMM      string
	Intensity string

	Pressure string
}

// Vocabulary holds the lookup tables the feed and normalizer depend on.
// It is passed explicitly so tests can substitute their own values.
type Vocabulary struct {
	// ItemsWanted maps an RSS item title fragment to the provenance of the
	// archive it links to.
	ItemsWanted map[string]Provenance

	// Components lists the archive layers to read per provenance, in order.
	Components map[Provenance][]Component

	// RemnantMarker in an item title flags the storm as a remnant low.
	RemnantMarker string

	// BestTrackMarker in an archive file name marks an archive that is
	// republished under the same name and must always be fetched again.
	BestTrackMarker string

	Fields FieldNames

	// PressureMissing is the raw MSLP value the advisories use for "unknown".
	PressureMissing string

	// HurricaneCodes are the storm-type codes that get a Saffir-Simpson band.
	HurricaneCodes []string
}

// DefaultVocabulary returns the values used by the NHC GIS feeds.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		ItemsWanted: map[string]Provenance{
			"Preliminary Best Track [shp]": Historical,
			"Forecast [shp]":               Forecast,
		},
		Components: map[Provenance][]Component{
			Historical: {PointComponent},
			Forecast:   {PolygonComponent, PointComponent},
		},
		RemnantMarker:   "Remnants",
		BestTrackMarker: "best_track",
		Fields: FieldNames{
			StormType:      "STORMTYPE",
			ForecastPeriod: "FCSTPRD",
			AdvisoryDate:   "ADVDATE",
			DateLabel:      "DATELBL",
			FullDateLabel:  "FLDATELBL",
			TimeZone:       "TIMEZONE",
			MaxWind:        "MAXWIND",
			Year:           "YEAR",
			Month:          "MONTH",
			Day:            "DAY",
			HHMM:           "HHMM",
			Intensity:      "INTENSITY",
			Pressure:       "MSLP",
		},
		PressureMissing: "9999.0",
		HurricaneCodes:  []string{"HU", "MH"},
	}
}
