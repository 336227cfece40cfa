// Package domain converts National Hurricane Center (NHC) tropical-cyclone
// shapefile records into normalized GeoJSON features.
//
// # Data Source
//
// NHC publishes GIS products per basin through RSS feeds, e.g.
// https://www.nhc.noaa.gov/gis-at.xml (Atlantic) and gis-ep.xml (East Pacific).
// Two item types are used:
//
//	"Preliminary Best Track [shp]"  observed positions  (Historical)
//	"Forecast [shp]"                advisory forecast   (Forecast)
//
// Each item links a zip archive holding several layers. Best-track archives
// contribute their "_pts" layer; forecast archives contribute "_pgn" (the
// forecast cone) and "_pts" (the forecast positions). Item titles that contain
// "Remnants" describe a storm that has degenerated into a remnant low.
//
// # Attribute Conventions
//
// Numbers arrive as text and may carry a fraction: "63.0". Only the integer
// part is used.
//
// Forecast points:
//
//	ADVDATE    "1100 PM AST Tue Sep 05 2017"   hour as bare digits (3-4 chars)
//	DATELBL    "11:00 PM Tue"                  same hour, formatted
//	FLDATELBL  "2017-09-06 8:00 AM Wed AST"    full local time of the position
//	MSLP       "987.0", or "9999.0" when pressure is unknown
//	MAXWIND    sustained wind in knots
//
// The first point of an advisory is the issuance position. Its time is taken
// from ADVDATE only after its hour matches DATELBL; a mismatch is an error,
// since a wrong time would misplace the storm's current position. Later
// points use FLDATELBL. Local times are converted to UTC and written without
// an offset: "2017-09-06T03:00:00".
//
// Best-track points:
//
//	YEAR, MONTH, DAY   UTC date
//	HHMM               "1800"; only the hour is used, minutes are dropped
//	MSLP               millibars
//	INTENSITY          sustained wind in knots
//
// # Categories
//
// Points with storm type "HU" (hurricane) or "MH" (major hurricane) are banded
// on the Saffir-Simpson scale using wind in knots:
//
//	64-82 H1 | 83-95 H2 | 96-112 H3 | 113-136 H4 | >=137 H5
//
// At 63 knots or less no category is assigned. Other storm types (TD, TS, EX,
// LO, ...) pass through unchanged. Wind is then converted to mph and rounded
// to the nearest 5.
//
// # Tracks
//
// Consecutive points of one layer are joined by two-point LineStrings so a
// map can draw the track; see [Segment].
package domain
