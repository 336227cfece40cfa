package domain

import (
	"fmt"
	"strings"
	"time"
)

// isoLayout is the offset-free ISO-8601 form written to the "datetime" property.
const isoLayout = "2006-01-02T15:04:05"

// zoneOffsets lists the zone abbreviations that appear in NHC advisories, in
// hours east of UTC.
var zoneOffsets = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"Z":    0,
	"AST":  -4,
	"ADT":  -3,
	"EST":  -5,
	"EDT":  -4,
	"CST":  -6,
	"CDT":  -5,
	"MST":  -7,
	"MDT":  -6,
	"PST":  -8,
	"PDT":  -7,
	"AKST": -9,
	"AKDT": -8,
	"HST":  -10,
	"HDT":  -9,
}

type localLayout struct {
	layout  string
	hasDate bool
}

// localLayouts are tried in order against the upper-cased, zone-stripped text.
var localLayouts = []localLayout{
	{"3:04 PM Mon Jan 2 2006", true},
	{"3:04 PM Jan 2 2006", true},
	{"2006-01-02 3:04 PM Mon", true},
	{"2006-01-02 3:04 PM", true},
	{"2006-01-02 15:04", true},
	{"15:04 Mon Jan 2 2006", true},
	{"15:04 Jan 2 2006", true},
	{"2006-01-02 15:04 Mon", true},
	{"3:04 PM Mon", false},
	{"3:04 PM", false},
	{"15:04 Mon", false},
	{"15:04", false},
}

// ResolveAdvisoryTime resolves the issuance time of a forecast advisory.
//
// advDate leads with the hour as bare digits ("1100 PM AST Tue Sep 05 2017"),
// dateLabel leads with the same hour already formatted ("11:00 PM Tue"). The
// two must agree; a mismatch is reported rather than guessed.
func ResolveAdvisoryTime(advDate, dateLabel string) (string, error) {
	fragment, rest, _ := strings.Cut(strings.TrimSpace(advDate), " ")
	if !isDigits(fragment) || len(fragment) < 3 || len(fragment) > 4 {
		return "", fmt.Errorf("%w: cannot extract hour from advisory date %q", ErrAmbiguousTimestamp, advDate)
	}

	formatted := fragment[:len(fragment)-2] + ":" + fragment[len(fragment)-2:]
	labelHour, _, _ := strings.Cut(strings.TrimSpace(dateLabel), " ")
	if formatted != labelHour {
		return "", fmt.Errorf("%w: advisory hour %q does not match label hour %q", ErrAmbiguousTimestamp, formatted, labelHour)
	}
	if strings.TrimSpace(rest) == "" {
		return "", fmt.Errorf("%w: advisory date %q has nothing after the hour", ErrAmbiguousTimestamp, advDate)
	}

	t, err := parseLocal(formatted+" "+rest, "")
	if err != nil {
		return "", err
	}
	return formatUTC(t), nil
}

// ResolveLabeledTime parses a self-contained forecast label such as
// "2017-09-06 8:00 AM Wed AST". fallbackZone is used when the label itself
// carries no zone abbreviation.
func ResolveLabeledTime(label, fallbackZone string) (string, error) {
	t, err := parseLocal(label, fallbackZone)
	if err != nil {
		return "", err
	}
	return formatUTC(t), nil
}

// parseLocal parses a local wall time that names its zone by abbreviation.
// Text without a calendar date is placed on the current day in that zone.
func parseLocal(s, fallbackZone string) (time.Time, error) {
	var zone string
	rest := make([]string, 0, 8)
	for _, tok := range strings.Fields(strings.ToUpper(s)) {
		if _, ok := zoneOffsets[tok]; ok && zone == "" {
			zone = tok
			continue
		}
		rest = append(rest, tok)
	}
	if zone == "" {
		zone = strings.ToUpper(strings.TrimSpace(fallbackZone))
	}

	offset, ok := zoneOffsets[zone]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no known time zone in %q", ErrAmbiguousTimestamp, s)
	}
	loc := time.FixedZone(zone, offset*int(time.Hour/time.Second))
	value := strings.Join(dropRedundantPM(rest), " ")

	for _, l := range localLayouts {
		t, err := time.ParseInLocation(l.layout, value, loc)
		if err != nil {
			continue
		}
		if !l.hasDate {
			now := clock.Now().In(loc)
			t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized local time %q", ErrAmbiguousTimestamp, s)
}

// dropRedundantPM removes a PM marker that follows a 24-hour clock time
// ("15:00 PM"). AM after such an hour is left in place and fails to parse.
func dropRedundantPM(tokens []string) []string {
	if len(tokens) < 2 || tokens[1] != "PM" {
		return tokens
	}
	hour, _, ok := strings.Cut(tokens[0], ":")
	if !ok || len(hour) != 2 || !isDigits(hour) || hour < "13" {
		return tokens
	}
	return append(tokens[:1:1], tokens[2:]...)
}

// historicalTime builds a best-track timestamp. The components are already
// UTC. Only the hour of the packed HHMM field is used; minutes are dropped.
func historicalTime(year, month, day int, hhmm string) (string, error) {
	if len(hhmm) < 2 || !isDigits(hhmm[:2]) {
		return "", fmt.Errorf("%w: HHMM %q", ErrMalformedRecord, hhmm)
	}
	hour := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')

	t := time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
	if month < 1 || month > 12 || hour > 23 || t.Day() != day || t.Year() != year {
		return "", fmt.Errorf("%w: invalid date %04d-%02d-%02d hour %d", ErrMalformedRecord, year, month, day, hour)
	}
	return t.Format(isoLayout), nil
}

func formatUTC(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
