package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalizer converts raw shapefile attribute rows into canonical Properties.
// It holds no per-record state; Normalize is safe to call concurrently.
type Normalizer struct {
	vocab Vocabulary
}

// NewNormalizer creates a Normalizer bound to the given vocabulary.
func NewNormalizer(vocab Vocabulary) *Normalizer {
	return &Normalizer{vocab: vocab}
}

// Normalize maps one attribute row to its canonical properties.
//
// Polygons carry only the forecast period and the raw storm-type code. Points
// carry provenance, a UTC timestamp, pressure, wind and a category; the
// category is derived from wind in knots before wind is converted to mph.
func (n *Normalizer) Normalize(attrs Attributes, rc RecordContext) (Properties, error) {
	p := Properties{
		Kind:        rc.Component,
		Storm:       rc.Storm.Name,
		RemnantFlag: rc.Storm.Remnant,
	}
	f := n.vocab.Fields

	switch rc.Component {
	case PolygonComponent:
		period, err := n.intField(attrs, f.ForecastPeriod)
		if err != nil {
			return Properties{}, fmt.Errorf("record %d: %w", rc.Ordinal, err)
		}
		p.ForecastPeriod = period
		p.Category = attrs[f.StormType]
		return p, nil

	case PointComponent:
		p.Source = rc.Provenance

		var windKnots int
		var err error
		switch rc.Provenance {
		case Forecast:
			windKnots, err = n.forecastPoint(attrs, rc.Ordinal, &p)
		case Historical:
			windKnots, err = n.historicalPoint(attrs, &p)
		default:
			return Properties{}, fmt.Errorf("normalize: unknown provenance %q", rc.Provenance)
		}
		if err != nil {
			return Properties{}, fmt.Errorf("record %d: %w", rc.Ordinal, err)
		}

		cat, ok := classify(n.vocab.HurricaneCodes, windKnots, attrs[f.StormType])
		p.Category = cat
		p.Uncategorized = !ok
		p.Wind = KnotsToMph(windKnots)
		return p, nil

	default:
		return Properties{}, fmt.Errorf("normalize: unknown component %q", rc.Component)
	}
}

// forecastPoint fills the time, pressure and current marker of a forecast
// point and returns its wind in knots. The first point of an advisory is the
// issuance position and is the only one marked current.
func (n *Normalizer) forecastPoint(attrs Attributes, ordinal int, p *Properties) (int, error) {
	f := n.vocab.Fields

	var err error
	if ordinal == 0 {
		p.Datetime, err = ResolveAdvisoryTime(attrs[f.AdvisoryDate], attrs[f.DateLabel])
	} else {
		p.Datetime, err = ResolveLabeledTime(attrs[f.FullDateLabel], attrs[f.TimeZone])
	}
	if err != nil {
		return 0, err
	}

	if strings.TrimSpace(attrs[f.Pressure]) != n.vocab.PressureMissing {
		pressure, err := n.intField(attrs, f.Pressure)
		if err != nil {
			return 0, err
		}
		p.Pressure = &pressure
	}

	p.Current = ordinal == 0
	return n.intField(attrs, f.MaxWind)
}

// historicalPoint fills a best-track point and returns its intensity in knots.
func (n *Normalizer) historicalPoint(attrs Attributes, p *Properties) (int, error) {
	f := n.vocab.Fields

	year, err := n.intField(attrs, f.Year)
	if err != nil {
		return 0, err
	}
	month, err := n.intField(attrs, f.Month)
	if err != nil {
		return 0, err
	}
	day, err := n.intField(attrs, f.Day)
	if err != nil {
		return 0, err
	}
	if p.Datetime, err = historicalTime(year, month, day, strings.TrimSpace(attrs[f.HHMM])); err != nil {
		return 0, err
	}

	pressure, err := n.intField(attrs, f.Pressure)
	if err != nil {
		return 0, err
	}
	p.Pressure = &pressure
	p.Current = false
	return n.intField(attrs, f.Intensity)
}

func (n *Normalizer) intField(attrs Attributes, name string) (int, error) {
	v, err := parseTruncatedInt(attrs[name])
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}

// parseTruncatedInt reads the integer part of a numeric attribute, dropping
// anything from the first "." on ("63.0" -> 63).
func parseTruncatedInt(s string) (int, error) {
	whole, _, _ := strings.Cut(strings.TrimSpace(s), ".")
	v, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedRecord, s)
	}
	return v, nil
}
