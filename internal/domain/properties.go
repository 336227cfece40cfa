package domain

import (
	"fmt"
	"math"
)

// GeoJSON property keys. They match the files consumed by the existing map
// front end, so they are terse and must not change.
const (
	keyStorm          = "storm"
	keyRemnantFlag    = "remnant_flag"
	keySource         = "source"
	keyDatetime       = "datetime"
	keyPressure       = "pressure"
	keyWind           = "wind"
	keyCategory       = "cat"
	keyForecastPeriod = "fcstpd"
	keyCurrent        = "current"
)

// Map renders the properties as a GeoJSON property object. Polygons carry the
// forecast period and category; points carry provenance, time, pressure, wind
// and the current-position marker. A nil pressure is emitted as JSON null.
func (p Properties) Map() map[string]any {
	m := map[string]any{
		keyStorm:       p.Storm,
		keyRemnantFlag: p.RemnantFlag,
	}
	if !p.Uncategorized {
		m[keyCategory] = p.Category
	}

	switch p.Kind {
	case PolygonComponent:
		m[keyForecastPeriod] = p.ForecastPeriod
	case PointComponent:
		m[keySource] = string(p.Source)
		m[keyDatetime] = p.Datetime
		m[keyWind] = p.Wind
		m[keyCurrent] = p.Current
		if p.Pressure != nil {
			m[keyPressure] = *p.Pressure
		} else {
			m[keyPressure] = nil
		}
	}
	return m
}

// ParseProperties is the inverse of Properties.Map. It accepts the loosely
// typed maps produced by a JSON decoder, where every number is a float64.
func ParseProperties(m map[string]any) (Properties, error) {
	var p Properties
	var err error

	if p.Storm, err = stringProp(m, keyStorm); err != nil {
		return Properties{}, err
	}
	if p.RemnantFlag, err = boolProp(m, keyRemnantFlag); err != nil {
		return Properties{}, err
	}
	if _, ok := m[keyCategory]; ok {
		if p.Category, err = stringProp(m, keyCategory); err != nil {
			return Properties{}, err
		}
	} else {
		p.Uncategorized = true
	}

	_, isPolygon := m[keyForecastPeriod]
	_, isPoint := m[keySource]
	switch {
	case isPolygon:
		p.Kind = PolygonComponent
		if p.ForecastPeriod, err = intProp(m, keyForecastPeriod); err != nil {
			return Properties{}, err
		}
	case isPoint:
		p.Kind = PointComponent
		source, err := stringProp(m, keySource)
		if err != nil {
			return Properties{}, err
		}
		p.Source = Provenance(source)
		if p.Datetime, err = stringProp(m, keyDatetime); err != nil {
			return Properties{}, err
		}
		if p.Wind, err = intProp(m, keyWind); err != nil {
			return Properties{}, err
		}
		if p.Current, err = boolProp(m, keyCurrent); err != nil {
			return Properties{}, err
		}
		if v, ok := m[keyPressure]; ok && v != nil {
			pressure, err := intProp(m, keyPressure)
			if err != nil {
				return Properties{}, err
			}
			p.Pressure = &pressure
		}
	}
	return p, nil
}

func stringProp(m map[string]any, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("property %q: want string, got %T", key, m[key])
	}
	return s, nil
}

func boolProp(m map[string]any, key string) (bool, error) {
	b, ok := m[key].(bool)
	if !ok {
		return false, fmt.Errorf("property %q: want bool, got %T", key, m[key])
	}
	return b, nil
}

func intProp(m map[string]any, key string) (int, error) {
	switch v := m[key].(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("property %q: %v is not an integer", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("property %q: want number, got %T", key, m[key])
	}
}
