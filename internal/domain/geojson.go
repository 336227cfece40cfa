package domain

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// GeoJSON converts the collection to its wire form.
func (fc FeatureCollection) GeoJSON() *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc {
		gf := geojson.NewFeature(f.Geometry)
		gf.Properties = f.Properties.Map()
		out.Append(gf)
	}
	return out
}

// MarshalJSON encodes the collection as a GeoJSON FeatureCollection. Property
// keys are emitted in sorted order.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(fc.GeoJSON())
}

// DecodeFeatureCollection parses a GeoJSON FeatureCollection written by
// MarshalJSON back into domain features.
func DecodeFeatureCollection(data []byte) (FeatureCollection, error) {
	gfc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}

	out := make(FeatureCollection, 0, len(gfc.Features))
	for i, gf := range gfc.Features {
		props, err := ParseProperties(gf.Properties)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, Feature{Geometry: gf.Geometry, Properties: props})
	}
	return out, nil
}
