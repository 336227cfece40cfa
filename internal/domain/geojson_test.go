package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() FeatureCollection {
	points := []Feature{
		{
			Geometry: orb.Point{-60.1, 17.2},
			Properties: Properties{
				Kind: PointComponent, Storm: testStorm, Source: Forecast,
				Datetime: "2017-09-06T03:00:00", Pressure: intPtr(914), Wind: 185, Category: "H5", Current: true,
			},
		},
		{
			Geometry: orb.Point{-63.5, 18.0},
			Properties: Properties{
				Kind: PointComponent, Storm: testStorm, Source: Forecast,
				Datetime: "2017-09-06T12:00:00", Wind: 175, Uncategorized: true,
			},
		},
	}
	out := FeatureCollection{cone(testStorm, false)}
	return append(out, Segment(points)...)
}

func TestFeatureCollection_RoundTrip(t *testing.T) {
	fc := sampleCollection()

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	got, err := DecodeFeatureCollection(data)
	require.NoError(t, err)

	if diff := cmp.Diff(fc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFeatureCollection_WireFormat(t *testing.T) {
	data, err := json.Marshal(sampleCollection())
	require.NoError(t, err)

	var wire struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties json.RawMessage `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "FeatureCollection", wire.Type)
	require.Len(t, wire.Features, 4)
	assert.Equal(t, "Polygon", wire.Features[0].Geometry.Type)
	assert.Equal(t, "LineString", wire.Features[1].Geometry.Type)

	assert.JSONEq(t, `{"cat":"HU","fcstpd":120,"remnant_flag":false,"storm":"IRMA"}`, string(wire.Features[0].Properties))
	assert.JSONEq(t,
		`{"current":false,"datetime":"2017-09-06T12:00:00","pressure":null,"remnant_flag":false,"source":"forecast","storm":"IRMA","wind":175}`,
		string(wire.Features[3].Properties))

	// Keys are written in sorted order.
	props := string(wire.Features[2].Properties)
	order := []string{`"cat"`, `"current"`, `"datetime"`, `"pressure"`, `"remnant_flag"`, `"source"`, `"storm"`, `"wind"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(props, key)
		require.Greater(t, idx, last, "key %s out of order in %s", key, props)
		last = idx
	}
}

func TestDecodeFeatureCollection_Errors(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeFeatureCollection([]byte("{"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode feature collection")
	})

	t.Run("bad property type", func(t *testing.T) {
		data := []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"storm":1,"remnant_flag":false}}]}`)
		_, err := DecodeFeatureCollection(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feature 0")
	})
}
