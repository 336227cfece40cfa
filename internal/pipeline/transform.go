package pipeline

import (
	"fmt"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
)

// Converter turns the decoded layers of one shapefile archive into features.
type Converter struct {
	normalizer *domain.Normalizer
}

// NewConverter creates a Converter for the given field vocabulary.
func NewConverter(vocab domain.Vocabulary) *Converter {
	return &Converter{normalizer: domain.NewNormalizer(vocab)}
}

// Convert normalizes every record of every layer, in layer order. Point
// layers are followed by their track segments: lines first, then points.
// The first bad record aborts the whole archive.
func (c *Converter) Convert(ref domain.ShapefileRef, layers []domain.Layer) ([]domain.Feature, error) {
	var out []domain.Feature
	for _, layer := range layers {
		features := make([]domain.Feature, 0, len(layer.Records))
		for i, rec := range layer.Records {
			props, err := c.normalizer.Normalize(rec.Attributes, domain.RecordContext{
				Provenance: ref.Provenance,
				Component:  layer.Component,
				Storm:      ref.Storm,
				Ordinal:    i,
			})
			if err != nil {
				return nil, fmt.Errorf("%s: %w", layer.Name, err)
			}
			features = append(features, domain.Feature{Geometry: rec.Geometry, Properties: props})
		}

		if layer.Component == domain.PointComponent {
			features = domain.Segment(features)
		}
		out = append(out, features...)
	}
	return out, nil
}
