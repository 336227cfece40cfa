package archive

import (
	"context"
	"fmt"

	"github.com/couchcryptid/storm-track-geojson/internal/adapter/shapefile"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
)

// Source fetches an archive and decodes the requested layers.
// It implements pipeline.LayerSource.
type Source struct {
	fetcher *Fetcher
}

// NewSource creates a Source backed by the given fetcher.
func NewSource(fetcher *Fetcher) *Source {
	return &Source{fetcher: fetcher}
}

// Layers returns the decoded layers of each component, in component order.
func (s *Source) Layers(ctx context.Context, url string, components []domain.Component) ([]domain.Layer, error) {
	dir, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var layers []domain.Layer
	for _, c := range components {
		found, err := shapefile.ReadLayers(dir, c)
		if err != nil {
			return nil, fmt.Errorf("decode %s layers: %w", c, err)
		}
		layers = append(layers, found...)
	}
	return layers, nil
}
