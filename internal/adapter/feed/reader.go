// Package feed reads the NHC GIS RSS feeds and selects the shapefile items
// for the storms being tracked.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/mmcdole/gofeed"
)

// Reader fetches a feed and turns its wanted items into shapefile references.
// It implements pipeline.FeedReader.
type Reader struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	vocab      domain.Vocabulary
	storms     []string
	logger     *slog.Logger
}

// NewReader creates a Reader that tracks the given storm names.
func NewReader(vocab domain.Vocabulary, storms []string, timeout time.Duration, logger *slog.Logger) *Reader {
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
		vocab:      vocab,
		storms:     storms,
		logger:     logger,
	}
}

// Refs downloads the feed at url and returns its wanted shapefile items in
// feed order.
func (r *Reader) Refs(ctx context.Context, url string) ([]domain.ShapefileRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: unexpected status %d", url, resp.StatusCode)
	}

	feed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	refs := Select(feed.Items, r.vocab, r.storms)
	r.logger.Info("feed parsed", "url", url, "items", len(feed.Items), "wanted", len(refs))
	return refs, nil
}

// Select picks the items whose title names both a wanted product and a
// tracked storm. An item naming several tracked storms yields one reference
// per storm. Storm names match whole words, ignoring case.
func Select(items []*gofeed.Item, vocab domain.Vocabulary, storms []string) []domain.ShapefileRef {
	titles := make([]string, 0, len(vocab.ItemsWanted))
	for t := range vocab.ItemsWanted {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	var refs []domain.ShapefileRef
	for _, item := range items {
		if item == nil {
			continue
		}
		words := titleWords(item.Title)
		remnant := vocab.RemnantMarker != "" && strings.Contains(item.Title, vocab.RemnantMarker)

		for _, storm := range storms {
			if !words[strings.ToUpper(storm)] {
				continue
			}
			for _, wanted := range titles {
				if !strings.Contains(item.Title, wanted) {
					continue
				}
				refs = append(refs, domain.ShapefileRef{
					URL:        item.Link,
					Title:      item.Title,
					Provenance: vocab.ItemsWanted[wanted],
					Storm:      domain.StormContext{Name: storm, Remnant: remnant},
				})
			}
		}
	}
	return refs
}

// titleWords returns the upper-cased words of a title, split on anything
// that is not a letter.
func titleWords(title string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToUpper(title), func(r rune) bool { return !unicode.IsLetter(r) }) {
		words[w] = true
	}
	return words
}
