package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/couchcryptid/storm-track-geojson/internal/observability"
	"github.com/jonboulle/clockwork"
)

// FeedReader lists the wanted shapefile archives referenced by a feed.
type FeedReader interface {
	Refs(ctx context.Context, url string) ([]domain.ShapefileRef, error)
}

// LayerSource downloads an archive and decodes the requested layers, in the
// order requested.
type LayerSource interface {
	Layers(ctx context.Context, url string, components []domain.Component) ([]domain.Layer, error)
}

// Loader receives every accepted snapshot.
type Loader interface {
	Load(ctx context.Context, snap domain.Snapshot) error
}

var clock = clockwork.NewRealClock()

// SetClock overrides the clock used for run timing. Pass nil to restore the
// real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Pipeline orchestrates the fetch-convert-check-load run.
type Pipeline struct {
	feeds     []string
	reader    FeedReader
	source    LayerSource
	converter *Converter
	vocab     domain.Vocabulary
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	running   sync.Mutex
}

// New creates a Pipeline over the given feeds. Loaders run in order after
// every accepted run.
func New(feeds []string, r FeedReader, s LayerSource, vocab domain.Vocabulary, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		feeds:     feeds,
		reader:    r,
		source:    s,
		converter: NewConverter(vocab),
		vocab:     vocab,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a run has been accepted, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no conversion run has completed yet")
	}
	return nil
}

// RunOnce performs one complete run. Each feed is converted and checked on
// its own; the accepted features of all feeds are pooled into one snapshot
// and handed to every loader. Any failure aborts the run before the loaders
// see anything. Overlapping calls return ErrRunInProgress.
func (p *Pipeline) RunOnce(ctx context.Context) (domain.Snapshot, error) {
	if !p.running.TryLock() {
		p.metrics.Runs.WithLabelValues("skipped").Inc()
		return domain.Snapshot{}, ErrRunInProgress
	}
	defer p.running.Unlock()

	start := clock.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	snap, err := p.run(ctx)
	p.metrics.RunDuration.Observe(clock.Since(start).Seconds())
	if err != nil {
		p.metrics.Runs.WithLabelValues("error").Inc()
		p.logger.Error("run failed", "error", err)
		return domain.Snapshot{}, err
	}

	p.metrics.Runs.WithLabelValues("success").Inc()
	p.metrics.LastSuccess.Set(float64(snap.GeneratedAt.Unix()))
	for _, f := range snap.Features {
		p.metrics.FeaturesProduced.WithLabelValues(f.GeometryType()).Inc()
	}
	p.ready.Store(true)
	p.logger.Info("run complete",
		"features", len(snap.Features),
		"storms", len(domain.StormNames(snap.Features)),
		"duration", clock.Since(start),
	)
	return snap, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Snapshot, error) {
	var all []domain.Feature
	for _, url := range p.feeds {
		features, err := p.processFeed(ctx, url)
		if err != nil {
			return domain.Snapshot{}, err
		}
		all = append(all, features...)
	}

	snap := domain.Snapshot{GeneratedAt: clock.Now().UTC(), Features: all}
	for _, l := range p.loaders {
		if err := l.Load(ctx, snap); err != nil {
			return domain.Snapshot{}, &StageError{Stage: StageWrite, Err: err}
		}
	}
	return snap, nil
}

// processFeed converts every wanted archive of one feed and applies the
// quality gate to the feed's features.
func (p *Pipeline) processFeed(ctx context.Context, url string) ([]domain.Feature, error) {
	p.logger.Info("checking feed", "url", url)

	refs, err := p.reader.Refs(ctx, url)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}

	var features []domain.Feature
	for _, ref := range refs {
		converted, err := p.processArchive(ctx, ref)
		if err != nil {
			return nil, err
		}
		features = append(features, converted...)
	}

	if err := domain.CheckQuality(features); err != nil {
		p.metrics.QualityViolations.Inc()
		return nil, &StageError{Stage: StageQuality, Err: err}
	}
	p.logger.Info("feed accepted", "url", url, "features", len(features))
	return features, nil
}

func (p *Pipeline) processArchive(ctx context.Context, ref domain.ShapefileRef) ([]domain.Feature, error) {
	p.logger.Info("parsing archive",
		"url", ref.URL,
		"storm", ref.Storm.Name,
		"source", ref.Provenance,
		"remnant", ref.Storm.Remnant,
	)

	layers, err := p.source.Layers(ctx, ref.URL, p.vocab.Components[ref.Provenance])
	if err != nil {
		return nil, &StageError{Stage: StageDecode, Err: err}
	}

	features, err := p.converter.Convert(ref, layers)
	if err != nil {
		p.metrics.RecordErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, &StageError{Stage: StageNormalize, Err: err}
	}

	p.metrics.ShapefilesProcessed.WithLabelValues(string(ref.Provenance)).Inc()
	return features, nil
}
