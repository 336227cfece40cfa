package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-track-geojson/internal/adapter/archive"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/feed"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/filestore"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/storm-track-geojson/internal/adapter/kafka"
	"github.com/couchcryptid/storm-track-geojson/internal/adapter/memory"
	"github.com/couchcryptid/storm-track-geojson/internal/config"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/couchcryptid/storm-track-geojson/internal/observability"
	"github.com/couchcryptid/storm-track-geojson/internal/pipeline"
	"github.com/robfig/cron/v3"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	vocab := domain.DefaultVocabulary()

	reader := feed.NewReader(vocab, cfg.StormNames, cfg.FetchTimeout, logger)
	fetcher := archive.NewFetcher(cfg.CacheDir, cfg.FetchTimeout, vocab.BestTrackMarker, logger)
	source := archive.NewCachedSource(archive.NewSource(fetcher), cfg.ArchiveCacheSize, vocab.BestTrackMarker, metrics)

	writer, store, loaders := buildLoaders(cfg, logger, metrics)
	defer func() {
		if writer == nil {
			return
		}
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	p := pipeline.New(cfg.FeedURLs, reader, source, vocab, logger, metrics, loaders...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("tracking storms", "storms", cfg.StormNames, "feeds", cfg.FeedURLs)

	if cfg.Schedule == "" {
		if _, err := p.RunOnce(ctx); err != nil {
			return 1
		}
		return 0
	}
	return serve(ctx, cfg, p, store, logger)
}

// buildLoaders returns the loaders in run order. A failing loader stops the
// rest: Kafka goes first, so a publish failure leaves the files untouched, and
// the memory store goes last, so the API never serves a snapshot that failed
// to reach disk. The Kafka writer is nil unless KAFKA_ENABLED is set.
func buildLoaders(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*kafkaadapter.Writer, *memory.Store, []pipeline.Loader) {
	var loaders []pipeline.Loader

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	store := memory.NewStore()
	loaders = append(loaders, filestore.New(cfg.OutputDir, logger), store)
	return writer, store, loaders
}

// serve runs the pipeline on the cron schedule and exposes the HTTP API
// until the context is cancelled.
func serve(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, store *memory.Store, logger *slog.Logger) int {
	job := func() {
		if _, err := p.RunOnce(ctx); errors.Is(err, pipeline.ErrRunInProgress) {
			logger.Warn("previous run still in progress, skipping")
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, job); err != nil {
		logger.Error("failed to schedule runs", "schedule", cfg.Schedule, "error", err)
		return 1
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// First run immediately, then on schedule.
	go job()
	c.Start()
	logger.Info("scheduler started", "schedule", cfg.Schedule)

	<-ctx.Done()
	logger.Info("shutting down")

	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return 0
}
