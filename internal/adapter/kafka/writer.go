package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/storm-track-geojson/internal/config"
	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/couchcryptid/storm-track-geojson/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes each storm's collection to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSinkTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Load publishes one message per storm in a single WriteMessages call. The
// message key is the storm name, so a storm's updates stay on one partition.
func (w *Writer) Load(ctx context.Context, snap domain.Snapshot) error {
	names := domain.StormNames(snap.Features)
	if len(names) == 0 {
		return nil
	}

	storms := snap.Storms()
	msgs := make([]kafkago.Message, len(names))
	for i, name := range names {
		msg, err := serializeStorm(name, storms[name], snap.GeneratedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish storm collections: %w", err)
	}
	w.metrics.MessagesProduced.Add(float64(len(msgs)))
	w.logger.Info("published storm collections", "topic", w.writer.Topic, "storms", len(msgs))
	return nil
}

// Close flushes pending messages and closes the underlying producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeStorm encodes a storm's collection as a GeoJSON message.
func serializeStorm(storm string, fc domain.FeatureCollection, generatedAt time.Time) (kafkago.Message, error) {
	data, err := fc.MarshalJSON()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize storm %s: %w", storm, err)
	}
	return kafkago.Message{
		Key:   []byte(storm),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(generatedAt.UTC().Format(time.RFC3339))},
			{Key: "feature_count", Value: []byte(strconv.Itoa(len(fc)))},
		},
	}, nil
}
