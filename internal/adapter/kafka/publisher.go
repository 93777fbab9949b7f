package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wxdash/weather-dashboard/internal/config"
	"github.com/wxdash/weather-dashboard/internal/domain"
)

// Publisher fans recorded observations out to a Kafka topic for downstream
// consumers. It implements dashboard.Publisher. Publishing is optional and
// feature-flagged; failures here never gate the pipeline.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured observation topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one observation and writes it to the topic, keyed by
// its storage key so consumers see the same identity the archive does.
func (p *Publisher) Publish(ctx context.Context, obs domain.Observation) error {
	msg, err := serializeToMessage(obs)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an observation into a Kafka message carrying
// the archived record document as its value.
func serializeToMessage(obs domain.Observation) (kafkago.Message, error) {
	data, err := obs.MarshalRecord()
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(domain.DeriveStorageKey(obs.Location, obs.CapturedAt)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location", Value: []byte(obs.Location)},
			{Key: "captured_at", Value: []byte(obs.CapturedAt.Format(time.RFC3339))},
		},
	}, nil
}
