package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes assessment events to a Kafka topic.
// It implements workflow.AssessmentPublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured assessment topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAssessmentTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one event keyed by its assessment id, so all events for an
// assessment land on the same partition.
func (w *Writer) Publish(ctx context.Context, ev domain.AssessmentEvent) error {
	msg, err := serializeToMessage(ev)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish assessment %s: %w", ev.ID, err)
	}
	w.logger.Debug("assessment published", "id", ev.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AssessmentEvent into a Kafka message.
func serializeToMessage(ev domain.AssessmentEvent) (kafkago.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(ev.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "score", Value: []byte(strconv.FormatFloat(ev.Score, 'f', -1, 64))},
			{Key: "analyzed_at", Value: []byte(ev.AnalyzedAt.Format(time.RFC3339))},
		},
		Time: ev.AnalyzedAt,
	}, nil
}
