package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/lead-capture-service/internal/config"
	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

// EventLeadSubmitted is the event_type header on lead messages.
const EventLeadSubmitted = "lead.submitted"

// Writer produces lead events to a Kafka topic.
// It implements domain.LeadPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured leads topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaLeadsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishLead writes one lead event keyed by lead ID, so every event for a
// lead lands on the same partition.
func (w *Writer) PublishLead(ctx context.Context, lead domain.Lead) error {
	msg, err := serializeToMessage(lead)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish lead %s: %w", lead.ID, err)
	}
	w.logger.Debug("lead event published", "lead_id", lead.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Lead into a Kafka message.
func serializeToMessage(lead domain.Lead) (kafkago.Message, error) {
	data, err := json.Marshal(lead)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lead: %w", err)
	}
	var submitted string
	if lead.SubmittedAt != nil {
		submitted = lead.SubmittedAt.UTC().Format(time.RFC3339)
	}
	return kafkago.Message{
		Key:   []byte(lead.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventLeadSubmitted)},
			{Key: "submitted_at", Value: []byte(submitted)},
		},
	}, nil
}
