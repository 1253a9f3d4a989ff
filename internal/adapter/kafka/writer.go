package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/water-restriction-etl/internal/config"
	"github.com/couchcryptid/water-restriction-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes entity states to a Kafka topic, keyed by unique id so a
// compacted topic keeps the latest state of every entity.
// It implements pipeline.StateLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadStates publishes one message per entity state in a single
// WriteMessages call.
func (w *Writer) LoadStates(ctx context.Context, states []domain.EntityState) error {
	if len(states) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(states))
	for i := range states {
		msg, err := serializeToMessage(states[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write entity states: %w", err)
	}
	w.logger.Debug("entity states published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an EntityState into a Kafka message.
func serializeToMessage(state domain.EntityState) (kafkago.Message, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize entity state: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(state.UniqueID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(state.Kind)},
			{Key: "entity_key", Value: []byte(state.Key)},
			{Key: "updated_at", Value: []byte(state.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
