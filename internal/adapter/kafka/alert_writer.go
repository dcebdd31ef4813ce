package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/smartcity/roadsafety/internal/domain"
)

// AlertWriter publishes emergency alerts to a Kafka topic.
// It implements domain.AlertSink.
type AlertWriter struct {
	writer *kafkago.Writer
}

// NewAlertWriter creates a Kafka producer for the alert topic.
func NewAlertWriter(brokers []string, topic string) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w}
}

// RecordAlert serializes and publishes one alert, keyed by alert ID.
func (w *AlertWriter) RecordAlert(ctx context.Context, rec domain.AlertRecord) error {
	msg, err := serializeAlert(rec)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write alert: %w", err)
	}
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

// serializeAlert marshals an AlertRecord into a Kafka message.
func serializeAlert(rec domain.AlertRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hospital", Value: []byte(rec.FacilityName)},
			{Key: "recorded_at", Value: []byte(rec.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
