package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
)

// KafkaPublisher writes roster events to a single Kafka topic, keyed by
// activity name so all events for one roster land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// Publish implements domain.Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.RosterEvent) error {
	payload, err := json.Marshal(RosterChanged{
		EventID:    event.EventID,
		EventType:  event.EventType,
		Activity:   event.Activity,
		Email:      event.Email,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Activity),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "activity", Value: []byte(event.Activity)},
		},
	})
}

// Close releases the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
