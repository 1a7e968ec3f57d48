// Package consumer provides Kafka consumer utilities for the roster audit trail.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of a roster event record.
type Message struct {
	Topic      string
	Partition  int
	Offset     int64
	Timestamp  time.Time
	EventType  string
	Activity   string
	EventID    string
	Email      string
	OccurredAt time.Time
	Payload    json.RawMessage
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		event, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.Printf("decode error (topic=%s, partition=%d, offset=%d): %v", msg.Topic, msg.Partition, msg.Offset, decodeErr)
			recordDecodeError(msg.Topic)
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Printf("commit error after decode failure: %v", commitErr)
			}
			continue
		}

		if handleErr := p.handler.Handle(ctx, event); handleErr != nil {
			p.logger.Printf("handler error (event_type=%s, activity=%s): %v", event.EventType, event.Activity, handleErr)
			recordHandlerError(event)
			// Leave the offset uncommitted so the message is retried.
			continue
		}

		recordProcessed(event)

		if err := p.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Printf("commit error (topic=%s, offset=%d): %v", msg.Topic, msg.Offset, err)
		}
	}
}

// decodeMessage parses a roster event record: headers carry routing
// metadata, the value is the JSON payload emitted by the publisher.
func decodeMessage(msg kafka.Message) (Message, error) {
	event := Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
		Payload:   msg.Value,
	}

	for _, header := range msg.Headers {
		switch header.Key {
		case "event_type":
			event.EventType = string(header.Value)
		case "activity":
			event.Activity = string(header.Value)
		}
	}
	if event.EventType == "" {
		return Message{}, errors.New("missing event_type header")
	}

	var payload struct {
		EventID    string    `json:"event_id"`
		EventType  string    `json:"event_type"`
		Activity   string    `json:"activity"`
		Email      string    `json:"email"`
		OccurredAt time.Time `json:"occurred_at"`
	}
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return Message{}, fmt.Errorf("decode payload: %w", err)
	}
	if payload.EventID == "" {
		return Message{}, errors.New("missing event_id in payload")
	}

	event.EventID = payload.EventID
	event.Email = payload.Email
	event.OccurredAt = payload.OccurredAt
	if event.Activity == "" {
		event.Activity = payload.Activity
	}
	return event, nil
}
