// Package events defines the roster event wire format and its Kafka publisher.
package events

import "time"

// RosterChanged is the message emitted for every successful signup or unregister.
type RosterChanged struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
