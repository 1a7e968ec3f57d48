// Package domain defines the business logic for the signup service.
package domain

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/observability"
)

var (
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadySignedUp indicates the email is already on the roster.
	ErrAlreadySignedUp = errors.New("student is already signed up for this activity")
	// ErrNotSignedUp indicates the email is not on the roster.
	ErrNotSignedUp = errors.New("student is not signed up for this activity")
	// ErrInvalidEmail rejects blank participant emails before they reach the registry.
	ErrInvalidEmail = errors.New("email is required")
)

// Registry captures roster persistence operations. Presence checks live
// behind this interface so each mutation is atomic with its check.
type Registry interface {
	List(ctx context.Context) ([]Activity, error)
	Get(ctx context.Context, name string) (*Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
}

// RosterEvent describes a roster mutation handed to the Publisher.
type RosterEvent struct {
	EventID    string
	EventType  string
	Activity   string
	Email      string
	OccurredAt time.Time
}

// Roster event types emitted after successful mutations.
const (
	EventTypeSignup     = "roster.signup"
	EventTypeUnregister = "roster.unregister"
)

// Publisher delivers roster events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event RosterEvent) error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(ctx context.Context, event RosterEvent) error { return nil }

// Service orchestrates signup workflows over a Registry.
type Service struct {
	registry  Registry
	publisher Publisher
	logger    *log.Logger
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithPublisher attaches a roster event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger overrides the logger used for publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Service.
func NewService(registry Registry, opts ...Option) *Service {
	s := &Service{
		registry:  registry,
		publisher: NopPublisher{},
		logger:    log.New(log.Writer(), "[service] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns every seeded activity with its current roster.
func (s *Service) ListActivities(ctx context.Context) ([]Activity, error) {
	return s.registry.List(ctx)
}

// GetActivity fetches a single activity by name.
func (s *Service) GetActivity(ctx context.Context, name string) (*Activity, error) {
	activity, err := s.registry.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup appends the email to the activity roster and emits a roster.signup event.
func (s *Service) Signup(ctx context.Context, name, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	if err := s.registry.AddParticipant(ctx, name, email); err != nil {
		s.recordRejection(err)
		return err
	}
	observability.RecordSignup(name, s.rosterSize(ctx, name))
	s.emit(ctx, EventTypeSignup, name, email)
	return nil
}

// Unregister removes the email from the activity roster and emits a roster.unregister event.
func (s *Service) Unregister(ctx context.Context, name, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrInvalidEmail
	}
	if err := s.registry.RemoveParticipant(ctx, name, email); err != nil {
		s.recordRejection(err)
		return err
	}
	observability.RecordUnregister(name, s.rosterSize(ctx, name))
	s.emit(ctx, EventTypeUnregister, name, email)
	return nil
}

func (s *Service) recordRejection(err error) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		observability.RecordRejected("activity_not_found")
	case errors.Is(err, ErrAlreadySignedUp):
		observability.RecordRejected("already_signed_up")
	case errors.Is(err, ErrNotSignedUp):
		observability.RecordRejected("not_signed_up")
	}
}

// rosterSize re-reads the activity to refresh the roster gauge. A failed
// read only skips the gauge update.
func (s *Service) rosterSize(ctx context.Context, name string) int {
	activity, err := s.registry.Get(ctx, name)
	if err != nil || activity == nil {
		return -1
	}
	return len(activity.Participants)
}

// emit publishes best-effort: a broker outage must not fail the signup.
func (s *Service) emit(ctx context.Context, eventType, name, email string) {
	event := RosterEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Activity:   name,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Printf("publish failed (event_type=%s, activity=%s): %v", eventType, name, err)
	}
}

// SeedActivities returns the fixed activity table loaded at process start.
func SeedActivities() []Activity {
	return []Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Programming Class",
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		{
			Name:            "Gym Class",
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		{
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Practice and play basketball with the school team",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
		},
		{
			Name:            "Art Club",
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
		},
		{
			Name:            "Drama Club",
			Description:     "Act, direct, and produce plays and performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
		},
		{
			Name:            "Math Club",
			Description:     "Solve challenging problems and participate in math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
		},
		{
			Name:            "Debate Team",
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
		},
	}
}
