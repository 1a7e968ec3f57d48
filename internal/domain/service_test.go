package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	activities map[string]*Activity
	addErr     error
	removeErr  error
}

func (s *stubRegistry) List(ctx context.Context) ([]Activity, error) {
	out := make([]Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (s *stubRegistry) Get(ctx context.Context, name string) (*Activity, error) {
	return s.activities[name], nil
}

func (s *stubRegistry) AddParticipant(ctx context.Context, name, email string) error {
	return s.addErr
}

func (s *stubRegistry) RemoveParticipant(ctx context.Context, name, email string) error {
	return s.removeErr
}

type capturingPublisher struct {
	events []RosterEvent
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, event RosterEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func TestSignupPublishesEvent(t *testing.T) {
	registry := &stubRegistry{activities: map[string]*Activity{
		"Chess Club": {Name: "Chess Club", Participants: []string{"a@mergington.edu"}},
	}}
	publisher := &capturingPublisher{}
	service := NewService(registry, WithPublisher(publisher))

	err := service.Signup(context.Background(), "Chess Club", "b@mergington.edu")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	require.Equal(t, EventTypeSignup, event.EventType)
	require.Equal(t, "Chess Club", event.Activity)
	require.Equal(t, "b@mergington.edu", event.Email)
	require.NotEmpty(t, event.EventID)
	require.False(t, event.OccurredAt.IsZero())
}

func TestUnregisterPublishesEvent(t *testing.T) {
	registry := &stubRegistry{activities: map[string]*Activity{
		"Chess Club": {Name: "Chess Club"},
	}}
	publisher := &capturingPublisher{}
	service := NewService(registry, WithPublisher(publisher))

	err := service.Unregister(context.Background(), "Chess Club", "a@mergington.edu")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	require.Equal(t, EventTypeUnregister, publisher.events[0].EventType)
}

func TestFailedMutationPublishesNothing(t *testing.T) {
	registry := &stubRegistry{
		activities: map[string]*Activity{},
		addErr:     ErrActivityNotFound,
		removeErr:  ErrNotSignedUp,
	}
	publisher := &capturingPublisher{}
	service := NewService(registry, WithPublisher(publisher))

	err := service.Signup(context.Background(), "Fake Activity", "a@mergington.edu")
	require.ErrorIs(t, err, ErrActivityNotFound)

	err = service.Unregister(context.Background(), "Fake Activity", "a@mergington.edu")
	require.ErrorIs(t, err, ErrNotSignedUp)

	require.Empty(t, publisher.events)
}

func TestPublishFailureDoesNotFailSignup(t *testing.T) {
	registry := &stubRegistry{activities: map[string]*Activity{
		"Chess Club": {Name: "Chess Club"},
	}}
	publisher := &capturingPublisher{err: errors.New("broker unavailable")}
	service := NewService(registry, WithPublisher(publisher))

	err := service.Signup(context.Background(), "Chess Club", "a@mergington.edu")
	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
}

func TestBlankEmailRejected(t *testing.T) {
	registry := &stubRegistry{activities: map[string]*Activity{}}
	publisher := &capturingPublisher{}
	service := NewService(registry, WithPublisher(publisher))

	require.ErrorIs(t, service.Signup(context.Background(), "Chess Club", "   "), ErrInvalidEmail)
	require.ErrorIs(t, service.Unregister(context.Background(), "Chess Club", ""), ErrInvalidEmail)
	require.Empty(t, publisher.events)
}

func TestGetActivityNotFound(t *testing.T) {
	registry := &stubRegistry{activities: map[string]*Activity{}}
	service := NewService(registry)

	_, err := service.GetActivity(context.Background(), "Fake Activity")
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestSeedActivitiesRostersWithinCapacity(t *testing.T) {
	for _, activity := range SeedActivities() {
		require.NotEmpty(t, activity.Name)
		require.NotEmpty(t, activity.Schedule)
		require.Greater(t, activity.MaxParticipants, 0)
		require.LessOrEqual(t, len(activity.Participants), activity.MaxParticipants)
		require.True(t, activity.HasParticipant(activity.Participants[0]))
	}
}
