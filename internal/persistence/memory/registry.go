// Package memory stores the activity registry in process memory. It is
// the default backend and the one used by the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Swetivs/skills-getting-started-with-github-copilot/internal/domain"
)

// Registry keeps activities in a mutex-guarded map keyed by name.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
}

// New constructs a Registry populated with the seed activity table.
func New() *Registry {
	return NewWithSeed(domain.SeedActivities())
}

// NewWithSeed constructs a Registry holding copies of the provided activities.
func NewWithSeed(activities []domain.Activity) *Registry {
	r := &Registry{activities: make(map[string]*domain.Activity, len(activities))}
	for _, activity := range activities {
		clone := activity
		clone.Participants = append([]string(nil), activity.Participants...)
		r.activities[clone.Name] = &clone
	}
	return r
}

// List returns all activities sorted by name, with copied rosters.
func (r *Registry) List(ctx context.Context) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Activity, 0, len(r.activities))
	for _, activity := range r.activities {
		out = append(out, snapshot(activity))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the named activity, or nil when absent.
func (r *Registry) Get(ctx context.Context, name string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}
	copied := snapshot(activity)
	return &copied, nil
}

// AddParticipant appends the email to the roster. The presence check and
// the append happen under the same lock.
func (r *Registry) AddParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.ErrAlreadySignedUp
	}
	activity.Participants = append(activity.Participants, email)
	return nil
}

// RemoveParticipant deletes the email from the roster, preserving order.
func (r *Registry) RemoveParticipant(ctx context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.ErrActivityNotFound
	}
	for i, participant := range activity.Participants {
		if participant == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotSignedUp
}

func snapshot(activity *domain.Activity) domain.Activity {
	copied := *activity
	copied.Participants = append([]string(nil), activity.Participants...)
	return copied
}
