// Package events publishes profile lifecycle notifications.
//
// Publishing is best effort: a profile write never fails because its event
// could not be delivered. Consumers key on Event.ID to drop duplicates.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/devhub/internal/domain/models"
	"github.com/google/uuid"
)

// Type names what happened to a profile.
type Type string

const (
	ProfileCreated Type = "profile.created"
	ProfileUpdated Type = "profile.updated"
	ProfileDeleted Type = "profile.deleted"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "profile.events"

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	ProfileID  string    `json:"profileId"`
	UserID     string    `json:"userId"`
	Handle     string    `json:"handle"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event of type t about p.
func New(t Type, p models.Profile) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		ProfileID:  p.ID.Hex(),
		UserID:     p.User.Hex(),
		Handle:     p.Handle,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
