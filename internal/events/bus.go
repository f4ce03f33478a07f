// Package events provides in-process publish/subscribe for typing signals and
// application state changes.
package events

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tOgg1/uplink/internal/models"
)

// Handler is invoked when an event matches a subscription.
type Handler func(event *models.Event)

// Filter defines criteria for matching events. Empty fields match anything.
type Filter struct {
	EventTypes []models.EventType
	EntityID   string
}

// Matches returns true if the event matches the filter criteria.
func (f *Filter) Matches(event *models.Event) bool {
	if event == nil {
		return false
	}
	if len(f.EventTypes) > 0 && !slices.Contains(f.EventTypes, event.Type) {
		return false
	}
	if f.EntityID != "" && event.EntityID != f.EntityID {
		return false
	}
	return true
}

type subscription struct {
	filter  Filter
	handler Handler
}

// Publisher is the publishing side of the bus.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event)
}

// Bus is an in-memory Publisher with subscriptions.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	now           func() time.Time
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string]*subscription),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Publish delivers event synchronously to all matching subscribers. Missing
// ID and timestamp are filled in.
func (b *Bus) Publish(ctx context.Context, event *models.Event) {
	if event == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = b.now()
	}

	b.mu.RLock()
	var handlers []Handler
	for _, sub := range b.subscriptions {
		if sub.filter.Matches(event) {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.RUnlock()

	// Invoke handlers outside the lock so they may subscribe or publish.
	for _, handler := range handlers {
		handler(event)
	}
}

// Subscribe registers handler and returns a generated subscription ID.
func (b *Bus) Subscribe(filter Filter, handler Handler) (string, error) {
	if handler == nil {
		return "", ErrNilHandler
	}
	id := uuid.New().String()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions[id] = &subscription{filter: filter, handler: handler}
	return id, nil
}

// Unsubscribe removes a subscription by ID.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[id]; !exists {
		return ErrSubscriptionNotFound
	}
	delete(b.subscriptions, id)
	return nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// Close removes all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string]*subscription)
}

// NewEvent builds an event with a JSON payload. A payload that fails to
// marshal is dropped.
func NewEvent(typ models.EventType, entityType models.EntityType, entityID string, payload any) *models.Event {
	event := &models.Event{
		Type:       typ,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.Payload = raw
		}
	}
	return event
}

// Errors for bus operations.
var (
	ErrNilHandler           = &BusError{Message: "handler cannot be nil"}
	ErrSubscriptionNotFound = &BusError{Message: "subscription not found"}
)

// BusError represents an error from bus operations.
type BusError struct {
	Message string
}

func (e *BusError) Error() string {
	return e.Message
}
