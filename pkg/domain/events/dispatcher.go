package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Handler consumes one domain event. Handlers must be safe for concurrent
// use: the sweep scheduler and the dashboard dispatch from different
// goroutines.
type Handler func(ctx context.Context, event DomainEvent) error

// EventDispatcher fans domain events out to subscribed handlers. One
// dispatcher instance is shared by the whole service graph; the four
// trigger event types and the dashboard wildcard all register here.
type EventDispatcher struct {
	mu       sync.RWMutex
	byType   map[string][]subscription
	wildcard []subscription

	// ContinueOnError makes Dispatch run every handler and join their
	// errors instead of stopping at the first failure. The notification
	// triggers enable it so one bad channel never starves the rest.
	ContinueOnError bool
}

type subscription struct {
	name    string
	handler Handler
}

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{byType: make(map[string][]subscription)}
}

// RegisterHandler subscribes handler to the given event types. The name
// shows up in dispatch errors so a failing handler can be identified.
func (d *EventDispatcher) RegisterHandler(name string, handler Handler, eventTypes ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sub := subscription{name: name, handler: handler}
	for _, eventType := range eventTypes {
		d.byType[eventType] = append(d.byType[eventType], sub)
	}
}

// RegisterWildcard subscribes handler to every event type.
func (d *EventDispatcher) RegisterWildcard(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wildcard = append(d.wildcard, subscription{name: name, handler: handler})
}

// HasHandlers reports whether anything would receive an event of the
// given type.
func (d *EventDispatcher) HasHandlers(eventType string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byType[eventType]) > 0 || len(d.wildcard) > 0
}

// Dispatch delivers event to its type subscribers first, then to the
// wildcard subscribers. Handlers run outside the dispatcher lock, so a
// handler may register further handlers without deadlocking.
func (d *EventDispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	eventType := event.EventType()

	d.mu.RLock()
	subs := make([]subscription, 0, len(d.byType[eventType])+len(d.wildcard))
	subs = append(subs, d.byType[eventType]...)
	subs = append(subs, d.wildcard...)
	d.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil {
			wrapped := fmt.Errorf("handler %s failed for event %s: %w", sub.name, eventType, err)
			if !d.ContinueOnError {
				return wrapped
			}
			errs = append(errs, wrapped)
		}
	}
	return errors.Join(errs...)
}
