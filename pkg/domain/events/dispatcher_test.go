package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workintel/workintel/pkg/domain/events"
)

func testEvent(eventType, aggregateID string) events.BaseEvent {
	return events.BaseEvent{
		ID:             "evt-1",
		Type:           eventType,
		AggregateID_:   aggregateID,
		AggregateType_: "todo",
		Timestamp:      time.Now(),
	}
}

func TestDispatchRoutesByEventType(t *testing.T) {
	d := events.NewEventDispatcher()

	var matched, other int
	d.RegisterHandler("matched", func(ctx context.Context, e events.DomainEvent) error {
		matched++
		return nil
	}, events.EventTypeTodoTransitioned)
	d.RegisterHandler("other", func(ctx context.Context, e events.DomainEvent) error {
		other++
		return nil
	}, events.EventTypeTodoDelayed)

	if err := d.Dispatch(context.Background(), testEvent(events.EventTypeTodoTransitioned, "todo-1")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if matched != 1 || other != 0 {
		t.Errorf("matched=%d other=%d", matched, other)
	}
}

func TestDispatchWildcardSeesEverything(t *testing.T) {
	d := events.NewEventDispatcher()

	var seen []string
	d.RegisterWildcard("audit", func(ctx context.Context, e events.DomainEvent) error {
		seen = append(seen, e.EventType())
		return nil
	})

	_ = d.Dispatch(context.Background(), testEvent(events.EventTypeTodoTransitioned, "todo-1"))
	_ = d.Dispatch(context.Background(), testEvent(events.EventTypeTodoDelayed, "todo-2"))

	if len(seen) != 2 {
		t.Errorf("wildcard saw %v", seen)
	}
}

func TestDispatchStopsOnFirstError(t *testing.T) {
	d := events.NewEventDispatcher()

	var secondRan bool
	d.RegisterHandler("failing", func(ctx context.Context, e events.DomainEvent) error {
		return errors.New("boom")
	}, "t")
	d.RegisterHandler("after", func(ctx context.Context, e events.DomainEvent) error {
		secondRan = true
		return nil
	}, "t")

	err := d.Dispatch(context.Background(), testEvent("t", "todo-1"))
	if err == nil {
		t.Fatal("expected the handler error")
	}
	if secondRan {
		t.Error("expected dispatch to stop at the first error")
	}
}

func TestDispatchContinueOnError(t *testing.T) {
	d := events.NewEventDispatcher()
	d.ContinueOnError = true

	var secondRan bool
	sentinel := errors.New("boom")
	d.RegisterHandler("failing", func(ctx context.Context, e events.DomainEvent) error {
		return sentinel
	}, "t")
	d.RegisterHandler("after", func(ctx context.Context, e events.DomainEvent) error {
		secondRan = true
		return nil
	}, "t")

	err := d.Dispatch(context.Background(), testEvent("t", "todo-1"))

	// 1. Every handler ran despite the failure.
	if !secondRan {
		t.Error("expected all handlers to run")
	}

	// 2. The joined error still unwraps to the original.
	if !errors.Is(err, sentinel) {
		t.Errorf("expected errors.Is to reach the handler error, got %v", err)
	}
}

func TestDispatchNoHandlers(t *testing.T) {
	d := events.NewEventDispatcher()
	if err := d.Dispatch(context.Background(), testEvent("t", "todo-1")); err != nil {
		t.Errorf("expected nil for unhandled event, got %v", err)
	}
}

func TestHasHandlers(t *testing.T) {
	d := events.NewEventDispatcher()
	noop := func(ctx context.Context, e events.DomainEvent) error { return nil }

	if d.HasHandlers("t") {
		t.Error("expected no handlers initially")
	}

	d.RegisterHandler("specific", noop, "t")
	if !d.HasHandlers("t") || d.HasHandlers("unregistered") {
		t.Error("expected only the registered type to have handlers")
	}

	d.RegisterWildcard("wild", noop)
	if !d.HasHandlers("unregistered") {
		t.Error("expected the wildcard to cover every type")
	}
}

func TestHandlersMayRegisterDuringDispatch(t *testing.T) {
	d := events.NewEventDispatcher()

	var lateRan bool
	d.RegisterHandler("registrar", func(ctx context.Context, e events.DomainEvent) error {
		d.RegisterHandler("late", func(ctx context.Context, e events.DomainEvent) error {
			lateRan = true
			return nil
		}, "t")
		return nil
	}, "t")

	if err := d.Dispatch(context.Background(), testEvent("t", "todo-1")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if lateRan {
		t.Error("handler registered mid-dispatch should only see later events")
	}

	if err := d.Dispatch(context.Background(), testEvent("t", "todo-2")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !lateRan {
		t.Error("expected the late handler to receive the second event")
	}
}
