package events

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := NewBus(slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, TopicCourses)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	want := ChangeEvent{Entity: "course", Op: OpCreate, ID: 42}
	bus.Publish(TopicCourses, want)

	select {
	case got := <-events:
		if got != want {
			t.Errorf("got event %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusMultipleTopics(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Subscribe(ctx, TopicCourses, TopicSubscriptions)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	bus.Publish(TopicCourses, ChangeEvent{Entity: "course", Op: OpDelete, ID: 1})
	bus.Publish(TopicSubscriptions, ChangeEvent{Entity: "subscription", Op: OpCreate, ID: 7, SecondaryID: 1})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case got := <-events:
			seen[got.Entity] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d events", i)
		}
	}

	if !seen["course"] || !seen["subscription"] {
		t.Errorf("expected events from both topics, got %v", seen)
	}
}

func TestBusSubscribeCancellation(t *testing.T) {
	bus := newTestBus(t)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := bus.Subscribe(ctx, TopicStudents)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	cancel()

	select {
	case _, open := <-events:
		if open {
			t.Error("expected channel to close after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after context cancellation")
	}
}
