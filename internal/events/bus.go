package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Topics carrying change notifications, one per mutable table.
const (
	TopicCourses       = "courses.changed"
	TopicSubscriptions = "subscriptions.changed"
	TopicStudents      = "students.changed"
	TopicUsers         = "users.changed"
)

// Operation describes what happened to an entity.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// ChangeEvent is published whenever a row in one of the watched tables
// changes. Subscribers recompute their derived views from the database; the
// event carries identity only, not the changed data.
type ChangeEvent struct {
	Entity string    `json:"entity"`
	Op     Operation `json:"op"`
	ID     int       `json:"id"`
	// SecondaryID is set for subscription events (the course ID, with ID
	// holding the student ID).
	SecondaryID int `json:"secondary_id,omitempty"`
}

// Bus is the in-process publish/subscribe fabric for table change events.
// Every subscriber receives every message published on a topic.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus creates an in-memory event bus.
func NewBus(logger *slog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 64,
		},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{pubsub: pubsub, logger: logger}
}

// Publish sends a change event on the given topic. Publish failures are
// logged, not propagated; a missed notification only delays a view refresh.
func (b *Bus) Publish(topic string, event ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to marshal change event", "error", err, "topic", topic)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.logger.Error("failed to publish change event",
			"error", err,
			"topic", topic,
			"entity", event.Entity,
			"op", event.Op)
	}
}

// Subscribe returns a channel of decoded change events for the given topics.
// The channel closes when ctx is cancelled. Undecodable messages are acked
// and dropped.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) (<-chan ChangeEvent, error) {
	out := make(chan ChangeEvent, 16)

	var wg sync.WaitGroup
	for _, topic := range topics {
		messages, err := b.pubsub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		wg.Add(1)
		go func(topic string, messages <-chan *message.Message) {
			defer wg.Done()
			for msg := range messages {
				var event ChangeEvent
				if err := json.Unmarshal(msg.Payload, &event); err != nil {
					b.logger.Error("failed to decode change event",
						"error", err,
						"topic", topic)
					msg.Ack()
					continue
				}
				msg.Ack()

				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}(topic, messages)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
