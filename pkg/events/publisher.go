// Package events publishes account domain events to a Redis Stream.
// Subscribers (notification senders, audit trails) consume the stream
// independently; publishing is fire-and-forget from the caller's side.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/payserv/payment-accounts/pkg/domain"
)

// DefaultStream is the stream account events are published to.
const DefaultStream = "account.events"

// Envelope wraps a domain event with its type and publish time.
type Envelope struct {
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Data      domain.Event `json:"data"`
}

// Publisher publishes domain events to a Redis Stream.
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher creates a new publisher. An empty stream name selects
// DefaultStream.
func NewPublisher(client *redis.Client, stream string) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream}
}

// Publish appends the event to the stream.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(Envelope{
		Type:      event.Type(),
		Timestamp: time.Now().UTC(),
		Data:      event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{"event": payload},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
