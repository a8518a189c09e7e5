package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/iho/partybook/internal/domain"
)

// RedisPublisher implements Publisher over Redis pub/sub. Events are published
// to one channel per event type: "<prefix><event_type>".
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		prefix: "events:",
	}
}

// Publish delivers the event as a JSON payload.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.prefix+event.EventType, payload).Err()
}
