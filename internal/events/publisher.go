// Package events delivers booking state changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "booking-events"

// RedisPublisher publishes booking events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *RedisPublisher) Channel() string {
	return p.channel
}

func (p *RedisPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	err = p.client.Publish(ctx, p.channel, payload).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event for booking %s: %w", event.Type, event.BookingID, err)
	}

	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.BookingEvent) error {
	return nil
}
