// Package notify fans audit log entries out to external subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"quicksort/backend/app/dto"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	PublishLog(ctx context.Context, entry dto.LogEntry) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishLog(context.Context, dto.LogEntry) error { return nil }

// LogEvent is the JSON message published for each audit entry.
type LogEvent struct {
	Type  string       `json:"type"`
	Entry dto.LogEntry `json:"entry"`
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) PublishLog(ctx context.Context, entry dto.LogEntry) error {
	payload, err := json.Marshal(LogEvent{Type: "file_log", Entry: entry})
	if err != nil {
		return fmt.Errorf("encode log event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}
