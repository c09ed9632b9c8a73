package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const EventProjectCreated = "project.created"

// ProjectCreatedEvent is pushed for every accepted submission.
type ProjectCreatedEvent struct {
	Type        string    `json:"type"`
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	CreatorName string    `json:"creator_name"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Publisher interface {
	PublishProjectCreated(ctx context.Context, event ProjectCreatedEvent) error
}

// NopPublisher drops events. It is used when no redis address is configured.
type NopPublisher struct{}

func (NopPublisher) PublishProjectCreated(context.Context, ProjectCreatedEvent) error { return nil }

// ListPusher is the part of the redis client the publisher needs.
type ListPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisPublisher pushes JSON events onto a redis list; consumers BRPOP from the other end.
type RedisPublisher struct {
	rdb       ListPusher
	queueName string
}

func NewRedisPublisher(rdb ListPusher, queueName string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, queueName: queueName}
}

func (p *RedisPublisher) PublishProjectCreated(ctx context.Context, event ProjectCreatedEvent) error {
	event.Type = EventProjectCreated
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	if err := p.rdb.LPush(ctx, p.queueName, payload).Err(); err != nil {
		return fmt.Errorf("push %s event for project %d: %w", event.Type, event.ProjectID, err)
	}
	return nil
}
