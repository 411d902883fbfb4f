package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jhs/backend/internal/tasks"
)

// Producer appends tasks to a Redis stream.
type Producer struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream, maxLen: 10000}
}

func (p *Producer) Enqueue(ctx context.Context, task tasks.Task) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: task.Values(),
	}).Err()
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type, err)
	}
	return nil
}
