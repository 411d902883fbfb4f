package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TypePurgeResetTokens = "purge_reset_tokens"
	TypePurgeSessions    = "purge_sessions"
)

// Task is a housekeeping job carried on the jobs stream.
type Task struct {
	Type        string
	RequestedAt time.Time
}

func New(taskType string) Task {
	return Task{Type: taskType, RequestedAt: time.Now().UTC()}
}

// Values encodes t as stream fields.
func (t Task) Values() map[string]any {
	return map[string]any{
		"type":        t.Type,
		"requestedAt": t.RequestedAt.Format(time.RFC3339Nano),
	}
}

// Decode reads a Task back from stream fields.
func Decode(values map[string]any) (Task, error) {
	taskType, _ := values["type"].(string)
	if taskType == "" {
		return Task{}, fmt.Errorf("task type missing")
	}
	task := Task{Type: taskType}
	if raw, ok := values["requestedAt"].(string); ok && raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return Task{}, fmt.Errorf("parse requestedAt: %w", err)
		}
		task.RequestedAt = ts
	}
	return task, nil
}

type ResetTokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type Processor struct {
	resets   ResetTokenPurger
	sessions SessionPurger
	logger   zerolog.Logger
}

func NewProcessor(resets ResetTokenPurger, sessions SessionPurger, logger zerolog.Logger) *Processor {
	return &Processor{
		resets:   resets,
		sessions: sessions,
		logger:   logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := Decode(msg.Values)
	if err != nil {
		// unreadable messages are acked and dropped
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("discarding malformed task")
		return nil
	}

	switch task.Type {
	case TypePurgeResetTokens:
		return p.purge(ctx, task, p.resets.PurgeExpired)
	case TypePurgeSessions:
		return p.purge(ctx, task, p.sessions.PurgeExpiredSessions)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) purge(ctx context.Context, task Task, fn func(context.Context) (int64, error)) error {
	removed, err := fn(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", task.Type, err)
	}
	p.logger.Info().
		Str("type", task.Type).
		Int64("removed", removed).
		Time("requested_at", task.RequestedAt).
		Msg("task completed")
	return nil
}
