package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"jhs/backend/internal/tasks"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}

// Schedule maps cron specs (with seconds) to the task they enqueue.
var Schedule = map[string]string{
	tasks.TypePurgeResetTokens: "0 */10 * * * *",
	tasks.TypePurgeSessions:    "0 0 * * * *",
}

type Scheduler struct {
	cron  *cron.Cron
	queue Enqueuer
	log   zerolog.Logger
}

func NewScheduler(queue Enqueuer, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	for taskType, spec := range Schedule {
		taskType := taskType
		if _, err := s.cron.AddFunc(spec, func() { s.enqueue(taskType) }); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Info().Int("jobs", len(Schedule)).Msg("scheduler started")
	return nil
}

// Stop halts the schedule and waits up to five seconds for a running enqueue.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueue(taskType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Enqueue(ctx, tasks.New(taskType)); err != nil {
		s.log.Error().Err(err).Str("type", taskType).Msg("enqueue task failed")
		return
	}
	s.log.Debug().Str("type", taskType).Msg("task enqueued")
}
