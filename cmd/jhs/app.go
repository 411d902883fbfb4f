package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jhs/backend/internal/cache"
	"jhs/backend/internal/config"
	"jhs/backend/internal/database"
	"jhs/backend/internal/jobs"
	"jhs/backend/internal/log"
	"jhs/backend/internal/mail"
	"jhs/backend/internal/queue"
	"jhs/backend/internal/repository"
	"jhs/backend/internal/service"
	"jhs/backend/internal/tasks"
)

// app holds the connections shared by the serve and worker commands.
type app struct {
	cfg   *config.AppConfig
	log   zerolog.Logger
	pool  *pgxpool.Pool
	redis *redis.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := log.New(cfg.Environment)

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &app{cfg: cfg, log: logger, pool: pool, redis: redisClient}, nil
}

func (a *app) Close() {
	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.log.Error().Err(err).Msg("redis close error")
	}
}

func (a *app) mailSender(ctx context.Context) mail.Sender {
	if a.cfg.Mail.Host == "" {
		a.log.Warn().Msg("mail.host not set, outgoing mail is only logged")
		return mail.NewLogSender(a.log)
	}
	sender, err := mail.NewSMTPSender(a.cfg.Mail)
	if err != nil {
		a.log.Error().Err(err).Msg("smtp sender init failed, outgoing mail is only logged")
		return mail.NewLogSender(a.log)
	}
	if err := sender.Verify(ctx); err != nil {
		a.log.Warn().Err(err).Str("host", a.cfg.Mail.Host).Msg("smtp relay not reachable")
	}
	return sender
}

type repositories struct {
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	resets     *repository.ResetTokenRepository
	inquiries  *repository.InquiryRepository
	services   *repository.ServiceRepository
	projects   *repository.ProjectRepository
	siteConfig *repository.SiteConfigRepository
}

func (a *app) repositories() repositories {
	return repositories{
		users:      repository.NewUserRepository(a.pool),
		sessions:   repository.NewSessionRepository(a.pool),
		resets:     repository.NewResetTokenRepository(a.pool),
		inquiries:  repository.NewInquiryRepository(a.pool),
		services:   repository.NewServiceRepository(a.pool),
		projects:   repository.NewProjectRepository(a.pool),
		siteConfig: repository.NewSiteConfigRepository(a.pool),
	}
}

func (a *app) consumerConfig() queue.ConsumerConfig {
	return queue.ConsumerConfig{
		Stream:        a.cfg.Jobs.Stream,
		Group:         a.cfg.Jobs.Group,
		Consumer:      a.cfg.Jobs.Consumer,
		ClaimInterval: a.cfg.Jobs.ClaimInterval,
	}
}

// startJobs starts the cron scheduler and a stream consumer running the
// purge tasks. The returned func stops both and waits for the consumer.
func (a *app) startJobs(ctx context.Context, resets tasks.ResetTokenPurger, sessions tasks.SessionPurger) (func(), error) {
	processor := tasks.NewProcessor(resets, sessions, a.log)
	consumer := queue.NewConsumer(a.redis, a.consumerConfig(), a.log, processor)
	if err := consumer.EnsureGroup(ctx); err != nil {
		return nil, err
	}

	scheduler := jobs.NewScheduler(queue.NewProducer(a.redis, a.cfg.Jobs.Stream), a.log)
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}

	consumerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Run(consumerCtx); err != nil {
			a.log.Error().Err(err).Msg("job consumer stopped")
		}
	}()

	return func() {
		scheduler.Stop()
		cancel()
		<-done
	}, nil
}

func newPurgers(a *app, repos repositories) (*service.PasswordResetService, *service.AuthService) {
	// purging never sends mail
	resets := service.NewPasswordResetService(repos.users, repos.resets, mail.NewLogSender(a.log), a.cfg, a.log)
	auth := service.NewAuthService(repos.users, repos.sessions, a.cfg, a.log)
	return resets, auth
}
