package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jhs/backend/internal/cache"
	"jhs/backend/internal/handlers"
	"jhs/backend/internal/server"
	"jhs/backend/internal/service"
	"jhs/backend/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the public and admin HTTP API. Unless jobs.inprocess is false the
purge jobs are scheduled and consumed in the same process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.log
	if a.cfg.Security.JWTAccessSecret == "" {
		return errors.New("security.jwtaccesssecret is required")
	}

	images, err := storage.New(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}

	repos := a.repositories()
	sender := a.mailSender(ctx)
	contentCache := cache.NewContentCache(a.redis, a.cfg.Cache.Prefix, a.cfg.Cache.ContentTTL)

	authSvc := service.NewAuthService(repos.users, repos.sessions, a.cfg, logger)
	userSvc := service.NewUserService(repos.users, a.cfg, logger)
	resetSvc := service.NewPasswordResetService(repos.users, repos.resets, sender, a.cfg, logger)

	if err := service.Bootstrap(ctx, userSvc, repos.siteConfig, a.cfg, logger); err != nil {
		return err
	}

	handlerSet := handlers.NewHandlerSet(logger, a.cfg, handlers.Dependencies{
		Auth:      authSvc,
		Users:     userSvc,
		Resets:    resetSvc,
		Inquiries: service.NewInquiryService(repos.inquiries, sender, a.cfg, logger),
		Content:   service.NewContentService(repos.services, repos.projects, repos.siteConfig, contentCache, logger),
		Dashboard: service.NewDashboardService(repos.inquiries, repos.projects, repos.services),
		Uploads:   service.NewUploadService(images, a.cfg, logger),
		Limiter:   cache.NewWindowCounter(a.redis),
		Checks: []handlers.HealthCheck{
			{Name: "database", Check: a.pool.Ping},
			{Name: "cache", Check: cache.Ping(a.redis)},
			{Name: "storage", Check: images.Ping},
		},
	})
	httpServer := server.NewHTTPServer(a.cfg, logger, handlerSet)

	stopJobs := func() {}
	if a.cfg.Jobs.InProcess {
		stopJobs, err = a.startJobs(ctx, resetSvc, authSvc)
		if err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Start()
	}()

	select {
	case err = <-serveErr:
		logger.Error().Err(err).Msg("http server failed")
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error().Err(shutdownErr).Msg("graceful shutdown failed")
	}
	stopJobs()

	logger.Info().Msg("server exited")
	return err
}
