package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Schedule and run the purge jobs",
	Long: `Run the cron scheduler and the Redis stream consumer that purge expired
password reset tokens and admin sessions. Use it with jobs.inprocess=false on
the API instances.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		resets, auth := newPurgers(a, a.repositories())
		stopJobs, err := a.startJobs(ctx, resets, auth)
		if err != nil {
			return err
		}

		a.log.Info().Str("stream", a.cfg.Jobs.Stream).Msg("worker started")
		<-ctx.Done()
		a.log.Info().Msg("shutdown signal received")
		stopJobs()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
