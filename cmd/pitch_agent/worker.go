package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jonathan/pitch-perfect/internal/workflows"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run workflow workers against the shared Redis queue",
	Long:  "Run deck analysis, session analysis and question generation jobs queued by the API server. Requires REDIS_ADDR and DATABASE_URL.",
	RunE:  runWorker,
}

var workerConcurrency int

func init() {
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of concurrent workers (defaults to WORKER_CONCURRENCY)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if workerConcurrency > 0 {
		a.cfg.WorkerConcurrency = workerConcurrency
	}
	if a.redis == nil {
		return errors.New("worker requires REDIS_ADDR: an in-memory queue cannot receive jobs from the server")
	}
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}

	caller, err := a.caller(ctx)
	if err != nil {
		return err
	}
	store, err := a.store(ctx, false)
	if err != nil {
		return err
	}
	queue, _ := a.queue()
	runner, err := a.runner(queue, workflows.New(store, caller, a.log))
	if err != nil {
		return err
	}

	a.log.Info("worker started", "queue", a.cfg.QueueName, "concurrency", a.cfg.WorkerConcurrency)
	return runner.Run(ctx)
}
