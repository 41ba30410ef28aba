package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pitch-perfect/internal/server"
	"github.com/jonathan/pitch-perfect/internal/server/ratelimit"
	"github.com/jonathan/pitch-perfect/internal/workflows"
)

// workflowStore is everything the API and the workflows persist
type workflowStore interface {
	server.Store
	workflows.Store
}

var (
	servePort    int
	serveWorkers bool
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that accepts deck uploads, practice sessions and answers.
Without Redis the server also runs the workers, since jobs are queued in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveWorkers, "workers", false, "Also run job workers in this process (always on without Redis)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if servePort != 0 {
		a.cfg.Port = servePort
	}

	caller, err := a.caller(ctx)
	if err != nil {
		return err
	}
	store, err := a.store(ctx, serveMigrate)
	if err != nil {
		return err
	}
	queue, shared := a.queue()
	svc := workflows.New(store, caller, a.log)

	srv, err := server.New(server.Config{
		Port:      a.cfg.Port,
		UploadDir: a.cfg.UploadDir,
		Store:     store,
		Jobs:      queue,
		Answers:   svc,
		RateLimit: ratelimit.LoadConfig(),
		Log:       a.log,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if serveWorkers || !shared {
		runner, err := a.runner(queue, svc)
		if err != nil {
			return err
		}
		g.Go(func() error { return runner.Run(gctx) })
	}
	g.Go(func() error { return srv.Start(gctx) })
	return g.Wait()
}

// signalContext is used by commands that run until interrupted
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
