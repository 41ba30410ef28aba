package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/pitch-perfect/internal/config"
	"github.com/jonathan/pitch-perfect/internal/db"
	"github.com/jonathan/pitch-perfect/internal/jobs"
	"github.com/jonathan/pitch-perfect/internal/llm"
	"github.com/jonathan/pitch-perfect/internal/logger"
	"github.com/jonathan/pitch-perfect/internal/memstore"
	"github.com/jonathan/pitch-perfect/internal/orchestrator"
	"github.com/jonathan/pitch-perfect/internal/throttle"
	"github.com/jonathan/pitch-perfect/internal/workflows"
)

// memoryQueueSize bounds jobs waiting in a single-process deployment
const memoryQueueSize = 256

// app holds the shared dependencies of a command. close releases them in reverse order.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *goredis.Client
	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, log.Sync)

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.RedisAddr,
			DialTimeout: 5 * time.Second,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			a.close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		a.redis = rdb
		a.closers = append(a.closers, func() { _ = rdb.Close() })
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// caller builds the orchestrator every AI call site goes through. With Redis
// the inter-call delay is shared by every process using the same API key.
func (a *app) caller(ctx context.Context) (*orchestrator.Orchestrator, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), a.cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	policy := orchestrator.RetryPolicy{
		MaxAttempts: a.cfg.AIMaxAttempts,
		CallDelay:   a.cfg.AICallDelay.Std(),
		BaseWait:    a.cfg.AIBaseWait.Std(),
		StepWait:    a.cfg.AIStepWait.Std(),
	}
	var limiter throttle.Throttle = throttle.NewFixed(policy.CallDelay)
	if a.redis != nil {
		limiter = throttle.NewRedis(a.redis, policy.CallDelay, a.log)
	}

	return orchestrator.New(orchestrator.Config{
		Client:   client,
		Policy:   policy,
		Throttle: limiter,
		Logger:   a.log,
	})
}

// store opens PostgreSQL, or an in-memory store when no database is configured
func (a *app) store(ctx context.Context, migrate bool) (workflowStore, error) {
	if a.cfg.DatabaseURL == "" {
		a.log.Warn("DATABASE_URL not set, records are kept in memory only")
		return memstore.New(), nil
	}
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, database.Close)
	if migrate {
		if err := database.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return database, nil
}

// queue returns the Redis queue when Redis is configured, else an in-process one
func (a *app) queue() (jobs.Queue, bool) {
	if a.redis != nil {
		return jobs.NewRedisQueue(a.redis, a.cfg.QueueName), true
	}
	q := jobs.NewMemoryQueue(memoryQueueSize)
	a.closers = append(a.closers, q.Close)
	return q, false
}

// runner binds the workflows to a worker pool reading queue
func (a *app) runner(queue jobs.Queue, svc *workflows.Service) (*jobs.Runner, error) {
	runner := jobs.NewRunner(queue, a.cfg.WorkerConcurrency, a.log)
	if err := svc.Register(runner); err != nil {
		return nil, err
	}
	return runner, nil
}
