package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/adapters/driven/config/file"
	redisqueue "github.com/custodia-labs/storesync/internal/adapters/driven/queue/redis"
	"github.com/custodia-labs/storesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storesync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/storesync/internal/adapters/driving/cli"
	"github.com/custodia-labs/storesync/internal/connectors/marketing"
	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/core/services"
	"github.com/custodia-labs/storesync/internal/logger"
)

// EnvAPIEndpoint points the API client at another origin, such as a local mock.
const EnvAPIEndpoint = "STORESYNC_API_ENDPOINT"

// bootstrap loads configuration and returns the runtime the CLI drives.
// The pipeline itself is only assembled when a command opens it.
func bootstrap(opts cli.Options) (*cli.Runtime, error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, err
		}
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)

	return &cli.Runtime{
		Settings: settingsSvc,
		Open: func(ctx context.Context) (*cli.Pipeline, error) {
			return openPipeline(ctx, dir, settingsSvc, opts)
		},
	}, nil
}

func openPipeline(ctx context.Context, dir string, settingsSvc *services.SettingsService, opts cli.Options) (*cli.Pipeline, error) {
	if err := settingsSvc.Validate(); err != nil {
		return nil, err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		settings.Log.Level = opts.LogLevel
	}
	if opts.Concurrency > 0 {
		settings.Sync.Concurrency = opts.Concurrency
	}

	log, err := logger.New(logger.Config{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	closers := []func() error{store.Close}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		_ = log.Sync()
		return errors.Join(errs...)
	}

	lease := services.LeaseTimeout(settings.Sync.PerPage, marketing.DefaultTimeout)
	queue, closeQueue, err := openQueue(ctx, settings.Queue, store, lease)
	if err != nil {
		_ = closeAll()
		return nil, err
	}
	if closeQueue != nil {
		closers = append(closers, closeQueue)
	}

	clientCfg := marketing.ConfigFromSettings(settings.API)
	clientCfg.Endpoint = os.Getenv(EnvAPIEndpoint)
	api := marketing.NewClient(clientCfg, log)

	catalog := store.CatalogStore()
	runs := store.SyncRunStore()
	chain := services.NewChain(queue, log)
	stages := services.NewStageRegistry(services.DefaultStages(api, chain, settings.Store.ListID)...)
	runner := services.NewRunner(stages, catalog, queue, runs, services.RunnerConfig{
		PerPage:     settings.Sync.PerPage,
		MaxAttempts: settings.Sync.MaxAttempts,
	}, log)
	worker := services.NewWorker(queue, runner, services.WorkerConfig{
		Concurrency:  settings.Sync.Concurrency,
		PollInterval: settings.Sync.PollInterval,
	}, log)
	syncOrch := services.NewSyncOrchestrator(api, chain, queue, runs, settings.Store, settings.Sync, log)

	log.Debug("pipeline ready",
		zap.String("store_id", settings.Store.StoreID()),
		zap.String("queue", settings.Queue.Backend.String()),
		zap.Int("concurrency", settings.Sync.Concurrency),
	)

	return &cli.Pipeline{
		Sync:    syncOrch,
		Worker:  worker,
		Queue:   queue,
		API:     api,
		Catalog: catalog,
		NewScheduler: func(interval time.Duration) driving.Scheduler {
			return services.NewScheduler(interval, syncOrch, log)
		},
		Close: closeAll,
		Log:   log,
	}, nil
}

// openQueue returns the configured job queue and, when it holds its own
// connection, a function closing it. Durable queues redeliver a job once it
// has been leased for longer than lease.
func openQueue(ctx context.Context, cfg domain.QueueSettings, store *sqlite.Store, lease time.Duration) (driven.JobQueue, func() error, error) {
	switch cfg.Backend {
	case domain.QueueBackendSQLite:
		store.SetLeaseTimeout(lease)
		return store.JobQueue(), nil, nil
	case domain.QueueBackendMemory:
		return memory.NewJobQueue(), nil, nil
	case domain.QueueBackendRedis:
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		q, err := redisqueue.NewQueue(redisqueue.Config{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			KeyPrefix:    cfg.RedisKeyPrefix,
			LeaseTimeout: lease,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return q, q.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown queue backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}
