// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/storefront-catalog/internal/bootstrap"
	"github.com/ammerola/storefront-catalog/internal/pkg/config"
	"github.com/ammerola/storefront-catalog/internal/pkg/logger"
	"github.com/ammerola/storefront-catalog/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	redisClient, err := bootstrap.NewRedisClient(ctx, cfg)
	if err != nil {
		slogger.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	catalogs, err := bootstrap.OpenCatalogs(ctx, cfg, bootstrap.Options{Redis: redisClient}, slogger)
	if err != nil {
		slogger.Error("failed to initialize catalogs", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer catalogs.Close()

	var sink workers.ExportSink = workers.NewDirSink(cfg.Catalog.ExportDir)
	if catalogs.Objects != nil {
		sink = workers.NewObjectSink(catalogs.Objects)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  exponentialBackoff,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: healthCheck,
			Logger:          newAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()

	refreshProcessor := workers.NewRefreshProcessor(catalogs.Service, catalogs.Cache, slogger)
	mux.HandleFunc(workers.TypeCatalogRefresh, refreshProcessor.ProcessRefresh)

	exportProcessor := workers.NewExportProcessor(catalogs.Service, sink, slogger)
	mux.HandleFunc(workers.TypeCatalogExport, exportProcessor.ProcessExport)

	pruneProcessor := workers.NewPruneProcessor(cfg.Catalog.ExportDir, cfg.Catalog.ExportRetention, slogger)
	mux.HandleFunc(workers.TypeExportPrune, pruneProcessor.ProcessPrune)

	scheduler, err := newScheduler(redisOpt, cfg, catalogs.Objects == nil, slogger)
	if err != nil {
		slogger.Error("failed to register scheduled refreshes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.String("refresh_spec", cfg.Catalog.RefreshSpec))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	if scheduler != nil {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

// newScheduler registers one periodic refresh per domain and, when exports
// land on local disk, the export prune. It returns nil when nothing is
// scheduled.
func newScheduler(redisOpt asynq.RedisClientOpt, cfg *config.Config, localExports bool, logger *slog.Logger) (*asynq.Scheduler, error) {
	prune := localExports && cfg.Catalog.PruneSpec != ""
	if cfg.Catalog.RefreshSpec == "" && !prune {
		return nil, nil
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(logger),
		Location: time.UTC,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Warn("scheduled refresh not enqueued", slog.String("error", err.Error()))
				return
			}
			logger.Debug("scheduled refresh enqueued",
				slog.String("task_id", info.ID),
				slog.String("queue", info.Queue))
		},
	})

	if prune {
		task, err := workers.NewPruneTask(workers.PrunePayload{})
		if err != nil {
			return nil, err
		}
		if _, err := scheduler.Register(cfg.Catalog.PruneSpec, task); err != nil {
			return nil, fmt.Errorf("failed to schedule export prune: %w", err)
		}
		logger.Info("export prune scheduled", slog.String("spec", cfg.Catalog.PruneSpec))
	}

	if cfg.Catalog.RefreshSpec == "" {
		return scheduler, nil
	}
	for _, d := range cfg.Catalog.Domains {
		task, err := workers.NewRefreshTask(d.Name)
		if err != nil {
			return nil, err
		}
		entryID, err := scheduler.Register(cfg.Catalog.RefreshSpec, task, asynq.Queue(workers.QueueLow))
		if err != nil {
			return nil, fmt.Errorf("failed to schedule %s refresh: %w", d.Name, err)
		}
		logger.Info("catalog refresh scheduled",
			slog.String("domain", d.Name),
			slog.String("entry_id", entryID))
	}
	return scheduler, nil
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
