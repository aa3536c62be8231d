// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront-catalog/internal/bootstrap"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/internal/handlers"
	"github.com/ammerola/storefront-catalog/internal/handlers/middleware"
	"github.com/ammerola/storefront-catalog/internal/pkg/config"
	"github.com/ammerola/storefront-catalog/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting storefront catalog api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.Int("domains", len(cfg.Catalog.Domains)),
	)

	ctx := context.Background()

	if cfg.Database.Enabled && cfg.Database.MigrateOnStart {
		if err := bootstrap.RunMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			if cfg.IsProduction() {
				os.Exit(1)
			}
		}
	}

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Warm the catalogs without holding up the listener; queries for a domain
	// still loading share its in-flight fetch.
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		for _, st := range deps.catalogs.Warm(warmCtx) {
			slogger.Info("catalog ready",
				slog.String("domain", st.Domain),
				slog.Bool("loaded", st.Loaded),
				slog.Bool("degraded", st.Degraded),
				slog.Int("items", st.Items))
		}
	}()

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	catalogs       *bootstrap.Catalogs
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	catalogHandler *handlers.CatalogHandler
	sessionHandler *handlers.SessionHandler
	shelfHandler   *handlers.ShelfHandler
	exportHandler  *handlers.ExportHandler
	jobsHandler    *handlers.JobsHandler
	healthHandler  *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.catalogs != nil {
		d.catalogs.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)
	redisClient, err := bootstrap.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.redisClient = redisClient

	catalogs, err := bootstrap.OpenCatalogs(ctx, cfg, bootstrap.Options{Redis: redisClient, Shelf: true}, logger)
	if err != nil {
		deps.cleanup()
		return nil, err
	}
	deps.catalogs = catalogs

	logger.Info("initializing Asynq client")
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	sessions := services.NewSessionService(catalogs.Store, catalogs.Cache, catalogs.Shelf, cfg.Catalog.SessionTTL, logger)

	deps.catalogHandler = handlers.NewCatalogHandler(catalogs.Service, logger)
	deps.sessionHandler = handlers.NewSessionHandler(sessions, logger)
	deps.shelfHandler = handlers.NewShelfHandler(catalogs.Service, catalogs.Shelf, cfg.Security.ShopperIDHeader, logger)
	deps.exportHandler = handlers.NewExportHandler(catalogs.Service, logger)
	deps.jobsHandler = handlers.NewJobsHandler(catalogs.Service, deps.asynqClient, deps.asynqInspector, logger)
	deps.healthHandler = handlers.NewHealthHandler(
		catalogs.Store,
		redisClient,
		catalogs.HealthDatabase(),
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	// Listed outermost first.
	mws := []func(http.Handler) http.Handler{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger, cfg.Security.ShopperIDHeader),
		middleware.Recovery(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws, middleware.Compression)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Stateless catalog queries
	mux.HandleFunc("GET "+apiV1+"/domains", deps.catalogHandler.ListDomains)
	mux.HandleFunc("GET "+apiV1+"/catalogs/{domain}/items", deps.catalogHandler.ListItems)
	mux.HandleFunc("GET "+apiV1+"/catalogs/{domain}/options", deps.catalogHandler.Options)
	mux.HandleFunc("POST "+apiV1+"/catalogs/{domain}/reload", deps.catalogHandler.Reload)
	mux.HandleFunc("GET "+apiV1+"/catalogs/{domain}/export", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/catalogs/{domain}/export.xlsx", deps.exportHandler.ExportExcel)

	// Browsing sessions
	mux.HandleFunc("POST "+apiV1+"/sessions", deps.sessionHandler.CreateSession)
	mux.HandleFunc("GET "+apiV1+"/sessions/{id}", deps.sessionHandler.GetSession)
	mux.HandleFunc("DELETE "+apiV1+"/sessions/{id}", deps.sessionHandler.DeleteSession)
	mux.HandleFunc("PUT "+apiV1+"/sessions/{id}/query", deps.sessionHandler.ApplyQuery)
	mux.HandleFunc("DELETE "+apiV1+"/sessions/{id}/query", deps.sessionHandler.ClearFilters)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/page", deps.sessionHandler.RequestPage)
	mux.HandleFunc("PUT "+apiV1+"/sessions/{id}/view", deps.sessionHandler.SetView)
	mux.HandleFunc("POST "+apiV1+"/sessions/{id}/retry", deps.sessionHandler.Retry)

	// Cart and wishlist
	mux.HandleFunc("GET "+apiV1+"/shelf/{shelf}", deps.shelfHandler.ListShelf)
	mux.HandleFunc("POST "+apiV1+"/shelf/{shelf}", deps.shelfHandler.AddItem)
	mux.HandleFunc("DELETE "+apiV1+"/shelf/{shelf}", deps.shelfHandler.ClearShelf)
	mux.HandleFunc("DELETE "+apiV1+"/shelf/{shelf}/{domain}/{item}", deps.shelfHandler.RemoveItem)

	// Background jobs
	mux.HandleFunc("POST "+apiV1+"/jobs/refresh/{domain}", deps.jobsHandler.QueueRefresh)
	mux.HandleFunc("POST "+apiV1+"/jobs/export/{domain}", deps.jobsHandler.QueueExport)
	mux.HandleFunc("GET "+apiV1+"/jobs/{queue}/{id}", deps.jobsHandler.JobStatus)
}
