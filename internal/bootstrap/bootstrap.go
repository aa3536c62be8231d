// internal/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/storefront-catalog/internal/adapters/boltstore"
	"github.com/ammerola/storefront-catalog/internal/adapters/db"
	redis_a "github.com/ammerola/storefront-catalog/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront-catalog/internal/adapters/source"
	"github.com/ammerola/storefront-catalog/internal/adapters/storage"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/internal/pkg/config"
)

// Options selects the optional parts of the catalog stack.
type Options struct {
	// Redis, when set, backs the raw payload cache.
	Redis *redis.Client
	// Shelf opens the bbolt cart and wishlist store.
	Shelf bool
}

// Catalogs is the catalog stack shared by the binaries.
type Catalogs struct {
	Store    *services.CatalogStore
	Service  *services.CatalogService
	Shelf    *services.ShelfService
	Shelves  *boltstore.ShelfStore
	Cache    *redis_a.Cache
	Database *db.Database
	Objects  *storage.S3Storage

	logger *slog.Logger
}

// NewRedisClient connects to the configured Redis and pings it.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// DatabaseConfig maps the application settings onto the pool settings.
func DatabaseConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
}

// RunMigrations applies the embedded catalog schema.
func RunMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")
	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: DatabaseConfig(cfg).URL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}, logger, 3)
}

// S3Config maps the application settings onto the storage settings.
func S3Config(cfg *config.Config) *storage.S3Config {
	return &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}
}

// OpenCatalogs builds the source router, cache, loader, store and services.
// file:// is always routed; http(s):// always; s3:// and postgres:// only
// when enabled in the configuration.
func OpenCatalogs(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*Catalogs, error) {
	c := &Catalogs{logger: logger}

	router := source.NewRouter(logger).
		Register(source.NewFileSource(cfg.Catalog.SourceDir), source.SchemeFile).
		Register(source.NewHTTPSource(source.HTTPConfig{
			Timeout:    cfg.Catalog.HTTPTimeout,
			RatePerSec: cfg.Catalog.HTTPRatePerSec,
			MaxRetries: cfg.Catalog.HTTPMaxRetries,
			UserAgent:  cfg.App.Name + "/" + cfg.App.Version,
		}, logger), source.SchemeHTTP, source.SchemeHTTPS)

	if cfg.AWS.S3Enabled {
		objects, err := storage.NewS3Storage(ctx, S3Config(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Objects = objects
		router.Register(source.NewS3Source(objects), source.SchemeS3)
	}

	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name))
		database, err := db.NewDatabase(ctx, DatabaseConfig(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.Database = database
		router.Register(source.NewPostgresSource(database, "", logger), source.SchemePostgres)
	}

	var src ports.CatalogSource = router
	cached := false
	if opts.Redis != nil {
		c.Cache = redis_a.NewCache(opts.Redis, cfg.Redis.TTL, logger)
		if cfg.Catalog.CacheEnabled {
			src = redis_a.NewCachedSource(router, c.Cache, cfg.Catalog.CacheTTL, logger)
			cached = true
		}
	}

	loader := services.NewCatalogLoader(src, logger, services.WithSeeds(services.EmbeddedSeed))
	store, err := services.NewCatalogStore(loader, cfg.Catalog.Domains, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	var shelf ports.ShelfListener
	if opts.Shelf {
		shelves, err := boltstore.Open(cfg.Catalog.ShelfDBPath)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Shelves = shelves
		c.Shelf = services.NewShelfService(shelves, logger)
		shelf = c.Shelf
	}
	c.Service = services.NewCatalogService(store, shelf, logger)

	logger.Info("catalog stack initialized",
		slog.Int("domains", len(cfg.Catalog.Domains)),
		slog.Any("schemes", router.Schemes()),
		slog.Bool("payload_cache", cached),
		slog.Bool("shelf", opts.Shelf))

	return c, nil
}

// Warm loads every domain concurrently. Failures are logged; the store
// retries a never-loaded domain on its next query.
func (c *Catalogs) Warm(ctx context.Context) []services.CatalogStatus {
	var wg sync.WaitGroup
	for _, cfg := range c.Store.Domains() {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := c.Store.Ensure(ctx, name); err != nil {
				c.logger.WarnContext(ctx, "catalog warm-up failed",
					slog.String("domain", name),
					slog.String("error", err.Error()))
			}
		}(cfg.Name)
	}
	wg.Wait()
	return c.Store.Status()
}

// Close releases the shelf store and database pool.
func (c *Catalogs) Close() {
	if c.Shelves != nil {
		if err := c.Shelves.Close(); err != nil {
			c.logger.Error("failed to close shelf store", slog.String("error", err.Error()))
		}
	}
	if c.Database != nil {
		c.Database.Close()
	}
}

// HealthDatabase returns the database as a ports.Database, or a nil interface
// when none is configured.
func (c *Catalogs) HealthDatabase() ports.Database {
	if c.Database == nil {
		return nil
	}
	return c.Database
}
