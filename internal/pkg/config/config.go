// internal/pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Security SecurityConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	TLSEnabled      bool
	TLSCertFile     string
	TLSKeyFile      string
}

// SecurityConfig holds request-level protections
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
	ShopperIDHeader   string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string `required:"true"`
	Port         string `required:"true"`
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	Concurrency     int
	Queues          map[string]int // queue name -> priority
	StrictPriority  bool
	RetryMax        int
	ShutdownTimeout time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Enabled       bool
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	// SecretName, when set, names a Secrets Manager secret whose JSON keys
	// override DB_PASSWORD and REDIS_PASSWORD.
	SecretName string
}

// DatabaseConfig holds the optional catalog database configuration
type DatabaseConfig struct {
	Enabled            bool
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	MigrateOnStart     bool
}

// CatalogConfig holds catalog loading and session settings
type CatalogConfig struct {
	SourceDir      string `required:"true"`
	ConfigFile     string
	CacheEnabled   bool
	CacheTTL       time.Duration
	HTTPTimeout    time.Duration
	HTTPRatePerSec float64
	HTTPMaxRetries int
	SessionTTL     time.Duration
	SearchQuiet    time.Duration
	ShelfDBPath    string `required:"true"`
	// ExportDir receives worker exports when S3 is disabled.
	ExportDir string
	// ExportRetention is how long local exports are kept before pruning.
	ExportRetention time.Duration
	PruneSpec       string
	// RefreshSpec is an asynq cron spec such as "@every 15m"; empty disables
	// scheduled refreshes.
	RefreshSpec string
	Domains     []domain.DomainConfig
}

// Load loads configuration from environment variables and the optional
// catalog YAML file.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	cfg := fromEnv(env)

	domains, err := LoadDomains(cfg.Catalog.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Catalog.Domains = domains

	if cfg.AWS.SecretName != "" {
		sm, err := NewAWSSecretsManager(cfg.AWS.Region, cfg.AWS.SecretName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets manager: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, err
		}
	}

	validators := []Validator{&BasicValidator{}}
	if cfg.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

func fromEnv(env string) *Config {
	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "storefront-catalog"),
			Environment: env,
			Version:     getEnv("APP_VERSION", "dev"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Debug:       getBoolEnv("APP_DEBUG", env == "development"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  getIntEnv("SERVER_MAX_HEADER_BYTES", 1<<20),
			GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			TLSEnabled:      getBoolEnv("TLS_ENABLED", false),
			TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),
		},
		Security: SecurityConfig{
			RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: getDurationEnv("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    getSliceEnv("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     getBoolEnv("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
			ShopperIDHeader:   getEnv("SHOPPER_ID_HEADER", "X-Shopper-ID"),
		},
		Redis: RedisConfig{
			Host:         redisHost,
			Port:         redisPort,
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			MaxRetries:   getIntEnv("REDIS_MAX_RETRIES", 3),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			TTL:          getDurationEnv("REDIS_TTL", time.Hour),
		},
		Asynq: AsynqConfig{
			RedisAddr:       fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         getIntEnv("ASYNQ_REDIS_DB", 0),
			Concurrency:     getIntEnv("ASYNQ_CONCURRENCY", 4),
			Queues:          parseQueues(getEnv("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:  getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:        getIntEnv("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout: getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Enabled:       getBoolEnv("AWS_S3_ENABLED", false),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "storefront-catalogs"),
			S3Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    getBoolEnv("AWS_S3_PATH_STYLE", env == "development"),
			SecretName:      getEnv("AWS_SECRET_NAME", ""),
		},
		Database: DatabaseConfig{
			Enabled:            getBoolEnv("DB_ENABLED", false),
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "storefront"),
			Password:           getEnv("DB_PASSWORD", "storefront_dev"),
			Name:               getEnv("DB_NAME", "storefront_catalog"),
			SSLMode:            getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(getIntEnv("DB_MAX_CONNECTIONS", 10)),
			MinConnections:     int32(getIntEnv("DB_MIN_CONNECTIONS", 1)),
			MaxConnLifetime:    getDurationEnv("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    getDurationEnv("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  getDurationEnv("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: getBoolEnv("DB_QUERY_LOGGING", false),
			MigrateOnStart:     getBoolEnv("DB_MIGRATE_ON_START", env == "development"),
		},
		Catalog: CatalogConfig{
			SourceDir:       getEnv("CATALOG_SOURCE_DIR", "data/catalogs"),
			ConfigFile:      getEnv("CATALOG_CONFIG_FILE", ""),
			CacheEnabled:    getBoolEnv("CATALOG_CACHE_ENABLED", true),
			CacheTTL:        getDurationEnv("CATALOG_CACHE_TTL", 10*time.Minute),
			HTTPTimeout:     getDurationEnv("CATALOG_HTTP_TIMEOUT", 10*time.Second),
			HTTPRatePerSec:  getFloatEnv("CATALOG_HTTP_RATE", 5),
			HTTPMaxRetries:  getIntEnv("CATALOG_HTTP_RETRIES", 3),
			SessionTTL:      getDurationEnv("CATALOG_SESSION_TTL", 30*time.Minute),
			SearchQuiet:     getDurationEnv("CATALOG_SEARCH_QUIET", 300*time.Millisecond),
			ShelfDBPath:     getEnv("CATALOG_SHELF_DB", "data/shelf.db"),
			ExportDir:       getEnv("CATALOG_EXPORT_DIR", "data/exports"),
			ExportRetention: getDurationEnv("CATALOG_EXPORT_RETENTION", 72*time.Hour),
			PruneSpec:       getEnv("CATALOG_PRUNE_SPEC", "@daily"),
			RefreshSpec:     getEnv("CATALOG_REFRESH_SPEC", "@every 15m"),
		},
	}
}

// LoadDomains returns the built-in domains overlaid by the `domains:` list of
// the YAML file at path. An empty path returns the built-ins unchanged.
func LoadDomains(path string) ([]domain.DomainConfig, error) {
	builtin := domain.BuiltinDomains()
	if path == "" {
		return builtin, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog config %s: %w", path, err)
	}

	raw, ok := v.Get("domains").([]interface{})
	if !ok && v.IsSet("domains") {
		return nil, fmt.Errorf("%w: %s: domains must be a list", domain.ErrInvalidConfig, path)
	}
	domains, err := MergeDomains(builtin, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return domains, nil
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRedisAddress returns host:port for go-redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(queuesStr, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
