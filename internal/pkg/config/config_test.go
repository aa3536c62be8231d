// internal/pkg/config/config_test.go
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/test/helpers"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func findDomain(t *testing.T, domains []domain.DomainConfig, name string) domain.DomainConfig {
	t.Helper()
	for _, d := range domains {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("domain %q not found", name)
	return domain.DomainConfig{}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_SOURCE_DIR", "/srv/catalogs")
	t.Setenv("CATALOG_SESSION_TTL", "5m")
	t.Setenv("ASYNQ_QUEUES", "default:2,low:1")

	cfg, err := Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "storefront-catalog", cfg.App.Name)
	assert.Equal(t, "/srv/catalogs", cfg.Catalog.SourceDir)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.SessionTTL)
	assert.Equal(t, map[string]int{"default": 2, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddress())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.Len(t, cfg.Catalog.Domains, len(domain.BuiltinDomains()))
	assert.False(t, cfg.Database.Enabled)
}

func TestLoad_RejectsBadRefreshSpec(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CATALOG_REFRESH_SPEC", "whenever")

	_, err := Load(helpers.TestLogger())
	assert.ErrorContains(t, err, "refresh spec")
}

func TestLoadDomains(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(t *testing.T, domains []domain.DomainConfig)
		wantErr error
	}{
		{
			name: "overrides_only_given_keys",
			yaml: `
domains:
  - name: books
    source_ref: https://cdn.example.com/books.json
    page_sizes:
      grid: 24
    wide_pagination: true
`,
			check: func(t *testing.T, domains []domain.DomainConfig) {
				books := findDomain(t, domains, "books")
				assert.Equal(t, "https://cdn.example.com/books.json", books.SourceRef)
				assert.Equal(t, 24, books.PageSizes.Grid)
				assert.Equal(t, 6, books.PageSizes.List)
				assert.True(t, books.WidePagination)
				assert.Equal(t, "Author", books.CreatorLabel)
			},
		},
		{
			name: "lists_replace",
			yaml: `
domains:
  - name: books
    filters: [category]
    price_buckets: ["0-99", "100+"]
`,
			check: func(t *testing.T, domains []domain.DomainConfig) {
				books := findDomain(t, domains, "books")
				assert.Equal(t, []domain.FilterName{domain.FilterCategory}, books.Filters)
				assert.Equal(t, []string{"0-99", "100+"}, books.PriceBuckets)
			},
		},
		{
			name: "new_domain_is_appended",
			yaml: `
domains:
  - name: games
    title: Board Games
    creator_label: Publisher
    filters: [category, creator]
    page_sizes: {grid: 8, list: 4}
    aliases:
      secondaryGroup: [players]
`,
			check: func(t *testing.T, domains []domain.DomainConfig) {
				require.Len(t, domains, len(domain.BuiltinDomains())+1)
				games := domains[len(domains)-1]
				assert.Equal(t, "games", games.Name)
				assert.Equal(t, "Publisher", games.CreatorLabel)
				assert.Equal(t, []string{"players"}, games.Aliases[domain.FieldSecondaryGroup])
				require.NoError(t, games.Validate())
			},
		},
		{
			name:    "unknown_key",
			yaml:    "domains:\n  - name: books\n    colour: red\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "missing_name",
			yaml:    "domains:\n  - title: Nameless\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "domains_not_a_list",
			yaml:    "domains:\n  books: {}\n",
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domains, err := LoadDomains(writeYAML(t, tt.yaml))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, domains)
		})
	}
}

func TestLoadDomains_DoesNotMutateBuiltins(t *testing.T) {
	_, err := LoadDomains(writeYAML(t, "domains:\n  - name: books\n    filters: [category]\n"))
	require.NoError(t, err)

	books := findDomain(t, domain.BuiltinDomains(), "books")
	assert.Len(t, books.Filters, 3)
}

func TestLoadDomains_MissingFile(t *testing.T) {
	_, err := LoadDomains(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog config")
}

type fakeSecretsAPI struct {
	secret string
	err    error
	calls  int
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: aws.String(f.secret)}, nil
}

func TestApplySecrets(t *testing.T) {
	api := &fakeSecretsAPI{secret: `{"DB_PASSWORD":"s3cret","REDIS_PASSWORD":"r3dis"}`}
	sm := newAWSSecretsManager(api, "storefront/prod", helpers.TestLogger())
	cfg := fromEnv("production")

	require.NoError(t, ApplySecrets(context.Background(), cfg, sm))
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, "r3dis", cfg.Asynq.RedisPassword)

	got, err := sm.GetSecret(context.Background(), SecretDBPassword)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, 1, api.calls, "second read is served from cache")
}

func TestApplySecrets_PartialAndErrors(t *testing.T) {
	cfg := fromEnv("production")
	before := cfg.Redis.Password

	sm := newAWSSecretsManager(&fakeSecretsAPI{secret: `{"DB_PASSWORD":"only-db"}`}, "s", helpers.TestLogger())
	require.NoError(t, ApplySecrets(context.Background(), cfg, sm))
	assert.Equal(t, "only-db", cfg.Database.Password)
	assert.Equal(t, before, cfg.Redis.Password)

	failing := newAWSSecretsManager(&fakeSecretsAPI{err: errors.New("AccessDenied")}, "s", helpers.TestLogger())
	assert.ErrorContains(t, ApplySecrets(context.Background(), cfg, failing), "AccessDenied")

	t.Setenv(SecretRedisPassword, "from-env")
	require.NoError(t, ApplySecrets(context.Background(), cfg, NewEnvSecretsManager()))
	assert.Equal(t, "from-env", cfg.Redis.Password)
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		mutate    func(*Config)
		validator Validator
		wantErr   string
	}{
		{
			name:      "defaults_pass",
			env:       "development",
			mutate:    func(*Config) {},
			validator: &BasicValidator{},
		},
		{
			name:      "missing_required_field",
			env:       "development",
			mutate:    func(c *Config) { c.Server.Port = "" },
			validator: &BasicValidator{},
			wantErr:   "Server.Port",
		},
		{
			name:      "database_enabled_without_name",
			env:       "development",
			mutate:    func(c *Config) { c.Database.Enabled = true; c.Database.Name = "" },
			validator: &BasicValidator{},
			wantErr:   "database host and name",
		},
		{
			name: "duplicate_domains",
			env:  "development",
			mutate: func(c *Config) {
				c.Catalog.Domains = append(c.Catalog.Domains, c.Catalog.Domains[0])
			},
			validator: &BasicValidator{},
			wantErr:   "configured twice",
		},
		{
			name: "invalid_domain",
			env:  "development",
			mutate: func(c *Config) {
				c.Catalog.Domains[0].PageSizes.Grid = 0
			},
			validator: &BasicValidator{},
			wantErr:   "page sizes must be positive",
		},
		{
			name:      "production_wildcard_origin",
			env:       "production",
			mutate:    func(*Config) {},
			validator: &ProductionValidator{},
			wantErr:   "wildcard origin",
		},
		{
			name: "production_default_db_password",
			env:  "production",
			mutate: func(c *Config) {
				c.Security.AllowedOrigins = []string{"https://shop.example.com"}
				c.Database.Enabled = true
			},
			validator: &ProductionValidator{},
			wantErr:   "database password",
		},
		{
			name: "production_ok",
			env:  "production",
			mutate: func(c *Config) {
				c.Security.AllowedOrigins = []string{"https://shop.example.com"}
			},
			validator: &ProductionValidator{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fromEnv(tt.env)
			cfg.Catalog.Domains = domain.BuiltinDomains()
			tt.mutate(cfg)

			err := tt.validator.Validate(cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
