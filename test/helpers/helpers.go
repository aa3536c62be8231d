// test/helpers/helpers.go
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// Fixed is a deterministic clock for loaders and engines.
var Fixed = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Now returns Fixed.
func Now() time.Time { return Fixed }

// DomainConfig returns a validated configuration with every filter enabled.
func DomainConfig(t *testing.T, opts ...func(*domain.DomainConfig)) domain.DomainConfig {
	t.Helper()
	cfg := domain.DomainConfig{
		Name:         "books",
		CreatorLabel: "Author",
		SourceRef:    "books.json",
		WrapperKeys:  []string{"books", "data"},
		Filters:      []domain.FilterName{domain.FilterCategory, domain.FilterSecondaryGroup, domain.FilterCreator, domain.FilterPrice},
		PriceBuckets: []string{"0-199", "200-499", "500-999", "1000+"},
		PageSizes:    domain.PageSizes{Grid: 12, List: 6},
		DefaultSort:  domain.SortFeatured,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	vc := cfg.Clone()
	require.NoError(t, vc.Validate())
	return cfg
}

// CreateTestItem creates a catalog item with sensible defaults.
func CreateTestItem(opts ...func(*domain.Item)) domain.Item {
	it := domain.Item{
		ID:          "test-item",
		Title:       "Test Item",
		Creator:     "Test Author",
		Category:    "General",
		Price:       299,
		Rating:      4.0,
		Popularity:  domain.DefaultPopularity,
		ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ImageRef:    domain.PlaceholderImage,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// NumberedItems returns n items whose release dates increase with their index.
func NumberedItems(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = CreateTestItem(func(it *domain.Item) {
			it.ID = fmt.Sprintf("item-%02d", i+1)
			it.Title = fmt.Sprintf("Title %02d", i+1)
			it.Price = int64(100 + 10*i)
			it.ReleaseDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		})
	}
	return items
}

// CatalogJSON renders items as a source payload, wrapped under key when key
// is not empty.
func CatalogJSON(t *testing.T, key string, items []domain.Item) []byte {
	t.Helper()
	records := make([]map[string]any, len(items))
	for i, it := range items {
		rec := map[string]any{
			"id":           it.ID,
			"title":        it.Title,
			"author":       it.Creator,
			"category":     it.Category,
			"price":        it.Price,
			"rating":       it.Rating,
			"popularity":   it.Popularity,
			"release_date": it.ReleaseDate.Format(domain.DateLayout),
		}
		if it.SecondaryGroup != "" {
			rec["ageGroup"] = it.SecondaryGroup
		}
		if it.Badge != "" {
			rec["badge"] = it.Badge
		}
		if it.OriginalPrice != nil {
			rec["oldPrice"] = *it.OriginalPrice
		}
		records[i] = rec
	}

	var doc any = records
	if key != "" {
		doc = map[string]any{key: records}
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return b
}

// StaticSource serves fixed payloads by source ref. Unknown refs fail with
// domain.ErrSourceUnavailable.
type StaticSource struct {
	mu       sync.Mutex
	payloads map[string][]byte
	calls    map[string]int
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{payloads: map[string][]byte{}, calls: map[string]int{}}
}

// Set replaces the payload behind ref.
func (s *StaticSource) Set(ref string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[ref] = payload
}

// Fetch returns the payload behind ref.
func (s *StaticSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[ref]++
	b, ok := s.payloads[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, ref)
	}
	return b, nil
}

// Calls returns how many times ref was fetched.
func (s *StaticSource) Calls(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[ref]
}
