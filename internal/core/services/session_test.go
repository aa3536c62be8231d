// internal/core/services/session_test.go
package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/storefront-catalog/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func newSessionService(t *testing.T) (*services.SessionService, *helpers.TestRedis) {
	t.Helper()
	src := helpers.NewStaticSource()
	src.Set("books.json", helpers.CatalogJSON(t, "books", engineItems()))
	store := newStore(t, src)

	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())
	return services.NewSessionService(store, cache, nil, 10*time.Minute, helpers.TestLogger()), tr
}

func TestSessionService_Create(t *testing.T) {
	svc, tr := newSessionService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, "books", domain.ViewList)
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, domain.LoadStateReady, view.LoadState)
	require.NotNil(t, view.Results)
	assert.Equal(t, 6, view.Results.PageSize)
	assert.Equal(t, 3, view.Results.TotalPages)
	assert.Equal(t, "Showing 1–6 of 15", view.Showing)
	assert.Contains(t, view.Options, domain.FilterCategory)
	assert.Equal(t, services.SessionState{
		Domain:   "books",
		Query:    domain.QuerySpec{SortKey: domain.SortFeatured},
		Page:     1,
		PageSize: 6,
		ViewMode: domain.ViewList,
	}, view.State)

	assert.True(t, tr.Server.Exists("session:"+view.ID))
	assert.Equal(t, 10*time.Minute, tr.Server.TTL("session:"+view.ID))

	_, err = svc.Create(ctx, "garden", domain.ViewGrid)
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestSessionService_StatePersistsAcrossRequests(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)
	id := created.ID

	view, err := svc.ApplyQuery(ctx, id, domain.QuerySpec{SortKey: domain.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, "item-15", view.Results.Items[0].ID)

	view, moved, err := svc.RequestPage(ctx, id, domain.NextPage())
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, view.Results.Page)
	assert.True(t, view.Results.ScrollIntoView)

	view, moved, err = svc.RequestPage(ctx, id, domain.GotoPage(9))
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 2, view.Results.Page)

	view, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, view.State.Page)
	assert.Equal(t, domain.SortNewest, view.State.Query.SortKey)
	assert.Equal(t, []string{"item-03", "item-02", "item-01"}, itemIDs(view.Results.Items))

	view, err = svc.SetViewMode(ctx, id, domain.ViewList)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, 6, view.State.PageSize)

	view, err = svc.ClearFilters(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.SortFeatured, view.State.Query.SortKey)
}

func TestSessionService_InvalidQueryLeavesSessionUnchanged(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)

	_, err = svc.ApplyQuery(ctx, created.ID, domain.QuerySpec{
		Filters: map[domain.FilterName]string{domain.FilterPrice: "free"},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPriceBucket)

	view, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.State, view.State)
}

func TestSessionService_NotFound(t *testing.T) {
	svc, tr := newSessionService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)

	tr.Server.FastForward(11 * time.Minute)
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	again, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, again.ID))
	_, err = svc.Get(ctx, again.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestSessionService_GetExtendsLifetime(t *testing.T) {
	svc, tr := newSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)

	tr.Server.FastForward(8 * time.Minute)
	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, tr.Server.TTL("session:"+created.ID))
}

func TestSessionService_RetryAfterFailedLoad(t *testing.T) {
	src := helpers.NewStaticSource()
	store := newStore(t, src)
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	ctrl := gomock.NewController(t)
	shelf := mocks.NewMockShelfListener(ctrl)
	svc := services.NewSessionService(store, cache, shelf, 0, helpers.TestLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadStateError, created.LoadState)
	assert.True(t, created.LoadDetail.Retryable)
	assert.Nil(t, created.Results)
	assert.Equal(t, services.DefaultSessionTTL, tr.Server.TTL("session:"+created.ID))

	src.Set("books.json", helpers.CatalogJSON(t, "books", engineItems()))
	view, err := svc.Retry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadStateReady, view.LoadState)
	assert.Equal(t, 15, view.Results.TotalCount)
}

// mapCache keeps sessions in memory and implements only ports.CacheRepository.
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	expires map[string]time.Duration
}

var _ ports.CacheRepository = (*mapCache)(nil)

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, expires: map[string]time.Duration{}}
}

func (c *mapCache) SetWithTTL(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = body
	c.expires[key] = ttl
	return nil
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	body, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return ports.ErrCacheMiss
	}
	return json.Unmarshal(body, dest)
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		delete(c.expires, k)
	}
	return nil
}

func (c *mapCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		c.expires[key] = ttl
	}
	return nil
}

func TestSessionService_InMemoryCache(t *testing.T) {
	src := helpers.NewStaticSource()
	src.Set("books.json", helpers.CatalogJSON(t, "books", engineItems()))
	cache := newMapCache()
	svc := services.NewSessionService(newStore(t, src), cache, nil, 5*time.Minute, helpers.TestLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, "books", domain.ViewGrid)
	require.NoError(t, err)
	key := "session:" + created.ID
	assert.Equal(t, 5*time.Minute, cache.expires[key])

	view, moved, err := svc.RequestPage(ctx, created.ID, domain.NextPage())
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, view.State.Page)

	cache.expires[key] = time.Second
	view, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.State.Page)
	assert.Equal(t, 5*time.Minute, cache.expires[key], "get extends the lifetime")

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
