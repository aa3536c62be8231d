// internal/adapters/redis_adapter/cached_source_test.go
package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/storefront-catalog/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func TestCachedSource_Fetch(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockCatalogSource(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), "books.json").Return([]byte(`{"books": [1, 2]}`), nil).Times(1)

	src := redis_a.NewCachedSource(inner, cache, 0, helpers.TestLogger())

	first, err := src.Fetch(ctx, "books.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"books": [1, 2]}`, string(first))

	second, err := src.Fetch(ctx, "books.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"books": [1, 2]}`, string(second))

	assert.True(t, tr.Server.Exists("catalog:books.json"))
	assert.Equal(t, time.Minute, tr.Server.TTL("catalog:books.json"))
}

func TestCachedSource_DoesNotCacheFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		err     error
	}{
		{
			name: "source_error",
			err:  errors.New("503 service unavailable"),
		},
		{
			name:    "invalid_json",
			payload: []byte(`<html>maintenance</html>`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tr := helpers.SetupTestRedis(t)
			cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

			ctrl := gomock.NewController(t)
			inner := mocks.NewMockCatalogSource(ctrl)
			inner.EXPECT().Fetch(gomock.Any(), "toys.json").Return(tt.payload, tt.err).Times(2)

			src := redis_a.NewCachedSource(inner, cache, time.Hour, helpers.TestLogger())
			for i := 0; i < 2; i++ {
				got, err := src.Fetch(ctx, "toys.json")
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				} else {
					require.NoError(t, err)
					assert.Equal(t, tt.payload, got)
				}
			}
			assert.False(t, tr.Server.Exists("catalog:toys.json"))
		})
	}
}

func TestCachedSource_RefreshOverwrites(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockRefreshableSource(ctrl)
	gomock.InOrder(
		inner.EXPECT().Fetch(gomock.Any(), "kids.json").Return([]byte(`[1]`), nil),
		inner.EXPECT().Refresh(gomock.Any(), "kids.json").Return([]byte(`[1,2,3]`), nil),
	)

	src := redis_a.NewCachedSource(inner, cache, 0, helpers.TestLogger())

	_, err := src.Fetch(ctx, "kids.json")
	require.NoError(t, err)

	fresh, err := src.Refresh(ctx, "kids.json")
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(fresh))

	cached, err := src.Fetch(ctx, "kids.json")
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(cached))
}

func TestCachedSource_FallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockCatalogSource(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), "books.json").Return([]byte(`[]`), nil)

	src := redis_a.NewCachedSource(inner, cache, 0, helpers.TestLogger())
	tr.Server.Close()

	got, err := src.Fetch(ctx, "books.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestCachedSource_Purge(t *testing.T) {
	ctx := context.Background()
	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Minute, helpers.TestLogger())

	require.NoError(t, cache.Set(ctx, "catalog:books.json", []int{1}))
	require.NoError(t, cache.Set(ctx, "catalog:toys.json", []int{2}))
	require.NoError(t, cache.Set(ctx, "session:abc", "keep"))

	src := redis_a.NewCachedSource(helpers.NewStaticSource(), cache, 0, helpers.TestLogger())
	require.NoError(t, src.Purge(ctx))

	assert.False(t, tr.Server.Exists("catalog:books.json"))
	assert.False(t, tr.Server.Exists("catalog:toys.json"))
	assert.True(t, tr.Server.Exists("session:abc"))
}
