// internal/core/services/loader_test.go
package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func noSeeds(string) ([]byte, bool) { return nil, false }

func TestCatalogLoader_Load(t *testing.T) {
	items := helpers.NumberedItems(5)

	tests := []struct {
		name         string
		payload      []byte
		seeds        services.SeedFunc
		wantErr      error
		wantLen      int
		wantDegraded bool
		wantCause    error
	}{
		{
			name:    "wrapped_payload",
			payload: helpers.CatalogJSON(t, "books", items),
			wantLen: 5,
		},
		{
			name:    "bare_array_payload",
			payload: helpers.CatalogJSON(t, "", items),
			wantLen: 5,
		},
		{
			name:    "wrapper_key_from_fallback_list",
			payload: helpers.CatalogJSON(t, "items", items),
			wantLen: 5,
		},
		{
			name:         "source_unavailable_uses_seed",
			wantLen:      10,
			wantDegraded: true,
			wantCause:    domain.ErrSourceUnavailable,
		},
		{
			name:         "malformed_json_uses_seed",
			payload:      []byte(`{"books": [`),
			wantLen:      10,
			wantDegraded: true,
			wantCause:    domain.ErrMalformedResponse,
		},
		{
			name:         "object_without_item_array_uses_seed",
			payload:      []byte(`{"meta": {"count": 3}}`),
			wantLen:      10,
			wantDegraded: true,
			wantCause:    domain.ErrMalformedResponse,
		},
		{
			name:    "source_unavailable_without_seed",
			seeds:   noSeeds,
			wantErr: domain.ErrSourceUnavailable,
		},
		{
			name:    "all_records_invalid",
			payload: []byte(`{"books": [{"title": "No creator"}, {"author": "No title"}, 7]}`),
			wantErr: domain.ErrEmptyCatalog,
		},
		{
			name:    "empty_array",
			payload: []byte(`[]`),
			wantErr: domain.ErrEmptyCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := helpers.NewStaticSource()
			if tt.payload != nil {
				src.Set("books.json", tt.payload)
			}
			opts := []services.LoaderOption{services.WithClock(helpers.Now)}
			if tt.seeds != nil {
				opts = append(opts, services.WithSeeds(tt.seeds))
			}
			loader := services.NewCatalogLoader(src, helpers.TestLogger(), opts...)
			cfg := helpers.DomainConfig(t)
			require.NoError(t, cfg.Validate())

			res, err := loader.Load(context.Background(), &cfg, false)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, res.Catalog.Len())
			assert.Equal(t, tt.wantDegraded, res.Degraded())
			if tt.wantCause != nil {
				assert.ErrorIs(t, res.Cause, tt.wantCause)
			} else {
				assert.NoError(t, res.Cause)
			}
		})
	}
}

func TestCatalogLoader_Parse_Normalization(t *testing.T) {
	payload := []byte(`{"toys": [
		{"sku": "T-1", "name": "  Robot Kit ", "manufacturer": "Acme", "age_group": "8-12",
		 "price": "₹1,299", "mrp": 1499, "rating": 7.5, "sales": 140, "release_date": "2023-05-10"},
		{"title": "Wooden Train", "brand": "Maple", "price": -20, "oldPrice": 10, "rating": -1,
		 "popularity": "lots", "date": "2022-11"},
		{"title": "Ghost", "category": "Nothing"},
		{"title": "Blocks", "maker": "Acme", "image_url": "img/blocks.png"}
	]}`)

	cfg := helpers.DomainConfig(t, func(c *domain.DomainConfig) {
		c.Name = "toys"
		c.SourceRef = "toys.json"
		c.WrapperKeys = nil
	})
	require.NoError(t, cfg.Validate())

	loader := services.NewCatalogLoader(helpers.NewStaticSource(), helpers.TestLogger(), services.WithClock(helpers.Now))
	res, err := loader.Parse(context.Background(), &cfg, payload, false)
	require.NoError(t, err)

	require.Equal(t, 3, res.Catalog.Len())
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Index)
	assert.Equal(t, "Ghost", res.Rejected[0].Title)
	assert.Contains(t, res.Rejected[0].Reason, "creator is required")

	robot, ok := res.Catalog.Lookup("T-1")
	require.True(t, ok)
	assert.Equal(t, "Robot Kit", robot.Title)
	assert.Equal(t, "Acme", robot.Creator)
	assert.Equal(t, "8-12", robot.SecondaryGroup)
	assert.Equal(t, int64(1299), robot.Price)
	require.NotNil(t, robot.OriginalPrice)
	assert.Equal(t, int64(1499), *robot.OriginalPrice)
	assert.Equal(t, float64(domain.MaxRating), robot.Rating)
	assert.Equal(t, domain.MaxPopularity, robot.Popularity)
	assert.Equal(t, "2023-05-10", robot.ReleaseDate.Format(domain.DateLayout))
	assert.Equal(t, domain.DefaultCategory, robot.Category)
	assert.Equal(t, domain.PlaceholderImage, robot.ImageRef)

	train, ok := res.Catalog.Lookup("wooden-train-maple")
	require.True(t, ok)
	assert.Equal(t, int64(0), train.Price)
	require.NotNil(t, train.OriginalPrice, "10 is above the clamped price of 0")
	assert.Equal(t, float64(0), train.Rating)
	assert.Equal(t, domain.DefaultPopularity, train.Popularity)
	assert.Equal(t, "2022-11-01", train.ReleaseDate.Format(domain.DateLayout))

	blocks, ok := res.Catalog.Lookup("blocks-acme")
	require.True(t, ok)
	assert.Equal(t, "img/blocks.png", blocks.ImageRef)
	assert.Equal(t, helpers.Fixed.Format(domain.DateLayout), blocks.ReleaseDate.Format(domain.DateLayout))
}

func TestCatalogLoader_Parse_OversizedNumbersSaturate(t *testing.T) {
	tests := []struct {
		name           string
		payload        string
		wantPrice      int64
		wantOriginal   int64
		wantPopularity int
	}{
		{
			name:           "beyond_int64",
			payload:        `[{"title":"A","author":"X","price":10000000000000000000,"popularity":10000000000000000000}]`,
			wantPrice:      math.MaxInt64,
			wantPopularity: domain.MaxPopularity,
		},
		{
			name:           "far_negative",
			payload:        `[{"title":"A","author":"X","price":-10000000000000000000,"popularity":-10000000000000000000}]`,
			wantPrice:      0,
			wantPopularity: 0,
		},
		{
			name:           "original_price_beyond_int64",
			payload:        `[{"title":"A","author":"X","price":10,"originalPrice":"99999999999999999999"}]`,
			wantPrice:      10,
			wantOriginal:   math.MaxInt64,
			wantPopularity: domain.DefaultPopularity,
		},
	}

	cfg := helpers.DomainConfig(t)
	require.NoError(t, cfg.Validate())
	loader := services.NewCatalogLoader(helpers.NewStaticSource(), helpers.TestLogger(), services.WithClock(helpers.Now))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := loader.Parse(context.Background(), &cfg, []byte(tt.payload), false)
			require.NoError(t, err)
			require.Equal(t, 1, res.Catalog.Len())

			it := res.Catalog.Items()[0]
			assert.Equal(t, tt.wantPrice, it.Price)
			assert.Equal(t, tt.wantPopularity, it.Popularity)
			if tt.wantOriginal == 0 {
				assert.Nil(t, it.OriginalPrice)
				return
			}
			require.NotNil(t, it.OriginalPrice)
			assert.Equal(t, tt.wantOriginal, *it.OriginalPrice)
		})
	}
}

func TestCatalogLoader_Parse_DuplicateIDs(t *testing.T) {
	payload := []byte(`[
		{"id": "x", "title": "One", "author": "A"},
		{"id": "x", "title": "Two", "author": "B"},
		{"title": "Same", "author": "C"},
		{"title": "Same", "author": "C"}
	]`)
	cfg := helpers.DomainConfig(t)
	require.NoError(t, cfg.Validate())

	loader := services.NewCatalogLoader(helpers.NewStaticSource(), helpers.TestLogger())
	res, err := loader.Parse(context.Background(), &cfg, payload, false)
	require.NoError(t, err)

	var ids []string
	for _, it := range res.Catalog.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"x", "x-2", "same-c", "same-c-2"}, ids)
}

func TestCatalogLoader_RefreshBypassesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockRefreshableSource(ctrl)
	payload := helpers.CatalogJSON(t, "books", helpers.NumberedItems(3))

	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any(), "books.json").Return(payload, nil),
		src.EXPECT().Refresh(gomock.Any(), "books.json").Return(nil, errors.New("connection reset")),
	)

	cfg := helpers.DomainConfig(t)
	require.NoError(t, cfg.Validate())
	loader := services.NewCatalogLoader(src, helpers.TestLogger(), services.WithSeeds(noSeeds))

	res, err := loader.Load(context.Background(), &cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Catalog.Len())

	_, err = loader.Load(context.Background(), &cfg, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "books", loadErr.Domain)
	assert.Contains(t, loadErr.Error(), "connection reset")
}

func TestEmbeddedSeed_CoversBuiltinDomains(t *testing.T) {
	loader := services.NewCatalogLoader(helpers.NewStaticSource(), helpers.TestLogger(), services.WithClock(helpers.Now))

	for _, cfg := range domain.BuiltinDomains() {
		t.Run(cfg.Name, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			raw, ok := services.EmbeddedSeed(cfg.Name)
			require.True(t, ok)

			res, err := loader.Parse(context.Background(), &cfg, raw, true)
			require.NoError(t, err)
			assert.True(t, res.Degraded())
			assert.Empty(t, res.Rejected)
			assert.Greater(t, res.Catalog.Len(), 0)
		})
	}
	assert.ElementsMatch(t,
		[]string{"books", "kids", "new-noteworthy", "stationery", "top50", "toys"},
		services.SeedNames())
}

func TestRawRecords(t *testing.T) {
	cfg := helpers.DomainConfig(t)

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "bare_array", raw: `[{"title":"a"},{"title":"b"}]`, want: 2},
		{name: "wrapped_by_domain_name", raw: `{"books":[{"title":"a"}]}`, want: 1},
		{name: "wrapped_by_items", raw: `{"count":3,"items":[{"title":"a"},{"title":"b"},{"title":"c"}]}`, want: 3},
		{name: "no_item_array", raw: `{"count":3}`, wantErr: true},
		{name: "not_json", raw: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := services.RawRecords(&cfg, []byte(tt.raw))
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}
