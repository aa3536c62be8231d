// internal/core/services/catalog_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/test/helpers"
	"github.com/ammerola/storefront-catalog/test/mocks"
)

func newCatalogService(t *testing.T, shelf ports.ShelfListener) (*services.CatalogService, *helpers.StaticSource) {
	t.Helper()
	src := helpers.NewStaticSource()
	src.Set("books.json", helpers.CatalogJSON(t, "books", engineItems()))
	return services.NewCatalogService(newStore(t, src), shelf, helpers.TestLogger()), src
}

func TestCatalogService_Query(t *testing.T) {
	tests := []struct {
		name       string
		params     ports.QueryParams
		wantPage   int
		wantSize   int
		wantTotal  int
		wantFirst  string
		wantPages  int
		wantHidden bool
	}{
		{
			name:      "defaults_to_grid_page_one",
			params:    ports.QueryParams{Query: domain.QuerySpec{SortKey: domain.SortNewest}},
			wantPage:  1,
			wantSize:  12,
			wantTotal: 15,
			wantFirst: "item-15",
			wantPages: 2,
		},
		{
			name:      "list_view_second_page",
			params:    ports.QueryParams{Query: domain.QuerySpec{SortKey: domain.SortOldest}, View: domain.ViewList, Page: 2},
			wantPage:  2,
			wantSize:  6,
			wantTotal: 15,
			wantFirst: "item-07",
			wantPages: 3,
		},
		{
			name:      "page_past_the_end_is_clamped",
			params:    ports.QueryParams{Query: domain.QuerySpec{SortKey: domain.SortOldest}, Page: 99},
			wantPage:  2,
			wantSize:  12,
			wantTotal: 15,
			wantFirst: "item-13",
			wantPages: 2,
		},
		{
			name:       "oversized_page_is_capped",
			params:     ports.QueryParams{Query: domain.QuerySpec{SortKey: domain.SortOldest}, PageSize: 5000},
			wantPage:   1,
			wantSize:   services.MaxPageSize,
			wantTotal:  15,
			wantFirst:  "item-01",
			wantPages:  1,
			wantHidden: true,
		},
		{
			name: "all_returns_every_match",
			params: ports.QueryParams{
				Query: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterCategory: "Science"}, SortKey: domain.SortPriceHigh},
				All:   true,
			},
			wantPage:   1,
			wantSize:   5,
			wantTotal:  5,
			wantFirst:  "item-13",
			wantPages:  1,
			wantHidden: true,
		},
		{
			name:       "price_bucket_filter",
			params:     ports.QueryParams{Query: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterPrice: "200-499"}, SortKey: domain.SortPriceLow}},
			wantPage:   1,
			wantSize:   12,
			wantTotal:  5,
			wantFirst:  "item-11",
			wantPages:  1,
			wantHidden: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newCatalogService(t, nil)

			res, err := svc.Query(context.Background(), "books", tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, res.Page)
			assert.Equal(t, tt.wantSize, res.PageSize)
			assert.Equal(t, tt.wantTotal, res.TotalCount)
			assert.Equal(t, tt.wantPages, res.TotalPages)
			require.NotEmpty(t, res.Items)
			assert.Equal(t, tt.wantFirst, res.Items[0].ID)
			assert.Equal(t, tt.wantHidden, res.Pagination.Hidden)
			assert.Equal(t, uint64(1), res.Version)
			assert.False(t, res.Degraded)
		})
	}
}

func TestCatalogService_QueryErrors(t *testing.T) {
	svc, _ := newCatalogService(t, nil)
	ctx := context.Background()

	_, err := svc.Query(ctx, "garden", ports.QueryParams{})
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)

	_, err = svc.Query(ctx, "books", ports.QueryParams{
		Query: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterPrice: "1-2"}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownPriceBucket)
}

func TestCatalogService_OptionsAndDomains(t *testing.T) {
	svc, _ := newCatalogService(t, nil)

	opts, err := svc.Options(context.Background(), "books")
	require.NoError(t, err)
	assert.Equal(t, []string{"General", "Science"}, opts[domain.FilterCategory])
	assert.Equal(t, []string{"0-199", "200-499", "500-999", "1000+"}, opts[domain.FilterPrice])

	domains := svc.Domains()
	require.Len(t, domains, 1)
	assert.Equal(t, "books", domains[0].Name)
	domains[0].Filters[0] = "mutated"
	assert.Equal(t, domain.FilterCategory, svc.Domains()[0].Filters[0])
}

func TestCatalogService_Reload(t *testing.T) {
	svc, src := newCatalogService(t, nil)
	ctx := context.Background()

	_, err := svc.Query(ctx, "books", ports.QueryParams{})
	require.NoError(t, err)

	src.Set("books.json", helpers.CatalogJSON(t, "books", helpers.NumberedItems(20)))
	res, err := svc.Reload(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, &ports.ReloadResult{Domain: "books", ItemCount: 20, Version: 2}, res)

	page, err := svc.Query(ctx, "books", ports.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, 20, page.TotalCount)
	assert.Equal(t, uint64(2), page.Version)
}

func TestCatalogService_UpdateShelf(t *testing.T) {
	ctrl := gomock.NewController(t)
	shelf := mocks.NewMockShelfListener(ctrl)
	svc, _ := newCatalogService(t, shelf)
	ctx := context.Background()

	shelf.EXPECT().OnShelfChanged(gomock.Any(), gomock.Any()).Do(func(_ context.Context, ev domain.ShelfEvent) {
		assert.Equal(t, "item-04", ev.ItemID)
		assert.Equal(t, "Title 04", ev.Title)
		assert.Equal(t, 3, ev.Quantity)
	})

	ev, err := svc.UpdateShelf(ctx, ports.ShelfRequest{
		ShopperID: "shopper-9", Domain: "books", Shelf: domain.ShelfCart, ItemID: "item-04", Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShelfAdded, ev.Action)

	_, err = svc.UpdateShelf(ctx, ports.ShelfRequest{ShopperID: "shopper-9", Domain: "books", Shelf: domain.ShelfCart, ItemID: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)

	_, err = svc.UpdateShelf(ctx, ports.ShelfRequest{ShopperID: "shopper-9", Domain: "garden", ItemID: "item-04"})
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}
