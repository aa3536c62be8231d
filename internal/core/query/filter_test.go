package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/query"
)

func TestMatcher_Filter(t *testing.T) {
	cfg := booksConfig(t)
	items := twelveItems()

	tests := []struct {
		name string
		spec domain.QuerySpec
		want []string
	}{
		{
			name: "empty_spec_passes_everything",
			spec: domain.QuerySpec{},
			want: ids(items),
		},
		{
			name: "search_math_matches_title_and_category",
			spec: domain.QuerySpec{SearchText: "math"},
			want: []string{"1", "8"},
		},
		{
			name: "search_is_case_insensitive",
			spec: domain.QuerySpec{SearchText: "  SPACE "},
			want: []string{"3"},
		},
		{
			name: "search_matches_creator",
			spec: domain.QuerySpec{SearchText: "gomez"},
			want: []string{"5", "10"},
		},
		{
			name: "search_matches_secondary_group",
			spec: domain.QuerySpec{SearchText: "9-12"},
			want: []string{"7"},
		},
		{
			name: "category_filter_exact",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterCategory: "Science"}},
			want: []string{"2", "3", "4", "7"},
		},
		{
			name: "category_filter_is_not_substring",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterCategory: "Sci"}},
			want: []string{},
		},
		{
			name: "filters_and_together",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{
				domain.FilterCategory: "Science",
				domain.FilterPrice:    "0-199",
			}},
			want: []string{"4"},
		},
		{
			name: "price_bucket_bounds_inclusive",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterPrice: "200-499"}},
			want: []string{"1", "2", "6", "9", "11", "12"},
		},
		{
			name: "open_ended_bucket",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterPrice: "1000+"}},
			want: []string{"10"},
		},
		{
			name: "empty_filter_value_inactive",
			spec: domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterCategory: ""}},
			want: ids(items),
		},
		{
			name: "search_and_filter",
			spec: domain.QuerySpec{SearchText: "r. rao", Filters: map[domain.FilterName]string{domain.FilterSecondaryGroup: "3-5"}},
			want: []string{"8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := query.NewMatcher(cfg, tt.spec)
			require.NoError(t, err)
			got := m.Filter(items)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestMatcher_PreservesCatalogOrder(t *testing.T) {
	cfg := booksConfig(t)
	items := twelveItems()

	specs := []domain.QuerySpec{
		{SearchText: "a"},
		{SearchText: "e", Filters: map[domain.FilterName]string{domain.FilterPrice: "200-499"}},
		{Filters: map[domain.FilterName]string{domain.FilterCreator: "M. Lee"}},
	}
	for _, spec := range specs {
		m, err := query.NewMatcher(cfg, spec)
		require.NoError(t, err)
		got := m.Filter(items)

		// every result appears in the catalog after the previous one
		pos := -1
		for _, it := range got {
			idx := indexOf(items, it.ID)
			require.Greater(t, idx, pos, "order broken for %+v", spec)
			pos = idx
		}
	}
}

func indexOf(items []domain.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func TestNewMatcher_Errors(t *testing.T) {
	cfg := booksConfig(t)

	_, err := query.NewMatcher(cfg, domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterPrice: "5-10"}})
	assert.ErrorIs(t, err, domain.ErrUnknownPriceBucket)

	narrow := domain.DomainConfig{Name: "new-noteworthy", Filters: []domain.FilterName{domain.FilterCategory}, PageSizes: domain.PageSizes{Grid: 12, List: 6}}
	require.NoError(t, narrow.Validate())
	_, err = query.NewMatcher(&narrow, domain.QuerySpec{Filters: map[domain.FilterName]string{domain.FilterCreator: "R. Rao"}})
	assert.ErrorIs(t, err, domain.ErrUnknownFilter)
}
