package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

func TestBuiltinDomains_Validate(t *testing.T) {
	want := map[string]struct {
		grid, list, window int
		sort               domain.SortKey
	}{
		"books":          {12, 6, 5, domain.SortFeatured},
		"kids":           {9, 8, 5, domain.SortPopular},
		"new-noteworthy": {12, 6, 5, domain.SortNewest},
		"stationery":     {9, 8, 5, domain.SortFeatured},
		"top50":          {10, 5, 7, domain.SortRank},
		"toys":           {12, 6, 5, domain.SortFeatured},
	}

	domains := domain.BuiltinDomains()
	require.Len(t, domains, len(want))

	for i := range domains {
		cfg := domains[i]
		t.Run(cfg.Name, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			w, ok := want[cfg.Name]
			require.True(t, ok)
			assert.Equal(t, w.grid, cfg.PageSize(domain.ViewGrid))
			assert.Equal(t, w.list, cfg.PageSize(domain.ViewList))
			assert.Equal(t, w.window, cfg.WindowSize())
			assert.Equal(t, w.sort, cfg.DefaultSort)
			if cfg.AllowsFilter(domain.FilterPrice) {
				assert.NotEmpty(t, cfg.Buckets())
			}
		})
	}
}

func TestDomainConfig_Validate(t *testing.T) {
	base := func() domain.DomainConfig {
		return domain.DomainConfig{
			Name:         "books",
			Filters:      []domain.FilterName{"category", "author"},
			PageSizes:    domain.PageSizes{Grid: 12, List: 6},
			PriceBuckets: []string{"0-199", "200+"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.DomainConfig)
		wantErr string
		verify  func(t *testing.T, c *domain.DomainConfig)
	}{
		{
			name:   "defaults_filled",
			mutate: func(c *domain.DomainConfig) {},
			verify: func(t *testing.T, c *domain.DomainConfig) {
				assert.Equal(t, domain.SortFeatured, c.DefaultSort)
				assert.Equal(t, domain.DefaultRankWeights, c.RankWeights)
				assert.Equal(t, "books.json", c.SourceRef)
				assert.Equal(t, []domain.FilterName{domain.FilterCategory, domain.FilterCreator}, c.Filters)
				assert.Equal(t, 4, c.BadgeRank("Bestseller"))
				assert.Equal(t, 0, c.BadgeRank("Limited"))
			},
		},
		{
			name:    "missing_name",
			mutate:  func(c *domain.DomainConfig) { c.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "zero_page_size",
			mutate:  func(c *domain.DomainConfig) { c.PageSizes.List = 0 },
			wantErr: "page sizes must be positive",
		},
		{
			name:    "unknown_filter",
			mutate:  func(c *domain.DomainConfig) { c.Filters = append(c.Filters, "colour") },
			wantErr: "unknown filter",
		},
		{
			name:    "duplicate_filter_alias",
			mutate:  func(c *domain.DomainConfig) { c.Filters = append(c.Filters, "brand") },
			wantErr: "listed twice",
		},
		{
			name:    "unknown_default_sort",
			mutate:  func(c *domain.DomainConfig) { c.DefaultSort = "cheapest" },
			wantErr: "unknown default sort",
		},
		{
			name:    "overlapping_buckets",
			mutate:  func(c *domain.DomainConfig) { c.PriceBuckets = []string{"0-500", "200+"} },
			wantErr: "overlaps",
		},
		{
			name: "price_filter_without_buckets",
			mutate: func(c *domain.DomainConfig) {
				c.Filters = append(c.Filters, domain.FilterPrice)
				c.PriceBuckets = nil
			},
			wantErr: "without price buckets",
		},
		{
			name:   "default_sort_synonym",
			mutate: func(c *domain.DomainConfig) { c.DefaultSort = domain.SortPopularity },
			verify: func(t *testing.T, c *domain.DomainConfig) {
				assert.Equal(t, domain.SortPopular, c.DefaultSort)
			},
		},
		{
			name:   "badge_priority_case_insensitive",
			mutate: func(c *domain.DomainConfig) { c.BadgePriority = map[string]int{"Staff Pick": 9} },
			verify: func(t *testing.T, c *domain.DomainConfig) {
				assert.Equal(t, 9, c.BadgeRank("STAFF PICK"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, &cfg)
			}
		})
	}
}

func TestDomainConfig_ResolveSort(t *testing.T) {
	cfg := domain.DomainConfig{Name: "top50", PageSizes: domain.PageSizes{Grid: 10, List: 5}, DefaultSort: domain.SortRank}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, domain.SortRank, cfg.ResolveSort(""))
	assert.Equal(t, domain.SortRank, cfg.ResolveSort("bogus"))
	assert.Equal(t, domain.SortCreator, cfg.ResolveSort("Author"))
	assert.Equal(t, domain.SortPriceLow, cfg.ResolveSort(" price-low "))
}

func TestDomainConfig_Clone(t *testing.T) {
	cfg := domain.BuiltinDomains()[0]
	require.NoError(t, cfg.Validate())

	cp := cfg.Clone()
	cp.Filters[0] = domain.FilterPrice
	cp.BadgePriority["new"] = 99

	assert.Equal(t, domain.FilterCategory, cfg.Filters[0])
	assert.Equal(t, 2, cfg.BadgeRank("new"))
	assert.Equal(t, cfg.Buckets(), cp.Buckets())
}
