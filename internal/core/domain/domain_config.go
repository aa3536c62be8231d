// internal/core/domain/domain_config.go
package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Canonical item field names used as keys in FieldAliases.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldCreator        = "creator"
	FieldCategory       = "category"
	FieldSecondaryGroup = "secondaryGroup"
	FieldPrice          = "price"
	FieldOriginalPrice  = "originalPrice"
	FieldRating         = "rating"
	FieldPopularity     = "popularity"
	FieldReleaseDate    = "releaseDate"
	FieldBadge          = "badge"
	FieldImageRef       = "imageRef"
)

const (
	DefaultWindow    = 5
	WideWindow       = 7
	DefaultLocale    = "en"
	DefaultCurrency  = "INR"
	PlaceholderImage = "images/placeholder.png"
)

// FieldAliases maps a canonical field to the source keys that may carry it.
type FieldAliases map[string][]string

// RankWeights are the coefficients of the composite rank score.
type RankWeights struct {
	Rating     float64 `mapstructure:"rating" json:"rating"`
	Popularity float64 `mapstructure:"popularity" json:"popularity"`
}

// PageSizes holds the page size for each view mode.
type PageSizes struct {
	Grid int `mapstructure:"grid" json:"grid"`
	List int `mapstructure:"list" json:"list"`
}

// DefaultRankWeights weights rating at 0.7 and popularity at 0.3.
var DefaultRankWeights = RankWeights{Rating: 0.7, Popularity: 0.3}

// DefaultBadgePriority ranks promotional badges for the featured sort.
func DefaultBadgePriority() map[string]int {
	return map[string]int{
		"bestseller": 4,
		"popular":    3,
		"new":        2,
		"sale":       1,
	}
}

// DefaultAliases covers the spellings seen across storefront feeds.
func DefaultAliases() FieldAliases {
	return FieldAliases{
		FieldID:             {"sku", "isbn", "_id"},
		FieldTitle:          {"name"},
		FieldCreator:        {"author", "manufacturer", "brand", "maker"},
		FieldSecondaryGroup: {"ageGroup", "age_group", "age", "subcategory"},
		FieldOriginalPrice:  {"oldPrice", "original_price", "mrp", "listPrice"},
		FieldReleaseDate:    {"release_date", "date", "publishedDate", "published"},
		FieldImageRef:       {"image", "img", "imageUrl", "image_url", "cover"},
		FieldPopularity:     {"sales", "popularityScore"},
	}
}

// DomainConfig parameterises the engine for one product domain.
type DomainConfig struct {
	Name             string         `mapstructure:"name" json:"name"`
	Title            string         `mapstructure:"title" json:"title"`
	CreatorLabel     string         `mapstructure:"creator_label" json:"creator_label"`
	SecondaryLabel   string         `mapstructure:"secondary_label" json:"secondary_label,omitempty"`
	SourceRef        string         `mapstructure:"source_ref" json:"source_ref"`
	WrapperKeys      []string       `mapstructure:"wrapper_keys" json:"wrapper_keys,omitempty"`
	Aliases          FieldAliases   `mapstructure:"aliases" json:"-"`
	Filters          []FilterName   `mapstructure:"filters" json:"filters"`
	PriceBuckets     []string       `mapstructure:"price_buckets" json:"price_buckets,omitempty"`
	PageSizes        PageSizes      `mapstructure:"page_sizes" json:"page_sizes"`
	WidePagination   bool           `mapstructure:"wide_pagination" json:"wide_pagination"`
	DefaultSort      SortKey        `mapstructure:"default_sort" json:"default_sort"`
	BadgePriority    map[string]int `mapstructure:"badge_priority" json:"badge_priority,omitempty"`
	RankWeights      RankWeights    `mapstructure:"rank_weights" json:"rank_weights"`
	PlaceholderImage string         `mapstructure:"placeholder_image" json:"placeholder_image"`
	Locale           string         `mapstructure:"locale" json:"locale"`
	Currency         string         `mapstructure:"currency" json:"currency"`
	CurrencyExponent int32          `mapstructure:"currency_exponent" json:"currency_exponent"`

	buckets PriceBuckets
}

// Validate fills defaults and rejects configurations the engine cannot run.
func (c *DomainConfig) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if c.Title == "" {
		c.Title = c.Name
	}
	if c.CreatorLabel == "" {
		c.CreatorLabel = "Creator"
	}
	if c.SourceRef == "" {
		c.SourceRef = c.Name + ".json"
	}
	if len(c.WrapperKeys) == 0 {
		c.WrapperKeys = []string{c.Name, "items", "data"}
	}
	c.Aliases = mergeAliases(c.Aliases)
	if c.BadgePriority == nil {
		c.BadgePriority = DefaultBadgePriority()
	} else {
		lowered := make(map[string]int, len(c.BadgePriority))
		for k, v := range c.BadgePriority {
			lowered[strings.ToLower(strings.TrimSpace(k))] = v
		}
		c.BadgePriority = lowered
	}
	if c.RankWeights == (RankWeights{}) {
		c.RankWeights = DefaultRankWeights
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = PlaceholderImage
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.DefaultSort == "" {
		c.DefaultSort = SortFeatured
	}

	if c.PageSizes.Grid <= 0 || c.PageSizes.List <= 0 {
		return fmt.Errorf("%w: %s: page sizes must be positive (grid=%d list=%d)",
			ErrInvalidConfig, c.Name, c.PageSizes.Grid, c.PageSizes.List)
	}
	if c.CurrencyExponent < 0 {
		return fmt.Errorf("%w: %s: currency exponent must not be negative", ErrInvalidConfig, c.Name)
	}
	if !c.DefaultSort.IsKnown() {
		return fmt.Errorf("%w: %s: unknown default sort %q", ErrInvalidConfig, c.Name, c.DefaultSort)
	}
	c.DefaultSort = c.DefaultSort.Canonical()

	seen := make(map[FilterName]struct{}, len(c.Filters))
	for i, f := range c.Filters {
		name, ok := ParseFilterName(string(f))
		if !ok {
			return fmt.Errorf("%w: %s: unknown filter %q", ErrInvalidConfig, c.Name, f)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s: filter %q listed twice", ErrInvalidConfig, c.Name, name)
		}
		seen[name] = struct{}{}
		c.Filters[i] = name
	}

	buckets, err := ParsePriceBuckets(c.PriceBuckets)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	if _, hasPrice := seen[FilterPrice]; hasPrice && len(buckets) == 0 {
		return fmt.Errorf("%w: %s: price filter enabled without price buckets", ErrInvalidConfig, c.Name)
	}
	c.buckets = buckets
	return nil
}

// mergeAliases puts configured aliases ahead of the defaults for each field.
func mergeAliases(custom FieldAliases) FieldAliases {
	merged := DefaultAliases()
	for field, keys := range custom {
		combined := slices.Clone(keys)
		for _, k := range merged[field] {
			if !slices.Contains(combined, k) {
				combined = append(combined, k)
			}
		}
		merged[field] = combined
	}
	return merged
}

// Buckets returns the parsed price-bucket table. Valid after Validate.
func (c *DomainConfig) Buckets() PriceBuckets {
	return c.buckets
}

// AllowsFilter reports whether the domain exposes the filter.
func (c *DomainConfig) AllowsFilter(name FilterName) bool {
	return slices.Contains(c.Filters, name)
}

// PageSize returns the page size for a view mode, grid by default.
func (c *DomainConfig) PageSize(mode ViewMode) int {
	if mode == ViewList {
		return c.PageSizes.List
	}
	return c.PageSizes.Grid
}

// WindowSize is the number of numbered page buttons shown at once.
func (c *DomainConfig) WindowSize() int {
	if c.WidePagination {
		return WideWindow
	}
	return DefaultWindow
}

// BadgeRank returns the priority of a badge, 0 for none or unknown.
func (c *DomainConfig) BadgeRank(badge string) int {
	if badge == "" {
		return 0
	}
	return c.BadgePriority[strings.ToLower(strings.TrimSpace(badge))]
}

// SourceKeys returns the keys a canonical field may be read from, canonical first.
func (c *DomainConfig) SourceKeys(field string) []string {
	keys := []string{field}
	return append(keys, c.Aliases[field]...)
}

// ResolveSort maps an unknown or empty key to the domain default.
func (c *DomainConfig) ResolveSort(key SortKey) SortKey {
	key = SortKey(strings.ToLower(strings.TrimSpace(string(key))))
	if !key.IsKnown() {
		return c.DefaultSort
	}
	return key.Canonical()
}

// Clone returns a deep copy that can be validated or mutated independently.
func (c DomainConfig) Clone() DomainConfig {
	c.WrapperKeys = slices.Clone(c.WrapperKeys)
	c.Filters = slices.Clone(c.Filters)
	c.PriceBuckets = slices.Clone(c.PriceBuckets)
	c.buckets = slices.Clone(c.buckets)
	if c.Aliases != nil {
		aliases := make(FieldAliases, len(c.Aliases))
		for k, v := range c.Aliases {
			aliases[k] = slices.Clone(v)
		}
		c.Aliases = aliases
	}
	if c.BadgePriority != nil {
		bp := make(map[string]int, len(c.BadgePriority))
		for k, v := range c.BadgePriority {
			bp[k] = v
		}
		c.BadgePriority = bp
	}
	return c
}
