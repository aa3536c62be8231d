// internal/core/domain/query.go
package domain

import (
	"maps"
	"strings"
)

// FilterName identifies a field filter.
type FilterName string

const (
	FilterCategory       FilterName = "category"
	FilterSecondaryGroup FilterName = "secondaryGroup"
	FilterCreator        FilterName = "creator"
	FilterPrice          FilterName = "price"
)

var filterAliases = map[string]FilterName{
	"category":        FilterCategory,
	"secondarygroup":  FilterSecondaryGroup,
	"secondary_group": FilterSecondaryGroup,
	"agegroup":        FilterSecondaryGroup,
	"age_group":       FilterSecondaryGroup,
	"age":             FilterSecondaryGroup,
	"creator":         FilterCreator,
	"author":          FilterCreator,
	"brand":           FilterCreator,
	"manufacturer":    FilterCreator,
	"price":           FilterPrice,
	"price_range":     FilterPrice,
	"pricerange":      FilterPrice,
}

// ParseFilterName resolves a filter name or one of its domain spellings.
func ParseFilterName(s string) (FilterName, bool) {
	f, ok := filterAliases[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

// SortKey identifies a comparator in the sort registry.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortPopular    SortKey = "popular"
	SortPopularity SortKey = "popularity"
	SortRating     SortKey = "rating"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortTitle      SortKey = "title"
	SortCreator    SortKey = "creator"
	SortAuthor     SortKey = "author"
	SortFeatured   SortKey = "featured"
	SortRank       SortKey = "rank"
)

// Canonical folds synonyms onto one key.
func (k SortKey) Canonical() SortKey {
	switch k {
	case SortPopularity:
		return SortPopular
	case SortAuthor:
		return SortCreator
	}
	return k
}

// IsKnown reports whether k names a registered comparator.
func (k SortKey) IsKnown() bool {
	switch k.Canonical() {
	case SortNewest, SortOldest, SortPopular, SortRating, SortPriceLow,
		SortPriceHigh, SortTitle, SortCreator, SortFeatured, SortRank:
		return true
	}
	return false
}

// SortKeys lists the canonical sort keys in menu order.
func SortKeys() []SortKey {
	return []SortKey{
		SortFeatured, SortNewest, SortOldest, SortPopular, SortRating,
		SortPriceLow, SortPriceHigh, SortTitle, SortCreator, SortRank,
	}
}

// ViewMode selects the grid or list page size of a domain.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// QuerySpec is the active search, filter and sort selection.
type QuerySpec struct {
	SearchText string                `json:"search_text,omitempty"`
	Filters    map[FilterName]string `json:"filters,omitempty"`
	SortKey    SortKey               `json:"sort_key,omitempty"`
}

// Clone returns a deep copy.
func (q QuerySpec) Clone() QuerySpec {
	q.Filters = maps.Clone(q.Filters)
	return q
}

// WithFilter returns a copy with the filter set, or removed when value is empty.
func (q QuerySpec) WithFilter(name FilterName, value string) QuerySpec {
	c := q.Clone()
	value = strings.TrimSpace(value)
	if value == "" {
		delete(c.Filters, name)
		return c
	}
	if c.Filters == nil {
		c.Filters = make(map[FilterName]string)
	}
	c.Filters[name] = value
	return c
}

// Filter returns the active value of a filter, or "" when inactive.
func (q QuerySpec) Filter(name FilterName) string {
	return strings.TrimSpace(q.Filters[name])
}

// ActiveFilters returns only the filters carrying a non-empty value.
func (q QuerySpec) ActiveFilters() map[FilterName]string {
	out := make(map[FilterName]string, len(q.Filters))
	for k, v := range q.Filters {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// Normalized trims text and drops inactive filters so equal selections compare equal.
func (q QuerySpec) Normalized() QuerySpec {
	n := QuerySpec{
		SearchText: strings.TrimSpace(q.SearchText),
		SortKey:    SortKey(strings.ToLower(strings.TrimSpace(string(q.SortKey)))),
	}
	if active := q.ActiveFilters(); len(active) > 0 {
		n.Filters = active
	}
	return n
}

// Equal compares two specs after normalization.
func (q QuerySpec) Equal(o QuerySpec) bool {
	a, b := q.Normalized(), o.Normalized()
	return a.SearchText == b.SearchText && a.SortKey == b.SortKey && maps.Equal(a.Filters, b.Filters)
}

// IsZero reports whether no search or filter is active.
func (q QuerySpec) IsZero() bool {
	return strings.TrimSpace(q.SearchText) == "" && len(q.ActiveFilters()) == 0
}
