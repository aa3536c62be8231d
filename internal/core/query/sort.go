// internal/core/query/sort.go
package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// Comparator orders two items; negative means a sorts first.
type Comparator func(a, b *domain.Item) int

type comparatorFactory func(cfg *domain.DomainConfig, col *collate.Collator) Comparator

var comparators = map[domain.SortKey]comparatorFactory{
	domain.SortNewest: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return b.ReleaseDate.Compare(a.ReleaseDate) }
	},
	domain.SortOldest: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return a.ReleaseDate.Compare(b.ReleaseDate) }
	},
	domain.SortPopular: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return cmp.Compare(b.Popularity, a.Popularity) }
	},
	domain.SortRating: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return cmp.Compare(b.Rating, a.Rating) }
	},
	domain.SortPriceLow: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return cmp.Compare(a.Price, b.Price) }
	},
	domain.SortPriceHigh: func(*domain.DomainConfig, *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return cmp.Compare(b.Price, a.Price) }
	},
	domain.SortTitle: func(_ *domain.DomainConfig, col *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return col.CompareString(a.Title, b.Title) }
	},
	domain.SortCreator: func(_ *domain.DomainConfig, col *collate.Collator) Comparator {
		return func(a, b *domain.Item) int { return col.CompareString(a.Creator, b.Creator) }
	},
	domain.SortFeatured: func(cfg *domain.DomainConfig, _ *collate.Collator) Comparator {
		return func(a, b *domain.Item) int {
			if c := cmp.Compare(cfg.BadgeRank(b.Badge), cfg.BadgeRank(a.Badge)); c != 0 {
				return c
			}
			return cmp.Compare(b.Rating, a.Rating)
		}
	},
	domain.SortRank: func(cfg *domain.DomainConfig, _ *collate.Collator) Comparator {
		return func(a, b *domain.Item) int {
			return cmp.Compare(b.RankScore(cfg.RankWeights), a.RankScore(cfg.RankWeights))
		}
	},
}

// Sorter applies a domain's comparators. It is safe for concurrent use; each
// Sort call builds its own collator.
type Sorter struct {
	cfg *domain.DomainConfig
	tag language.Tag
}

// NewSorter prepares a sorter for cfg's locale, falling back to English.
func NewSorter(cfg *domain.DomainConfig) *Sorter {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.English
	}
	return &Sorter{cfg: cfg, tag: tag}
}

// Resolve maps key to the comparator that will actually run.
func (s *Sorter) Resolve(key domain.SortKey) domain.SortKey {
	return s.cfg.ResolveSort(key)
}

// Sort orders items in place by key and returns the key used. Equal items keep
// their relative order.
func (s *Sorter) Sort(items []domain.Item, key domain.SortKey) domain.SortKey {
	key = s.Resolve(key)
	compare := comparators[key](s.cfg, collate.New(s.tag, collate.IgnoreCase))
	slices.SortStableFunc(items, func(a, b domain.Item) int { return compare(&a, &b) })
	return key
}
