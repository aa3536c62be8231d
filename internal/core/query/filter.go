// internal/core/query/filter.go
package query

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

type predicate func(it *domain.Item) bool

// Matcher decides whether an item passes a QuerySpec. It holds a case folder
// and must not be shared between goroutines.
type Matcher struct {
	folder cases.Caser
	needle string
	preds  []predicate
}

// NewMatcher compiles spec against the domain's allowed filters and price buckets.
func NewMatcher(cfg *domain.DomainConfig, spec domain.QuerySpec) (*Matcher, error) {
	m := &Matcher{folder: cases.Fold()}
	if text := strings.TrimSpace(spec.SearchText); text != "" {
		m.needle = m.folder.String(text)
	}

	for name, value := range spec.ActiveFilters() {
		if !cfg.AllowsFilter(name) {
			return nil, fmt.Errorf("%w: %q is not available for %s", domain.ErrUnknownFilter, name, cfg.Name)
		}
		if name == domain.FilterPrice {
			bucket, ok := cfg.Buckets().Find(value)
			if !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPriceBucket, value)
			}
			m.preds = append(m.preds, func(it *domain.Item) bool { return bucket.Contains(it.Price) })
			continue
		}
		field, want := name, value
		m.preds = append(m.preds, func(it *domain.Item) bool { return it.Field(field) == want })
	}
	return m, nil
}

// Match reports whether it passes the search text and every active filter.
func (m *Matcher) Match(it *domain.Item) bool {
	for _, p := range m.preds {
		if !p(it) {
			return false
		}
	}
	return m.matchText(it)
}

func (m *Matcher) matchText(it *domain.Item) bool {
	if m.needle == "" {
		return true
	}
	for _, field := range [...]string{it.Title, it.Creator, it.Category, it.SecondaryGroup} {
		if field != "" && strings.Contains(m.folder.String(field), m.needle) {
			return true
		}
	}
	return false
}

// Filter returns the matching items in their input order.
func (m *Matcher) Filter(items []domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for i := range items {
		if m.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
