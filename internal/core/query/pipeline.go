// internal/core/query/pipeline.go
package query

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// Result is the filtered and sorted list for one QuerySpec.
type Result struct {
	Items   []domain.Item
	SortKey domain.SortKey
	Query   domain.QuerySpec
}

// Pipeline evaluates queries for one domain.
type Pipeline struct {
	cfg    *domain.DomainConfig
	sorter *Sorter
}

// NewPipeline binds a validated domain configuration.
func NewPipeline(cfg *domain.DomainConfig) *Pipeline {
	return &Pipeline{cfg: cfg, sorter: NewSorter(cfg)}
}

// Config returns the bound domain configuration.
func (p *Pipeline) Config() *domain.DomainConfig { return p.cfg }

// Evaluate filters the catalog then stably sorts the survivors. The catalog is
// never modified.
func (p *Pipeline) Evaluate(catalog *domain.Catalog, spec domain.QuerySpec) (*Result, error) {
	m, err := NewMatcher(p.cfg, spec)
	if err != nil {
		return nil, err
	}
	items := m.Filter(catalog.Items())
	key := p.sorter.Sort(items, spec.SortKey)
	return &Result{Items: items, SortKey: key, Query: spec.Normalized()}, nil
}

// Page cuts the paginator's current page out of r.
func (r *Result) Page(pager *Paginator) domain.ResultsPage {
	pager.SetCount(len(r.Items))
	start, end := pager.Bounds()

	page := domain.ResultsPage{
		Items:      slices.Clone(r.Items[start:end]),
		Page:       pager.Page(),
		PageSize:   pager.PageSize(),
		TotalPages: pager.TotalPages(),
		TotalCount: len(r.Items),
		SortKey:    r.SortKey,
		Query:      r.Query,
	}
	if end > start {
		page.From, page.To = start+1, end
	}
	return page
}

// FilterOptions returns the selectable values of each allowed filter. Field
// values are collated for the domain locale; price options follow the bucket
// table.
func (p *Pipeline) FilterOptions(catalog *domain.Catalog) map[domain.FilterName][]string {
	tag, err := language.Parse(p.cfg.Locale)
	if err != nil {
		tag = language.English
	}
	col := collate.New(tag, collate.IgnoreCase)

	out := make(map[domain.FilterName][]string, len(p.cfg.Filters))
	for _, f := range p.cfg.Filters {
		if f == domain.FilterPrice {
			out[f] = p.cfg.Buckets().Names()
			continue
		}
		values := catalog.DistinctValues(f)
		col.SortStrings(values)
		if values == nil {
			values = []string{}
		}
		out[f] = values
	}
	return out
}
