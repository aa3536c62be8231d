// internal/core/domain/catalog.go
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Catalog is the ordered, read-only item list of one domain. A reload builds a
// new Catalog rather than mutating an existing one.
type Catalog struct {
	domain   string
	items    []Item
	index    map[string]int
	loadedAt time.Time
	degraded bool
	version  uint64
}

// CatalogOption customises NewCatalog.
type CatalogOption func(*Catalog)

// WithDegraded marks a catalog built from fallback seed data.
func WithDegraded(degraded bool) CatalogOption {
	return func(c *Catalog) { c.degraded = degraded }
}

// WithLoadedAt stamps the load time.
func WithLoadedAt(t time.Time) CatalogOption {
	return func(c *Catalog) { c.loadedAt = t }
}

// NewCatalog copies items into a catalog, suffixing duplicate ids with -2, -3
// and so on so every id is unique.
func NewCatalog(domainName string, items []Item, opts ...CatalogOption) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", domainName, ErrEmptyCatalog)
	}
	c := &Catalog{
		domain:   domainName,
		items:    make([]Item, len(items)),
		index:    make(map[string]int, len(items)),
		loadedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, it := range items {
		base := strings.TrimSpace(it.ID)
		if base == "" {
			return nil, fmt.Errorf("%w: item %q has no id", ErrInvalidItem, it.Title)
		}
		id := base
		for n := 2; ; n++ {
			if _, taken := c.index[id]; !taken {
				break
			}
			id = fmt.Sprintf("%s-%d", base, n)
		}
		it.ID = id
		c.items[i] = it
		c.index[id] = i
	}
	return c, nil
}

// Domain returns the domain name.
func (c *Catalog) Domain() string { return c.domain }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Degraded reports whether the catalog came from fallback seed data.
func (c *Catalog) Degraded() bool { return c.degraded }

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Version is the load generation that produced the catalog.
func (c *Catalog) Version() uint64 { return c.version }

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	return slices.Clone(c.items)
}

// Lookup finds an item by id.
func (c *Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Stamp returns a shallow copy carrying the given version. Items are shared
// since neither copy mutates them.
func (c *Catalog) Stamp(version uint64) *Catalog {
	cp := *c
	cp.version = version
	return &cp
}

// DistinctValues returns the non-empty values of a field in first-seen order.
func (c *Catalog) DistinctValues(field FilterName) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range c.items {
		v := c.items[i].Field(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
