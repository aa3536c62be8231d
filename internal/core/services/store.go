// internal/core/services/store.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// CatalogStore holds the loaded catalog of every configured domain and shares
// it between engines. Each load takes a generation number; a load that
// finishes after a newer one has been committed is discarded.
type CatalogStore struct {
	loader  *CatalogLoader
	configs map[string]*domain.DomainConfig
	order   []string
	group   singleflight.Group
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	started   uint64
	committed uint64
	result    *LoadResult
	lastErr   error
	loadedAt  time.Time
}

// CatalogStatus is a point-in-time view of one domain, for health reporting.
type CatalogStatus struct {
	Domain    string    `json:"domain"`
	Loaded    bool      `json:"loaded"`
	Degraded  bool      `json:"degraded"`
	Items     int       `json:"items"`
	Version   uint64    `json:"version"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// NewCatalogStore validates the domain configurations and creates an empty store.
func NewCatalogStore(loader *CatalogLoader, configs []domain.DomainConfig, logger *slog.Logger) (*CatalogStore, error) {
	s := &CatalogStore{
		loader:  loader,
		configs: make(map[string]*domain.DomainConfig, len(configs)),
		entries: make(map[string]*storeEntry, len(configs)),
		logger:  logger.With(slog.String("component", "catalog_store")),
	}
	for i := range configs {
		cfg := configs[i].Clone()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.configs[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: domain %q configured twice", domain.ErrInvalidConfig, cfg.Name)
		}
		s.configs[cfg.Name] = &cfg
		s.entries[cfg.Name] = &storeEntry{}
		s.order = append(s.order, cfg.Name)
	}
	return s, nil
}

// Domain returns the validated configuration for name.
func (s *CatalogStore) Domain(name string) (*domain.DomainConfig, error) {
	cfg, ok := s.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, name)
	}
	return cfg, nil
}

// Domains returns every configuration in declaration order.
func (s *CatalogStore) Domains() []*domain.DomainConfig {
	out := make([]*domain.DomainConfig, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.configs[name])
	}
	return out
}

// Catalog returns the committed catalog of a domain, if any.
func (s *CatalogStore) Catalog(name string) (*domain.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok || e.result == nil {
		return nil, false
	}
	return e.result.Catalog, true
}

// Ensure returns the committed catalog, loading it first if the domain has
// never loaded. Concurrent first loads of one domain share a single fetch.
func (s *CatalogStore) Ensure(ctx context.Context, name string) (*LoadResult, error) {
	if res := s.committed(name); res != nil {
		return res, nil
	}
	v, err, _ := s.group.Do(name, func() (interface{}, error) {
		if res := s.committed(name); res != nil {
			return res, nil
		}
		return s.load(ctx, name, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*LoadResult), nil
}

// Load fetches the catalog through any caches.
func (s *CatalogStore) Load(ctx context.Context, name string) (*LoadResult, error) {
	return s.load(ctx, name, false)
}

// Reload fetches the catalog bypassing caches and replaces it wholesale.
func (s *CatalogStore) Reload(ctx context.Context, name string) (*LoadResult, error) {
	return s.load(ctx, name, true)
}

func (s *CatalogStore) committed(name string) *LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[name]; ok {
		return e.result
	}
	return nil
}

func (s *CatalogStore) load(ctx context.Context, name string, refresh bool) (*LoadResult, error) {
	cfg, err := s.Domain(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	e := s.entries[name]
	e.started++
	gen := e.started
	s.mu.Unlock()

	res, loadErr := s.loader.Load(ctx, cfg, refresh)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < e.committed {
		s.logger.DebugContext(ctx, "discarding superseded catalog load",
			slog.String("domain", name),
			slog.Uint64("generation", gen),
			slog.Uint64("committed", e.committed))
		if e.result == nil {
			return nil, domain.ErrSuperseded
		}
		cp := *e.result
		cp.Superseded = true
		return &cp, nil
	}

	e.committed = gen
	if loadErr != nil {
		e.lastErr = loadErr
		return nil, fmt.Errorf("failed to load %s catalog: %w", name, loadErr)
	}

	res.Catalog = res.Catalog.Stamp(gen)
	e.result = res
	e.lastErr = nil
	e.loadedAt = res.Catalog.LoadedAt()
	return res, nil
}

// Status reports every domain's load state.
func (s *CatalogStore) Status() []CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CatalogStatus, 0, len(s.order))
	for _, name := range s.order {
		e := s.entries[name]
		st := CatalogStatus{Domain: name}
		if e.result != nil {
			st.Loaded = true
			st.Degraded = e.result.Degraded()
			st.Items = e.result.Catalog.Len()
			st.Version = e.result.Catalog.Version()
			st.LoadedAt = e.loadedAt
		}
		if e.lastErr != nil {
			st.LastError = e.lastErr.Error()
		}
		out = append(out, st)
	}
	return out
}
