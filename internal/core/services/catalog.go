// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/query"
)

// MaxPageSize caps caller-supplied page sizes.
const MaxPageSize = 100

// CatalogService answers one-shot queries against the shared catalogs.
type CatalogService struct {
	store  *CatalogStore
	shelf  ports.ShelfListener
	now    func() time.Time
	logger *slog.Logger
}

// Statically assert that *CatalogService implements the CatalogService interface.
var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a catalog service. shelf may be nil.
func NewCatalogService(store *CatalogStore, shelf ports.ShelfListener, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		shelf:  shelf,
		now:    time.Now,
		logger: logger.With(slog.String("service", "catalog")),
	}
}

// Domains lists every configured domain.
func (s *CatalogService) Domains() []domain.DomainConfig {
	cfgs := s.store.Domains()
	out := make([]domain.DomainConfig, len(cfgs))
	for i, c := range cfgs {
		out[i] = c.Clone()
	}
	return out
}

// Query evaluates params against the domain catalog. Unlike an engine, which
// ignores out-of-range navigation, a one-shot query clamps the page.
func (s *CatalogService) Query(ctx context.Context, domainName string, params ports.QueryParams) (*ports.QueryResult, error) {
	cfg, err := s.store.Domain(domainName)
	if err != nil {
		return nil, err
	}
	loaded, err := s.store.Ensure(ctx, domainName)
	if err != nil {
		return nil, err
	}

	res, err := query.NewPipeline(cfg).Evaluate(loaded.Catalog, params.Query)
	if err != nil {
		return nil, err
	}

	size := params.PageSize
	if size <= 0 {
		size = cfg.PageSize(params.View)
	}
	size = min(size, MaxPageSize)
	if params.All {
		size = max(len(res.Items), 1)
	}

	pager := query.NewPaginator(size, cfg.WindowSize())
	pager.SetCount(len(res.Items))
	pager.Restore(params.Page)
	page := res.Page(pager)

	s.logger.DebugContext(ctx, "catalog query",
		slog.String("domain", domainName),
		slog.String("sort", string(res.SortKey)),
		slog.Int("matches", page.TotalCount),
		slog.Int("page", page.Page))

	return &ports.QueryResult{
		Items:      page.Items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		Showing:    page.ShowingLabel(),
		SortKey:    page.SortKey,
		Query:      page.Query,
		Pagination: pager.Model(),
		Degraded:   loaded.Degraded(),
		Version:    loaded.Catalog.Version(),
	}, nil
}

// Options returns the selectable values of each of the domain's filters.
func (s *CatalogService) Options(ctx context.Context, domainName string) (map[domain.FilterName][]string, error) {
	cfg, err := s.store.Domain(domainName)
	if err != nil {
		return nil, err
	}
	loaded, err := s.store.Ensure(ctx, domainName)
	if err != nil {
		return nil, err
	}
	return query.NewPipeline(cfg).FilterOptions(loaded.Catalog), nil
}

// Reload replaces the domain catalog with a fresh fetch.
func (s *CatalogService) Reload(ctx context.Context, domainName string) (*ports.ReloadResult, error) {
	res, err := s.store.Reload(ctx, domainName)
	if err != nil {
		return nil, err
	}
	out := &ports.ReloadResult{
		Domain:    domainName,
		ItemCount: res.Catalog.Len(),
		Rejected:  len(res.Rejected),
		Degraded:  res.Degraded(),
		Version:   res.Catalog.Version(),
	}
	if out.Degraded {
		out.Notice = domain.OfflineNotice
	}
	s.logger.InfoContext(ctx, "catalog reloaded",
		slog.String("domain", domainName),
		slog.Int("items", out.ItemCount),
		slog.Bool("degraded", out.Degraded),
		slog.Bool("superseded", res.Superseded))
	return out, nil
}

// UpdateShelf validates the item against the catalog and announces the change.
func (s *CatalogService) UpdateShelf(ctx context.Context, req ports.ShelfRequest) (*domain.ShelfEvent, error) {
	if _, err := s.store.Domain(req.Domain); err != nil {
		return nil, err
	}
	loaded, err := s.store.Ensure(ctx, req.Domain)
	if err != nil {
		return nil, err
	}
	ev, err := buildShelfEvent(loaded.Catalog, req, s.now())
	if err != nil {
		return nil, fmt.Errorf("shelf update rejected: %w", err)
	}
	if s.shelf != nil {
		s.shelf.OnShelfChanged(ctx, *ev)
	}
	return ev, nil
}
