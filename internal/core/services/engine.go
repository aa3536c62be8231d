// internal/core/services/engine.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/core/query"
)

// DefaultSearchQuiet is how long search input must be idle before it is applied.
const DefaultSearchQuiet = 300 * time.Millisecond

// SessionState is the part of an engine that survives between requests.
type SessionState struct {
	Domain   string           `json:"domain"`
	Query    domain.QuerySpec `json:"query"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	ViewMode domain.ViewMode  `json:"view_mode"`
}

// Engine owns the query and pagination state of one browsing session over a
// domain catalog. Every mutation recomputes synchronously under the engine
// lock; listener calls happen after the lock is released.
type Engine struct {
	cfg      *domain.DomainConfig
	store    *CatalogStore
	pipeline *query.Pipeline
	listener ports.ResultsListener
	shelf    ports.ShelfListener
	search   *Debouncer
	now      func() time.Time
	logger   *slog.Logger

	mu          sync.Mutex
	spec        domain.QuerySpec
	viewMode    domain.ViewMode
	pager       *query.Paginator
	catalog     *domain.Catalog
	result      *query.Result
	state       domain.LoadState
	detail      domain.LoadDetail
	loadSeq     uint64
	restorePage int
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithShelfListener receives cart and wishlist changes.
func WithShelfListener(l ports.ShelfListener) EngineOption {
	return func(e *Engine) { e.shelf = l }
}

// WithSearchQuiet sets the search debounce period.
func WithSearchQuiet(d time.Duration) EngineOption {
	return func(e *Engine) { e.search = NewDebouncer(d) }
}

// WithViewMode starts the engine in a view mode.
func WithViewMode(mode domain.ViewMode) EngineOption {
	return func(e *Engine) {
		e.viewMode = mode
		e.pager.SetPageSize(e.cfg.PageSize(mode))
	}
}

// WithEngineClock sets the clock stamped on shelf events.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an idle engine for domainName. Nothing is fetched until Load.
func NewEngine(store *CatalogStore, domainName string, listener ports.ResultsListener, logger *slog.Logger, opts ...EngineOption) (*Engine, error) {
	cfg, err := store.Domain(domainName)
	if err != nil {
		return nil, err
	}
	if listener == nil {
		listener = NopListener{}
	}

	e := &Engine{
		cfg:      cfg,
		store:    store,
		pipeline: query.NewPipeline(cfg),
		listener: listener,
		search:   NewDebouncer(DefaultSearchQuiet),
		now:      time.Now,
		logger:   logger.With(slog.String("component", "engine"), slog.String("domain", cfg.Name)),
		spec:     domain.QuerySpec{SortKey: cfg.DefaultSort},
		viewMode: domain.ViewGrid,
		pager:    query.NewPaginator(cfg.PageSize(domain.ViewGrid), cfg.WindowSize()),
		state:    domain.LoadStateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's domain configuration.
func (e *Engine) Config() *domain.DomainConfig { return e.cfg }

type emission func(ctx context.Context, l ports.ResultsListener)

func (e *Engine) dispatch(ctx context.Context, emits []emission) {
	for _, emit := range emits {
		emit(ctx, e.listener)
	}
}

func stateEmission(state domain.LoadState, detail domain.LoadDetail) emission {
	return func(ctx context.Context, l ports.ResultsListener) { l.OnLoadStateChanged(ctx, state, detail) }
}

// Load brings in the domain catalog, reusing one another engine already loaded.
func (e *Engine) Load(ctx context.Context) error {
	return e.load(ctx, false)
}

// Reload fetches a fresh catalog from the source, bypassing caches.
func (e *Engine) Reload(ctx context.Context) error {
	return e.load(ctx, true)
}

// Retry re-attempts a failed load.
func (e *Engine) Retry(ctx context.Context) error {
	return e.load(ctx, true)
}

func (e *Engine) load(ctx context.Context, refresh bool) error {
	e.mu.Lock()
	e.loadSeq++
	seq := e.loadSeq
	e.state = domain.LoadStateLoading
	e.detail = domain.LoadDetail{SourceRef: e.cfg.SourceRef}
	loading := e.detail
	e.mu.Unlock()

	e.listener.OnLoadStateChanged(ctx, domain.LoadStateLoading, loading)

	var (
		res *LoadResult
		err error
	)
	if refresh {
		res, err = e.store.Reload(ctx, e.cfg.Name)
	} else {
		res, err = e.store.Ensure(ctx, e.cfg.Name)
	}

	e.mu.Lock()
	if seq != e.loadSeq {
		e.mu.Unlock()
		e.logger.DebugContext(ctx, "ignoring superseded load result", slog.Uint64("seq", seq))
		return nil
	}

	if err != nil {
		e.state = domain.LoadStateError
		e.detail = errorDetail(e.cfg, err)
		emits := []emission{stateEmission(e.state, e.detail)}
		e.mu.Unlock()

		e.logger.WarnContext(ctx, "catalog load failed", slog.String("error", err.Error()))
		e.dispatch(ctx, emits)
		return err
	}

	e.catalog = res.Catalog
	e.state = domain.LoadStateReady
	e.detail = domain.LoadDetail{
		SourceRef: e.cfg.SourceRef,
		Degraded:  res.Degraded(),
		ItemCount: res.Catalog.Len(),
		Rejected:  len(res.Rejected),
		Retryable: res.Degraded(),
	}
	if res.Degraded() {
		e.detail.Notice = domain.OfflineNotice
	}

	emits := []emission{stateEmission(e.state, e.detail)}
	options := e.pipeline.FilterOptions(e.catalog)
	for _, name := range e.cfg.Filters {
		f, v := name, options[name]
		emits = append(emits, func(ctx context.Context, l ports.ResultsListener) { l.OnFilterOptionsDiscovered(ctx, f, v) })
	}

	pageEmits, err := e.recomputeLocked(false)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if e.restorePage > 0 {
		e.pager.Restore(e.restorePage)
		e.restorePage = 0
		pageEmits = e.pageEmissionsLocked(false)
	}
	emits = append(emits, pageEmits...)
	e.mu.Unlock()

	e.dispatch(ctx, emits)
	return nil
}

func errorDetail(cfg *domain.DomainConfig, err error) domain.LoadDetail {
	d := domain.LoadDetail{SourceRef: cfg.SourceRef, Retryable: true, Message: "Catalog is unavailable"}
	var loadErr *domain.LoadError
	if errors.As(err, &loadErr) {
		d.Kind = loadErr.Kind
	}
	if errors.Is(err, domain.ErrEmptyCatalog) {
		d.Message = "No items available"
	}
	return d
}

func (e *Engine) recomputeLocked(scroll bool) ([]emission, error) {
	if e.catalog == nil {
		return nil, nil
	}
	res, err := e.pipeline.Evaluate(e.catalog, e.spec)
	if err != nil {
		return nil, err
	}
	e.result = res
	return e.pageEmissionsLocked(scroll), nil
}

func (e *Engine) pageEmissionsLocked(scroll bool) []emission {
	page := e.result.Page(e.pager)
	page.ScrollIntoView = scroll
	model := e.pager.Model()
	return []emission{
		func(ctx context.Context, l ports.ResultsListener) { l.OnResultsReady(ctx, page) },
		func(ctx context.Context, l ports.ResultsListener) { l.OnPaginationModel(ctx, model) },
	}
}

// SetQuery replaces the whole QuerySpec, returns to page 1 and recomputes.
// Filters the domain does not offer and unknown price buckets are rejected
// before anything changes.
func (e *Engine) SetQuery(ctx context.Context, spec domain.QuerySpec) error {
	return e.updateQuery(ctx, func(domain.QuerySpec) domain.QuerySpec { return spec })
}

// SetSearchText applies search text immediately.
func (e *Engine) SetSearchText(ctx context.Context, text string) error {
	return e.updateQuery(ctx, func(q domain.QuerySpec) domain.QuerySpec {
		q.SearchText = text
		return q
	})
}

// SearchInput applies search text once typing has paused. A newer keystroke
// replaces the pending update.
func (e *Engine) SearchInput(ctx context.Context, text string) {
	detached := context.WithoutCancel(ctx)
	e.search.Trigger(func() {
		if err := e.SetSearchText(detached, text); err != nil {
			e.logger.WarnContext(detached, "debounced search failed", slog.String("error", err.Error()))
		}
	})
}

// FlushSearch applies pending search input now.
func (e *Engine) FlushSearch() bool {
	return e.search.Flush()
}

// SetFilter sets or, with an empty value, clears one field filter.
func (e *Engine) SetFilter(ctx context.Context, name domain.FilterName, value string) error {
	return e.updateQuery(ctx, func(q domain.QuerySpec) domain.QuerySpec {
		return q.WithFilter(name, value)
	})
}

// SetSort changes the sort key. Unknown keys sort by the domain default.
func (e *Engine) SetSort(ctx context.Context, key domain.SortKey) error {
	return e.updateQuery(ctx, func(q domain.QuerySpec) domain.QuerySpec {
		q.SortKey = key
		return q
	})
}

// ClearFilters resets search, filters and sort to the domain defaults.
func (e *Engine) ClearFilters(ctx context.Context) error {
	return e.updateQuery(ctx, func(domain.QuerySpec) domain.QuerySpec {
		return domain.QuerySpec{SortKey: e.cfg.DefaultSort}
	})
}

func (e *Engine) updateQuery(ctx context.Context, mutate func(domain.QuerySpec) domain.QuerySpec) error {
	e.mu.Lock()
	next := mutate(e.spec.Clone()).Normalized()
	if _, err := query.NewMatcher(e.cfg, next); err != nil {
		e.mu.Unlock()
		return err
	}
	e.spec = next
	e.pager.Reset()
	emits, err := e.recomputeLocked(false)
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.dispatch(ctx, emits)
	return nil
}

// RequestPage navigates. Requests outside the valid range, or for the current
// page, change nothing and return false.
func (e *Engine) RequestPage(ctx context.Context, req domain.PageRequest) bool {
	e.mu.Lock()
	if e.result == nil || !e.pager.Apply(req) {
		e.mu.Unlock()
		return false
	}
	emits := e.pageEmissionsLocked(true)
	e.mu.Unlock()

	e.dispatch(ctx, emits)
	return true
}

// SetViewMode switches between grid and list page sizes.
func (e *Engine) SetViewMode(ctx context.Context, mode domain.ViewMode) error {
	if mode != domain.ViewGrid && mode != domain.ViewList {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	e.mu.Lock()
	e.viewMode = mode
	e.mu.Unlock()
	return e.SetPageSize(ctx, e.cfg.PageSize(mode))
}

// SetPageSize changes the page size and returns to page 1.
func (e *Engine) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return fmt.Errorf("page size must be positive, got %d", size)
	}
	e.mu.Lock()
	e.pager.SetPageSize(size)
	e.pager.Reset()
	var emits []emission
	if e.result != nil {
		emits = e.pageEmissionsLocked(false)
	}
	e.mu.Unlock()

	e.dispatch(ctx, emits)
	return nil
}

// Query returns a copy of the active QuerySpec.
func (e *Engine) Query() domain.QuerySpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spec.Clone()
}

// LoadState returns the current load state and its detail.
func (e *Engine) LoadState() (domain.LoadState, domain.LoadDetail) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.detail
}

// Current returns the visible page and controls without notifying anyone.
// ok is false before the first successful load.
func (e *Engine) Current() (page domain.ResultsPage, model domain.PaginationModel, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return domain.ResultsPage{}, domain.PaginationModel{}, false
	}
	return e.result.Page(e.pager), e.pager.Model(), true
}

// State captures what is needed to rebuild this session later.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SessionState{
		Domain:   e.cfg.Name,
		Query:    e.spec.Clone(),
		Page:     e.pager.Page(),
		PageSize: e.pager.PageSize(),
		ViewMode: e.viewMode,
	}
}

// Restore reinstates a saved session. It notifies nobody; the page is clamped
// against the catalog on the next load.
func (e *Engine) Restore(st SessionState) error {
	if st.Domain != "" && st.Domain != e.cfg.Name {
		return fmt.Errorf("%w: session belongs to %q, engine serves %q", domain.ErrUnknownDomain, st.Domain, e.cfg.Name)
	}
	spec := st.Query.Normalized()
	if _, err := query.NewMatcher(e.cfg, spec); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.spec = spec
	if st.ViewMode != "" {
		e.viewMode = st.ViewMode
	}
	if !e.pager.SetPageSize(st.PageSize) {
		e.pager.SetPageSize(e.cfg.PageSize(e.viewMode))
	}
	e.restorePage = max(st.Page, 1)
	if e.catalog != nil {
		if _, err := e.recomputeLocked(false); err != nil {
			return err
		}
		e.pager.Restore(e.restorePage)
		e.restorePage = 0
	}
	return nil
}

// AddToCart puts qty of an item in the shopper's cart.
func (e *Engine) AddToCart(ctx context.Context, shopperID, itemID string, qty int) (*domain.ShelfEvent, error) {
	return e.changeShelf(ctx, shopperID, domain.ShelfCart, domain.ShelfAdded, itemID, qty)
}

// RemoveFromCart takes an item out of the shopper's cart.
func (e *Engine) RemoveFromCart(ctx context.Context, shopperID, itemID string) (*domain.ShelfEvent, error) {
	return e.changeShelf(ctx, shopperID, domain.ShelfCart, domain.ShelfRemoved, itemID, 0)
}

// AddToWishlist marks an item on the shopper's wishlist.
func (e *Engine) AddToWishlist(ctx context.Context, shopperID, itemID string) (*domain.ShelfEvent, error) {
	return e.changeShelf(ctx, shopperID, domain.ShelfWishlist, domain.ShelfAdded, itemID, 1)
}

// RemoveFromWishlist drops an item from the shopper's wishlist.
func (e *Engine) RemoveFromWishlist(ctx context.Context, shopperID, itemID string) (*domain.ShelfEvent, error) {
	return e.changeShelf(ctx, shopperID, domain.ShelfWishlist, domain.ShelfRemoved, itemID, 0)
}

func (e *Engine) changeShelf(ctx context.Context, shopperID string, shelf domain.ShelfKind, action domain.ShelfAction, itemID string, qty int) (*domain.ShelfEvent, error) {
	e.mu.Lock()
	catalog := e.catalog
	e.mu.Unlock()

	ev, err := buildShelfEvent(catalog, ports.ShelfRequest{
		ShopperID: shopperID,
		Domain:    e.cfg.Name,
		Shelf:     shelf,
		ItemID:    itemID,
		Quantity:  qty,
		Remove:    action == domain.ShelfRemoved,
	}, e.now())
	if err != nil {
		return nil, err
	}
	if e.shelf != nil {
		e.shelf.OnShelfChanged(ctx, *ev)
	}
	return ev, nil
}

// buildShelfEvent checks the item exists in catalog and describes the change.
func buildShelfEvent(catalog *domain.Catalog, req ports.ShelfRequest, now time.Time) (*domain.ShelfEvent, error) {
	if catalog == nil {
		return nil, domain.ErrNotLoaded
	}
	if req.ShopperID == "" {
		return nil, fmt.Errorf("shopper id is required")
	}
	it, ok := catalog.Lookup(req.ItemID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", domain.ErrUnknownItem, req.ItemID, req.Domain)
	}

	ev := &domain.ShelfEvent{
		ShopperID: req.ShopperID,
		Domain:    req.Domain,
		Shelf:     req.Shelf,
		Action:    domain.ShelfAdded,
		ItemID:    it.ID,
		Title:     it.Title,
		Quantity:  max(req.Quantity, 1),
		At:        now.UTC(),
	}
	if req.Shelf == domain.ShelfWishlist {
		ev.Quantity = 1
	}
	if req.Remove {
		ev.Action = domain.ShelfRemoved
		ev.Quantity = 0
	}
	return ev, nil
}

// Close drops any pending debounced search.
func (e *Engine) Close() {
	e.search.Stop()
}
