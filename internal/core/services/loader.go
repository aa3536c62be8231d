// internal/core/services/loader.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/pkg/slug"
)

var (
	maxAmount     = decimal.NewFromInt(math.MaxInt64)
	maxPopularity = decimal.NewFromInt(domain.MaxPopularity)
)

var dateLayouts = []string{domain.DateLayout, time.RFC3339, "2006-01", "2006", "02/01/2006"}

// Rejection records a source record dropped during normalization.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// LoadResult is a freshly built catalog plus what happened while building it.
type LoadResult struct {
	Catalog  *domain.Catalog
	Rejected []Rejection
	// Cause is the source failure that forced the seed fallback.
	Cause error
	// Superseded is set when a newer load finished first and Catalog is its result.
	Superseded bool
}

// Degraded reports whether the catalog came from seed data.
func (r *LoadResult) Degraded() bool {
	return r.Catalog != nil && r.Catalog.Degraded()
}

// CatalogLoader turns a source payload into a normalized Catalog.
type CatalogLoader struct {
	source ports.CatalogSource
	seeds  SeedFunc
	now    func() time.Time
	logger *slog.Logger
}

// LoaderOption customises a CatalogLoader.
type LoaderOption func(*CatalogLoader)

// WithSeeds replaces the embedded seed datasets.
func WithSeeds(seeds SeedFunc) LoaderOption {
	return func(l *CatalogLoader) { l.seeds = seeds }
}

// WithClock sets the clock used for missing release dates.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *CatalogLoader) { l.now = now }
}

// NewCatalogLoader creates a loader reading from source.
func NewCatalogLoader(source ports.CatalogSource, logger *slog.Logger, opts ...LoaderOption) *CatalogLoader {
	l := &CatalogLoader{
		source: source,
		seeds:  EmbeddedSeed,
		now:    time.Now,
		logger: logger.With(slog.String("component", "catalog_loader")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and normalizes the catalog for cfg. With refresh set, caching
// sources are bypassed. Unavailable or malformed sources fall back to the
// domain seed; an empty catalog is returned as an error.
func (l *CatalogLoader) Load(ctx context.Context, cfg *domain.DomainConfig, refresh bool) (*LoadResult, error) {
	raw, err := l.fetch(ctx, cfg.SourceRef, refresh)
	if err != nil {
		return l.fallback(ctx, cfg, &domain.LoadError{
			Kind:      domain.LoadErrorSourceUnavailable,
			Domain:    cfg.Name,
			SourceRef: cfg.SourceRef,
			Err:       err,
		})
	}

	res, err := l.Parse(ctx, cfg, raw, false)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) && loadErr.Fallbackable() {
			return l.fallback(ctx, cfg, loadErr)
		}
		return nil, err
	}

	l.logger.InfoContext(ctx, "catalog loaded",
		slog.String("domain", cfg.Name),
		slog.String("source_ref", cfg.SourceRef),
		slog.Int("items", res.Catalog.Len()),
		slog.Int("rejected", len(res.Rejected)))
	return res, nil
}

func (l *CatalogLoader) fetch(ctx context.Context, ref string, refresh bool) ([]byte, error) {
	if refresh {
		if rs, ok := l.source.(ports.RefreshableSource); ok {
			return rs.Refresh(ctx, ref)
		}
	}
	return l.source.Fetch(ctx, ref)
}

func (l *CatalogLoader) fallback(ctx context.Context, cfg *domain.DomainConfig, cause *domain.LoadError) (*LoadResult, error) {
	seed, ok := l.seeds(cfg.Name)
	if !ok {
		l.logger.ErrorContext(ctx, "catalog load failed and no seed is available",
			slog.String("domain", cfg.Name),
			slog.String("error", cause.Error()))
		return nil, cause
	}

	res, err := l.Parse(ctx, cfg, seed, true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed for %s after %v: %w", cfg.Name, cause, err)
	}
	res.Cause = cause

	l.logger.WarnContext(ctx, "using offline seed data",
		slog.String("domain", cfg.Name),
		slog.String("kind", string(cause.Kind)),
		slog.String("error", cause.Error()),
		slog.Int("items", res.Catalog.Len()))
	return res, nil
}

// Parse decodes a payload that is either a bare array of records or an object
// holding the array under one of the domain's wrapper keys.
func (l *CatalogLoader) Parse(ctx context.Context, cfg *domain.DomainConfig, raw []byte, degraded bool) (*LoadResult, error) {
	records, err := decodeRecords(raw, wrapperKeys(cfg))
	if err != nil {
		return nil, &domain.LoadError{
			Kind:      domain.LoadErrorMalformedResponse,
			Domain:    cfg.Name,
			SourceRef: cfg.SourceRef,
			Err:       err,
		}
	}

	now := l.now().UTC()
	items := make([]domain.Item, 0, len(records))
	var rejected []Rejection
	for i, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			rejected = append(rejected, l.reject(ctx, cfg, i, domain.Item{}, fmt.Errorf("%w: record is not an object", domain.ErrInvalidItem)))
			continue
		}
		it, err := decodeItem(obj, cfg, now)
		if err != nil {
			rejected = append(rejected, l.reject(ctx, cfg, i, it, err))
			continue
		}
		items = append(items, it)
	}

	if len(items) == 0 {
		return nil, &domain.LoadError{
			Kind:      domain.LoadErrorEmptyCatalog,
			Domain:    cfg.Name,
			SourceRef: cfg.SourceRef,
			Err:       fmt.Errorf("%d records, none valid", len(records)),
		}
	}

	catalog, err := domain.NewCatalog(cfg.Name, items, domain.WithDegraded(degraded), domain.WithLoadedAt(now))
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return &LoadResult{Catalog: catalog, Rejected: rejected}, nil
}

func (l *CatalogLoader) reject(ctx context.Context, cfg *domain.DomainConfig, index int, it domain.Item, err error) Rejection {
	l.logger.WarnContext(ctx, "dropping invalid catalog item",
		slog.String("domain", cfg.Name),
		slog.Int("index", index),
		slog.String("id", it.ID),
		slog.String("title", it.Title),
		slog.String("error", err.Error()))
	return Rejection{Index: index, ID: it.ID, Title: it.Title, Reason: err.Error()}
}

func wrapperKeys(cfg *domain.DomainConfig) []string {
	keys := append([]string{}, cfg.WrapperKeys...)
	return append(keys, cfg.Name, "data", "items", "books", "products")
}

func decodeRecords(raw []byte, keys []string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, k := range keys {
			if arr, ok := v[k].([]any); ok {
				return arr, nil
			}
		}
		return nil, fmt.Errorf("object has no item array under %s", strings.Join(keys, ", "))
	}
	return nil, fmt.Errorf("expected an array or object, got %T", doc)
}

// RawRecords unwraps a catalog payload the same way Parse does but leaves each
// record undecoded, for callers that store records verbatim.
func RawRecords(cfg *domain.DomainConfig, raw []byte) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	keys := wrapperKeys(cfg)
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if err := json.Unmarshal(v, &arr); err == nil {
				return arr, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: object has no item array under %s", domain.ErrMalformedResponse, strings.Join(keys, ", "))
}

type record struct {
	fields map[string]any
	cfg    *domain.DomainConfig
}

func (r record) get(field string) (any, bool) {
	for _, k := range r.cfg.SourceKeys(field) {
		if v, ok := r.fields[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(field string) string {
	v, _ := r.get(field)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func (r record) number(field string) (decimal.Decimal, bool) {
	v, ok := r.get(field)
	if !ok {
		return decimal.Zero, false
	}
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		// tolerate currency symbols and thousands separators
		s = strings.Map(func(c rune) rune {
			if unicode.IsDigit(c) || c == '.' || c == '-' {
				return c
			}
			return -1
		}, t)
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (r record) date(field string) time.Time {
	s := r.str(field)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func decodeItem(fields map[string]any, cfg *domain.DomainConfig, now time.Time) (domain.Item, error) {
	r := record{fields: fields, cfg: cfg}
	it := domain.Item{
		ID:             r.str(domain.FieldID),
		Title:          r.str(domain.FieldTitle),
		Creator:        r.str(domain.FieldCreator),
		Category:       r.str(domain.FieldCategory),
		SecondaryGroup: r.str(domain.FieldSecondaryGroup),
		Badge:          r.str(domain.FieldBadge),
		ImageRef:       r.str(domain.FieldImageRef),
		Popularity:     domain.DefaultPopularity,
		ReleaseDate:    r.date(domain.FieldReleaseDate),
	}
	if err := it.Validate(); err != nil {
		return it, err
	}

	if d, ok := r.number(domain.FieldPrice); ok {
		it.Price = clampInt(d, maxAmount)
	}
	if d, ok := r.number(domain.FieldOriginalPrice); ok {
		orig := clampInt(d, maxAmount)
		it.OriginalPrice = &orig
	}
	if d, ok := r.number(domain.FieldRating); ok {
		it.Rating = d.InexactFloat64()
	}
	if d, ok := r.number(domain.FieldPopularity); ok {
		it.Popularity = int(clampInt(d, maxPopularity))
	}
	if it.ID == "" {
		it.ID = slug.ItemID(it.Title, it.Creator)
	}

	it.Normalize(now, cfg.PlaceholderImage)
	return it, nil
}

// clampInt rounds d and bounds it to [0, hi] before leaving decimal, so
// out-of-range source numbers saturate instead of wrapping.
func clampInt(d, hi decimal.Decimal) int64 {
	return decimal.Min(decimal.Max(d.Round(0), decimal.Zero), hi).IntPart()
}
