// internal/adapters/redis_adapter/cached_source.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// CachedSource keeps raw catalog payloads in Redis in front of a slower source.
// Payloads that are not valid JSON are passed through uncached so a bad
// response is never served twice.
type CachedSource struct {
	inner  ports.CatalogSource
	cache  *Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.RefreshableSource = (*CachedSource)(nil)

// NewCachedSource wraps inner. A non-positive ttl uses the cache default.
func NewCachedSource(inner ports.CatalogSource, cache *Cache, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = cache.ttl
	}
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cached_source")),
	}
}

func catalogKey(ref string) string {
	return BuildKey(PrefixCatalog, ref)
}

// Fetch serves ref from the cache, falling through to the inner source on a
// miss or when Redis is unreachable.
func (s *CachedSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var raw json.RawMessage
	err := s.cache.Get(ctx, catalogKey(ref), &raw)
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.WarnContext(ctx, "catalog cache unavailable, reading source",
			slog.String("source_ref", ref),
			slog.String("error", err.Error()))
	}
	return s.fill(ctx, ref, false)
}

// Refresh reads ref from the inner source and overwrites the cached copy.
func (s *CachedSource) Refresh(ctx context.Context, ref string) ([]byte, error) {
	return s.fill(ctx, ref, true)
}

// Purge drops every cached catalog payload.
func (s *CachedSource) Purge(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, BuildKey(PrefixCatalog, "*")); err != nil {
		return fmt.Errorf("failed to purge catalog cache: %w", err)
	}
	return nil
}

func (s *CachedSource) fill(ctx context.Context, ref string, refresh bool) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if rs, ok := s.inner.(ports.RefreshableSource); ok && refresh {
		raw, err = rs.Refresh(ctx, ref)
	} else {
		raw, err = s.inner.Fetch(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	if !json.Valid(raw) {
		s.logger.WarnContext(ctx, "not caching invalid catalog payload", slog.String("source_ref", ref))
		return raw, nil
	}
	if err := s.cache.SetWithTTL(ctx, catalogKey(ref), json.RawMessage(raw), s.ttl); err != nil {
		s.logger.WarnContext(ctx, "failed to cache catalog payload",
			slog.String("source_ref", ref),
			slog.String("error", err.Error()))
	}
	return raw, nil
}
