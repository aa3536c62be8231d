// internal/adapters/source/source.go
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// Scheme names recognised in source references.
const (
	SchemeFile     = "file"
	SchemeHTTP     = "http"
	SchemeHTTPS    = "https"
	SchemeS3       = "s3"
	SchemePostgres = "postgres"
)

// Router picks a CatalogSource by the scheme of the reference. References
// without a scheme go to the file source.
type Router struct {
	sources map[string]ports.CatalogSource
	logger  *slog.Logger
}

var _ ports.RefreshableSource = (*Router)(nil)

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		sources: make(map[string]ports.CatalogSource),
		logger:  logger.With(slog.String("component", "source_router")),
	}
}

// Register binds src to one or more schemes, replacing earlier bindings.
func (r *Router) Register(src ports.CatalogSource, schemes ...string) *Router {
	for _, s := range schemes {
		r.sources[strings.ToLower(s)] = src
	}
	return r
}

// Schemes lists the registered schemes.
func (r *Router) Schemes() []string {
	out := make([]string, 0, len(r.sources))
	for s := range r.sources {
		out = append(out, s)
	}
	return out
}

func (r *Router) Fetch(ctx context.Context, ref string) ([]byte, error) {
	src, err := r.route(ref)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx, ref)
}

// Refresh falls back to Fetch for sources that keep no cache.
func (r *Router) Refresh(ctx context.Context, ref string) ([]byte, error) {
	src, err := r.route(ref)
	if err != nil {
		return nil, err
	}
	if rs, ok := src.(ports.RefreshableSource); ok {
		return rs.Refresh(ctx, ref)
	}
	return src.Fetch(ctx, ref)
}

func (r *Router) route(ref string) (ports.CatalogSource, error) {
	scheme := Scheme(ref)
	src, ok := r.sources[scheme]
	if !ok {
		r.logger.Warn("no catalog source for scheme",
			slog.String("scheme", scheme),
			slog.String("source_ref", ref))
		return nil, fmt.Errorf("%w: no source registered for scheme %q", domain.ErrSourceUnavailable, scheme)
	}
	return src, nil
}

// Scheme returns the lower-cased scheme of ref, or "file" when it has none.
func Scheme(ref string) string {
	scheme, _, ok := strings.Cut(ref, "://")
	if !ok || scheme == "" || strings.ContainsAny(scheme, `/\.`) {
		return SchemeFile
	}
	return strings.ToLower(scheme)
}

func unavailable(ref string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, ref, err)
}
