// internal/handlers/catalog.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// CatalogHandler serves one-shot catalog queries.
type CatalogHandler struct {
	responder
	service ports.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service ports.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		responder: responder{logger: logger.With(slog.String("handler", "catalog"))},
		service:   service,
	}
}

// DomainSummary is the public description of a domain.
type DomainSummary struct {
	Name           string              `json:"name"`
	Title          string              `json:"title"`
	CreatorLabel   string              `json:"creator_label"`
	SecondaryLabel string              `json:"secondary_label,omitempty"`
	Filters        []domain.FilterName `json:"filters"`
	PriceBuckets   []string            `json:"price_buckets,omitempty"`
	PageSizes      domain.PageSizes    `json:"page_sizes"`
	DefaultSort    domain.SortKey      `json:"default_sort"`
	SortKeys       []domain.SortKey    `json:"sort_keys"`
	Currency       string              `json:"currency"`
}

// ListDomains handles GET /api/v1/domains
func (h *CatalogHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	cfgs := h.service.Domains()
	out := make([]DomainSummary, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, DomainSummary{
			Name:           c.Name,
			Title:          c.Title,
			CreatorLabel:   c.CreatorLabel,
			SecondaryLabel: c.SecondaryLabel,
			Filters:        c.Filters,
			PriceBuckets:   c.PriceBuckets,
			PageSizes:      c.PageSizes,
			DefaultSort:    c.DefaultSort,
			SortKeys:       domain.SortKeys(),
			Currency:       c.Currency,
		})
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"domains": out})
}

// ListItems handles GET /api/v1/catalogs/{domain}/items
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("domain")

	params, err := parseQueryParams(r.URL.Query())
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Query(ctx, name, params)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to query catalog")
		return
	}

	etag := resultETag(name, result)
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Values("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// etagMatches applies the weak comparison If-None-Match calls for. Each
// header may carry a comma-separated list; "*" matches any current page.
func etagMatches(headers []string, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, h := range headers {
		for _, tag := range strings.Split(h, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "*" || (tag != "" && strings.TrimPrefix(tag, "W/") == want) {
				return true
			}
		}
	}
	return false
}

// resultETag identifies one page of a query against one catalog version.
func resultETag(name string, res *ports.QueryResult) string {
	q := res.Query.Normalized()
	d := xxhash.New()
	fmt.Fprintf(d, "%s|%d|%d|%d|%t|%s|%s", name, res.Version, res.Page, res.PageSize, res.Degraded, q.SearchText, res.SortKey)

	names := make([]string, 0, len(q.Filters))
	for f := range q.Filters {
		names = append(names, string(f))
	}
	slices.Sort(names)
	for _, f := range names {
		fmt.Fprintf(d, "|%s=%s", f, q.Filters[domain.FilterName(f)])
	}
	return fmt.Sprintf(`W/"%016x"`, d.Sum64())
}

// Options handles GET /api/v1/catalogs/{domain}/options
func (h *CatalogHandler) Options(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("domain")

	opts, err := h.service.Options(r.Context(), name)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to list filter options")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"domain":  name,
		"options": opts,
	})
}

// Reload handles POST /api/v1/catalogs/{domain}/reload
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("domain")

	res, err := h.service.Reload(ctx, name)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to reload catalog")
		return
	}

	h.logger.InfoContext(ctx, "catalog reloaded on request",
		slog.String("domain", name),
		slog.Int("items", res.ItemCount))

	h.respondJSON(w, http.StatusOK, res)
}

// parseQueryParams reads search, sort, page and filters from a query string.
// Filter keys accept every domain spelling, so ?author=X and ?brand=X both set
// the creator filter. Unrecognised keys are ignored.
func parseQueryParams(q url.Values) (ports.QueryParams, error) {
	params := ports.QueryParams{
		Query: parseQuerySpec(q),
		Page:  1,
	}

	if page := q.Get("page"); page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			return params, fmt.Errorf("invalid page %q", page)
		}
		params.Page = p
	}

	if size := q.Get("page_size"); size != "" {
		s, err := strconv.Atoi(size)
		if err != nil || s < 1 {
			return params, fmt.Errorf("invalid page_size %q", size)
		}
		params.PageSize = s
	}

	view, err := parseViewMode(q.Get("view"))
	if err != nil {
		return params, err
	}
	params.View = view

	return params, nil
}

func parseQuerySpec(q url.Values) domain.QuerySpec {
	var spec domain.QuerySpec
	for key, values := range q {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch strings.ToLower(key) {
		case "q", "search":
			spec.SearchText = value
		case "sort":
			spec.SortKey = domain.SortKey(value)
		default:
			if name, ok := domain.ParseFilterName(key); ok {
				spec = spec.WithFilter(name, value)
			}
		}
	}
	return spec
}

func parseViewMode(s string) (domain.ViewMode, error) {
	switch mode := domain.ViewMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return domain.ViewGrid, nil
	case domain.ViewGrid, domain.ViewList:
		return mode, nil
	}
	return "", fmt.Errorf("invalid view %q: want grid or list", s)
}
