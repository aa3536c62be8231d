// internal/handlers/export.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/storefront-catalog/internal/adapters/sheet"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// ExportHandler streams filtered catalogs as xlsx workbooks.
type ExportHandler struct {
	responder
	service ports.CatalogService
	now     func() time.Time
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.CatalogService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		responder: responder{logger: logger.With(slog.String("handler", "export"))},
		service:   service,
		now:       time.Now,
	}
}

// ExportExcel handles GET /api/v1/catalogs/{domain}/export. It applies the
// same search, filter and sort parameters as ListItems, without pagination.
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("domain")

	cfg, ok := h.domainConfig(name)
	if !ok {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("%v: %q", domain.ErrUnknownDomain, name))
		return
	}

	res, err := h.service.Query(ctx, name, ports.QueryParams{
		Query: parseQuerySpec(r.URL.Query()),
		All:   true,
	})
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to query catalog")
		return
	}

	data, err := sheet.Build(&cfg, res.Items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build workbook",
			slog.String("domain", name),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate export")
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", name, h.now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", sheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if res.Degraded {
		w.Header().Set("X-Catalog-Degraded", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(ctx, "failed to write export", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "catalog exported",
		slog.String("domain", name),
		slog.Int("rows", len(res.Items)),
		slog.Int("bytes", len(data)))
}

func (h *ExportHandler) domainConfig(name string) (domain.DomainConfig, bool) {
	for _, c := range h.service.Domains() {
		if c.Name == name {
			return c, true
		}
	}
	return domain.DomainConfig{}, false
}
