// internal/handlers/shelf.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
	"github.com/ammerola/storefront-catalog/internal/handlers/middleware"
)

// ShelfReader lists and empties stored shelves.
type ShelfReader interface {
	List(ctx context.Context, shelf domain.ShelfKind, shopperID string) ([]ports.ShelfEntry, error)
	Clear(ctx context.Context, shelf domain.ShelfKind, shopperID string) error
}

// ShelfHandler manages carts and wishlists. Changes go through the catalog
// service so the item is validated and listeners are told; reads go straight
// to the shelf store.
type ShelfHandler struct {
	responder
	catalogs      ports.CatalogService
	shelves       ShelfReader
	shopperHeader string
}

// NewShelfHandler creates a new shelf handler. An empty shopperHeader uses X-Shopper-ID.
func NewShelfHandler(catalogs ports.CatalogService, shelves ShelfReader, shopperHeader string, logger *slog.Logger) *ShelfHandler {
	if shopperHeader == "" {
		shopperHeader = middleware.ShopperIDHeader
	}
	return &ShelfHandler{
		responder:     responder{logger: logger.With(slog.String("handler", "shelf"))},
		catalogs:      catalogs,
		shelves:       shelves,
		shopperHeader: shopperHeader,
	}
}

// AddItemRequest puts an item on a shelf.
type AddItemRequest struct {
	Domain   string `json:"domain"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity,omitempty"`
}

// shelfTarget reads the shelf and shopper every shelf endpoint needs,
// answering 400 itself when either is missing.
func (h *ShelfHandler) shelfTarget(w http.ResponseWriter, r *http.Request) (domain.ShelfKind, string, bool) {
	shelf, err := domain.ParseShelfKind(r.PathValue("shelf"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return "", "", false
	}
	shopper := strings.TrimSpace(r.Header.Get(h.shopperHeader))
	if shopper == "" {
		h.respondError(w, http.StatusBadRequest, h.shopperHeader+" header is required")
		return "", "", false
	}
	return shelf, shopper, true
}

// ListShelf handles GET /api/v1/shelf/{shelf}
func (h *ShelfHandler) ListShelf(w http.ResponseWriter, r *http.Request) {
	shelf, shopper, ok := h.shelfTarget(w, r)
	if !ok {
		return
	}

	entries, err := h.shelves.List(r.Context(), shelf, shopper)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to list shelf")
		return
	}
	if entries == nil {
		entries = []ports.ShelfEntry{}
	}

	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"shelf":       shelf,
		"items":       entries,
		"total_count": total,
	})
}

// AddItem handles POST /api/v1/shelf/{shelf}
func (h *ShelfHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	shelf, shopper, ok := h.shelfTarget(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Domain == "" || req.ItemID == "" {
		h.respondError(w, http.StatusBadRequest, "domain and item_id are required")
		return
	}
	if req.Quantity < 0 {
		h.respondError(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}

	ev, err := h.catalogs.UpdateShelf(r.Context(), ports.ShelfRequest{
		ShopperID: shopper,
		Domain:    req.Domain,
		Shelf:     shelf,
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to update shelf")
		return
	}
	h.respondJSON(w, http.StatusOK, ev)
}

// RemoveItem handles DELETE /api/v1/shelf/{shelf}/{domain}/{item}
func (h *ShelfHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	shelf, shopper, ok := h.shelfTarget(w, r)
	if !ok {
		return
	}

	ev, err := h.catalogs.UpdateShelf(r.Context(), ports.ShelfRequest{
		ShopperID: shopper,
		Domain:    r.PathValue("domain"),
		Shelf:     shelf,
		ItemID:    r.PathValue("item"),
		Remove:    true,
	})
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to update shelf")
		return
	}
	h.respondJSON(w, http.StatusOK, ev)
}

// ClearShelf handles DELETE /api/v1/shelf/{shelf}
func (h *ShelfHandler) ClearShelf(w http.ResponseWriter, r *http.Request) {
	shelf, shopper, ok := h.shelfTarget(w, r)
	if !ok {
		return
	}

	if err := h.shelves.Clear(r.Context(), shelf, shopper); err != nil {
		h.respondServiceError(r, w, err, "Failed to clear shelf")
		return
	}
	h.logger.InfoContext(r.Context(), "shelf cleared", slog.String("shelf", string(shelf)))
	w.WriteHeader(http.StatusNoContent)
}
