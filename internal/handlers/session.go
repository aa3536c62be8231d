// internal/handlers/session.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/services"
	"github.com/ammerola/storefront-catalog/internal/pkg/logger"
)

// SessionManager is the stateful browsing API the session endpoints drive.
type SessionManager interface {
	Create(ctx context.Context, domainName string, mode domain.ViewMode) (*services.SessionView, error)
	Get(ctx context.Context, id string) (*services.SessionView, error)
	ApplyQuery(ctx context.Context, id string, spec domain.QuerySpec) (*services.SessionView, error)
	ClearFilters(ctx context.Context, id string) (*services.SessionView, error)
	RequestPage(ctx context.Context, id string, req domain.PageRequest) (*services.SessionView, bool, error)
	SetViewMode(ctx context.Context, id string, mode domain.ViewMode) (*services.SessionView, error)
	Retry(ctx context.Context, id string) (*services.SessionView, error)
	Delete(ctx context.Context, id string) error
}

// SessionHandler exposes browsing sessions over HTTP.
type SessionHandler struct {
	responder
	sessions SessionManager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionManager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		responder: responder{logger: logger.With(slog.String("handler", "session"))},
		sessions:  sessions,
	}
}

// CreateSessionRequest starts a session.
type CreateSessionRequest struct {
	Domain string `json:"domain"`
	View   string `json:"view,omitempty"`
}

// QueryRequest replaces a session's search, filters and sort. Filter keys
// accept any domain spelling ("author", "brand", "age_group").
type QueryRequest struct {
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    string            `json:"sort,omitempty"`
}

// ToSpec converts the request into a QuerySpec.
func (q QueryRequest) ToSpec() (domain.QuerySpec, error) {
	spec := domain.QuerySpec{
		SearchText: q.Search,
		SortKey:    domain.SortKey(q.Sort),
	}
	for key, value := range q.Filters {
		name, ok := domain.ParseFilterName(key)
		if !ok {
			return domain.QuerySpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownFilter, key)
		}
		spec = spec.WithFilter(name, value)
	}
	return spec, nil
}

// PageMoveRequest navigates a session: "prev", "next" or a page number.
type PageMoveRequest struct {
	To string `json:"to"`
}

// ViewRequest switches between grid and list view.
type ViewRequest struct {
	View string `json:"view"`
}

// PageResponse is a session view plus whether the page changed.
type PageResponse struct {
	*services.SessionView
	Moved bool `json:"moved"`
}

func withSession(r *http.Request) (context.Context, string) {
	id := r.PathValue("id")
	return context.WithValue(r.Context(), logger.ContextKeySessionID, id), id
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		h.respondError(w, http.StatusBadRequest, "domain is required")
		return
	}
	mode, err := parseViewMode(req.View)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.WithValue(r.Context(), logger.ContextKeyDomain, req.Domain)
	view, err := h.sessions.Create(ctx, req.Domain, mode)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to create session")
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+view.ID)
	h.respondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)
	view, err := h.sessions.Get(ctx, id)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to load session")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// ApplyQuery handles PUT /api/v1/sessions/{id}/query
func (h *SessionHandler) ApplyQuery(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)

	var req QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	spec, err := req.ToSpec()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.sessions.ApplyQuery(ctx, id, spec)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to apply query")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// ClearFilters handles DELETE /api/v1/sessions/{id}/query
func (h *SessionHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)
	view, err := h.sessions.ClearFilters(ctx, id)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to clear filters")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// RequestPage handles POST /api/v1/sessions/{id}/page
func (h *SessionHandler) RequestPage(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)

	var req PageMoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	move, err := domain.ParsePageRequest(req.To)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, moved, err := h.sessions.RequestPage(ctx, id, move)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to change page")
		return
	}
	h.respondJSON(w, http.StatusOK, PageResponse{SessionView: view, Moved: moved})
}

// SetView handles PUT /api/v1/sessions/{id}/view
func (h *SessionHandler) SetView(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)

	var req ViewRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.View) == "" {
		h.respondError(w, http.StatusBadRequest, "view is required")
		return
	}
	mode, err := parseViewMode(req.View)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.sessions.SetViewMode(ctx, id, mode)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to change view")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// Retry handles POST /api/v1/sessions/{id}/retry
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)
	view, err := h.sessions.Retry(ctx, id)
	if err != nil {
		h.respondServiceError(r, w, err, "Failed to retry load")
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := withSession(r)
	if err := h.sessions.Delete(ctx, id); err != nil {
		h.respondServiceError(r, w, err, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
