// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/services"
)

const maxBodyBytes = 1 << 20

// responder holds the JSON helpers every handler shares.
type responder struct {
	logger *slog.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps an engine error onto a status code. Client errors
// carry the error text; server errors are logged and answered with fallback.
func (h responder) respondServiceError(r *http.Request, w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), fallback,
			slog.String("error", err.Error()))
		if status == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "30")
			h.respondError(w, status, "Catalog temporarily unavailable")
			return
		}
		h.respondError(w, status, fallback)
		return
	}
	h.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownDomain),
		errors.Is(err, domain.ErrUnknownItem),
		errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownFilter),
		errors.Is(err, domain.ErrUnknownPriceBucket):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSourceUnavailable),
		errors.Is(err, domain.ErrEmptyCatalog),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
