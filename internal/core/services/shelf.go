// internal/core/services/shelf.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// ShelfService persists cart and wishlist changes announced by engines.
type ShelfService struct {
	repo   ports.ShelfRepository
	logger *slog.Logger
}

var _ ports.ShelfListener = (*ShelfService)(nil)

// NewShelfService creates a shelf service over repo.
func NewShelfService(repo ports.ShelfRepository, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		repo:   repo,
		logger: logger.With(slog.String("service", "shelf")),
	}
}

// OnShelfChanged records the event. Failures are logged, not returned.
func (s *ShelfService) OnShelfChanged(ctx context.Context, ev domain.ShelfEvent) {
	if err := s.Apply(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist shelf change",
			slog.String("shelf", string(ev.Shelf)),
			slog.String("action", string(ev.Action)),
			slog.String("item_id", ev.ItemID),
			slog.String("error", err.Error()))
	}
}

// Apply writes one event to the repository.
func (s *ShelfService) Apply(ctx context.Context, ev domain.ShelfEvent) error {
	switch ev.Action {
	case domain.ShelfAdded:
		qty, err := s.repo.Add(ctx, ev.Shelf, ev.ShopperID, ev.Domain, ev.ItemID, ev.Quantity)
		if err != nil {
			return fmt.Errorf("failed to add %s to %s: %w", ev.ItemID, ev.Shelf, err)
		}
		s.logger.InfoContext(ctx, "item added to shelf",
			slog.String("shelf", string(ev.Shelf)),
			slog.String("domain", ev.Domain),
			slog.String("item_id", ev.ItemID),
			slog.Int("quantity", qty))
	case domain.ShelfRemoved:
		if err := s.repo.Remove(ctx, ev.Shelf, ev.ShopperID, ev.Domain, ev.ItemID); err != nil {
			return fmt.Errorf("failed to remove %s from %s: %w", ev.ItemID, ev.Shelf, err)
		}
		s.logger.InfoContext(ctx, "item removed from shelf",
			slog.String("shelf", string(ev.Shelf)),
			slog.String("domain", ev.Domain),
			slog.String("item_id", ev.ItemID))
	default:
		return fmt.Errorf("unknown shelf action %q", ev.Action)
	}
	return nil
}

// List returns a shopper's shelf.
func (s *ShelfService) List(ctx context.Context, shelf domain.ShelfKind, shopperID string) ([]ports.ShelfEntry, error) {
	entries, err := s.repo.List(ctx, shelf, shopperID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", shelf, err)
	}
	return entries, nil
}

// Clear empties a shopper's shelf.
func (s *ShelfService) Clear(ctx context.Context, shelf domain.ShelfKind, shopperID string) error {
	if err := s.repo.Clear(ctx, shelf, shopperID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", shelf, err)
	}
	return nil
}
