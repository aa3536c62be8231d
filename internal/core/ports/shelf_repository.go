// internal/core/ports/shelf_repository.go
package ports

import (
	"context"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// ShelfEntry is one item on a shopper's shelf.
type ShelfEntry struct {
	Domain   string `json:"domain"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ShelfRepository persists carts and wishlists. Wishlist quantities are always 1.
type ShelfRepository interface {
	Add(ctx context.Context, shelf domain.ShelfKind, shopperID, domainName, itemID string, qty int) (int, error)
	Remove(ctx context.Context, shelf domain.ShelfKind, shopperID, domainName, itemID string) error
	List(ctx context.Context, shelf domain.ShelfKind, shopperID string) ([]ShelfEntry, error)
	Clear(ctx context.Context, shelf domain.ShelfKind, shopperID string) error
	Close() error
}
