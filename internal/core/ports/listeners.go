// internal/core/ports/listeners.go
package ports

import (
	"context"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// ResultsListener receives everything a renderer needs from the engine. Calls
// are made outside the engine lock, in the order the engine produced them.
type ResultsListener interface {
	OnResultsReady(ctx context.Context, page domain.ResultsPage)
	OnPaginationModel(ctx context.Context, model domain.PaginationModel)
	OnLoadStateChanged(ctx context.Context, state domain.LoadState, detail domain.LoadDetail)
	OnFilterOptionsDiscovered(ctx context.Context, filter domain.FilterName, values []string)
}

// ShelfListener is told when an item is added to or removed from a cart or wishlist.
type ShelfListener interface {
	OnShelfChanged(ctx context.Context, event domain.ShelfEvent)
}
