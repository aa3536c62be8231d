// internal/core/ports/catalog_service.go
package ports

import (
	"context"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
)

// CatalogService is the stateless query port used by the HTTP and export handlers.
type CatalogService interface {
	Domains() []domain.DomainConfig
	Query(ctx context.Context, domainName string, params QueryParams) (*QueryResult, error)
	Options(ctx context.Context, domainName string) (map[domain.FilterName][]string, error)
	Reload(ctx context.Context, domainName string) (*ReloadResult, error)
	UpdateShelf(ctx context.Context, req ShelfRequest) (*domain.ShelfEvent, error)
}

// QueryParams holds parameters for querying a catalog. The types live here to
// avoid an import cycle between handlers and services.
type QueryParams struct {
	Query    domain.QuerySpec
	Page     int
	PageSize int
	View     domain.ViewMode
	// All skips pagination, for exports.
	All bool
}

// QueryResult holds one page of a query.
type QueryResult struct {
	Items      []domain.Item          `json:"items"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalCount int                    `json:"total_count"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	SortKey    domain.SortKey         `json:"sort_key"`
	Query      domain.QuerySpec       `json:"query"`
	Pagination domain.PaginationModel `json:"pagination"`
	Degraded   bool                   `json:"degraded"`
	Version    uint64                 `json:"catalog_version"`
}

// ReloadResult summarises a forced reload.
type ReloadResult struct {
	Domain    string `json:"domain"`
	ItemCount int    `json:"item_count"`
	Rejected  int    `json:"rejected"`
	Degraded  bool   `json:"degraded"`
	Version   uint64 `json:"catalog_version"`
	Notice    string `json:"notice,omitempty"`
}

// ShelfRequest adds or removes an item on a shopper's shelf.
type ShelfRequest struct {
	ShopperID string
	Domain    string
	Shelf     domain.ShelfKind
	ItemID    string
	Quantity  int
	Remove    bool
}
