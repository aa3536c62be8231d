// internal/core/ports/catalog_source.go
package ports

import "context"

// CatalogSource fetches the raw catalog payload behind a source reference.
// Implementations wrap failures in domain.ErrSourceUnavailable.
type CatalogSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// RefreshableSource can bypass any cache it sits in front of.
type RefreshableSource interface {
	CatalogSource
	Refresh(ctx context.Context, ref string) ([]byte, error)
}
