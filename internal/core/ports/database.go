// internal/core/ports/database.go
package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Database is the read side of the catalog table, abstracting the concrete
// pgxpool from the catalog source and the health handler.
type Database interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
	Close()
}
