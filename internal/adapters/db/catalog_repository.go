// internal/adapters/db/catalog_repository.go
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const catalogTable = "catalog_items"

// CatalogRepository writes raw catalog records into the table the postgres
// source reads from. Records are stored untouched so the loader applies the
// same normalization as for any other source.
type CatalogRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *Database, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "catalog")),
	}
}

// ReplaceDomain swaps every row of domainName for records, in one transaction.
func (r *CatalogRepository) ReplaceDomain(ctx context.Context, domainName string, records []json.RawMessage) (int64, error) {
	del, args, err := buildDeleteDomain(domainName)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	var copied int64
	err = r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, del, args...); err != nil {
			return fmt.Errorf("failed to clear %s: %w", domainName, err)
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{catalogTable},
			[]string{"domain", "position", "payload"},
			pgx.CopyFromRows(catalogRows(domainName, records)),
		)
		if err != nil {
			return fmt.Errorf("failed to copy %s records: %w", domainName, err)
		}
		copied = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.InfoContext(ctx, "catalog domain replaced",
		slog.String("domain", domainName),
		slog.Int64("rows", copied))
	return copied, nil
}

func buildDeleteDomain(domainName string) (string, []interface{}, error) {
	return squirrel.Delete(catalogTable).
		Where(squirrel.Eq{"domain": domainName}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func catalogRows(domainName string, records []json.RawMessage) [][]interface{} {
	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		rows[i] = []interface{}{domainName, i, []byte(rec)}
	}
	return rows
}
