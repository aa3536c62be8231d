// internal/adapters/source/postgres.go
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// DefaultCatalogTable holds one JSONB record per row, keyed by domain and position.
const DefaultCatalogTable = "catalog_items"

// Querier is satisfied by db.Database and pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresSource reads postgres://<domain> references from the catalog table
// and returns the rows as a bare JSON array, in position order.
type PostgresSource struct {
	db     Querier
	table  string
	logger *slog.Logger
}

// NewPostgresSource creates a database-backed source. An empty table name
// uses DefaultCatalogTable.
func NewPostgresSource(db Querier, table string, logger *slog.Logger) *PostgresSource {
	if table == "" {
		table = DefaultCatalogTable
	}
	return &PostgresSource{
		db:     db,
		table:  table,
		logger: logger.With(slog.String("component", "postgres_source")),
	}
}

// BuildQuery returns the SQL selecting one domain's records.
func (s *PostgresSource) BuildQuery(domainName string) (string, []interface{}, error) {
	return squirrel.Select("payload").
		From(s.table).
		Where(squirrel.Eq{"domain": domainName}).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (s *PostgresSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	domainName, err := ParsePostgresRef(ref)
	if err != nil {
		return nil, unavailable(ref, err)
	}

	query, args, err := s.BuildQuery(domainName)
	if err != nil {
		return nil, unavailable(ref, fmt.Errorf("failed to build query: %w", err))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable(ref, err)
	}
	defer rows.Close()

	records := make([]json.RawMessage, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, unavailable(ref, fmt.Errorf("failed to scan row: %w", err))
		}
		records = append(records, json.RawMessage(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(ref, err)
	}

	s.logger.DebugContext(ctx, "catalog rows read",
		slog.String("domain", domainName),
		slog.Int("rows", len(records)))

	b, err := json.Marshal(records)
	if err != nil {
		return nil, unavailable(ref, fmt.Errorf("failed to encode rows: %w", err))
	}
	return b, nil
}

// ParsePostgresRef extracts the domain from postgres://<domain>.
func ParsePostgresRef(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(u.Scheme, SchemePostgres) {
		return "", errors.New("not a postgres reference")
	}
	name := u.Host
	if name == "" {
		name = strings.Trim(u.Path, "/")
	}
	if name == "" {
		return "", errors.New("postgres reference has no domain")
	}
	return name, nil
}
