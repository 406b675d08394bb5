package indexer

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresIndexer indexes listings to PostgreSQL
type PostgresIndexer struct {
	sqlIndexer
}

// NewPostgresIndexer creates a new PostgreSQL indexer
func NewPostgresIndexer(ctx context.Context, connStr string, tableName string) (*PostgresIndexer, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	indexer := &PostgresIndexer{sqlIndexer{
		db:          db,
		tableName:   tableName,
		name:        "Postgres",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}}

	if err := indexer.ensureTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return indexer, nil
}
