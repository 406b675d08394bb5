package indexer

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteTable = "listings"

// SQLiteIndexer keeps the export in a local database file
type SQLiteIndexer struct {
	sqlIndexer
}

func NewSQLiteIndexer(ctx context.Context, path string) (*SQLiteIndexer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time
	db.SetMaxOpenConns(1)

	indexer := &SQLiteIndexer{sqlIndexer{
		db:          db,
		tableName:   sqliteTable,
		name:        "SQLite",
		placeholder: func(int) string { return "?" },
	}}

	if err := indexer.ensureTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return indexer, nil
}
