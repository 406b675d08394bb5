package indexer

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/project-tktt/empleos-bot/internal/domain"
)

var columns = []string{
	"id", "listing_id", "category", "date", "offer", "salary",
	"start_hour", "end_hour", "hours_worked",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"days_worked", "state", "municipality", "source",
}

// sqlIndexer upserts listings into one table. The dialects only differ in how
// placeholders are written.
type sqlIndexer struct {
	db          *sql.DB
	tableName   string
	name        string
	placeholder func(n int) string
}

func (i *sqlIndexer) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			listing_id TEXT NOT NULL,
			category TEXT NOT NULL,
			date TIMESTAMP WITH TIME ZONE,
			offer TEXT,
			salary INTEGER,
			start_hour INTEGER,
			end_hour INTEGER,
			hours_worked DOUBLE PRECISION,
			monday BOOLEAN,
			tuesday BOOLEAN,
			wednesday BOOLEAN,
			thursday BOOLEAN,
			friday BOOLEAN,
			saturday BOOLEAN,
			sunday BOOLEAN,
			days_worked INTEGER,
			state TEXT,
			municipality TEXT,
			source TEXT
		)
	`, i.tableName)

	_, err := i.db.ExecContext(ctx, query)
	return err
}

func (i *sqlIndexer) upsertQuery() string {
	values := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for n, col := range columns {
		values[n] = i.placeholder(n + 1)
		if col != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	return fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
	`, i.tableName, strings.Join(columns, ", "), strings.Join(values, ", "), strings.Join(updates, ", "))
}

// BulkIndex upserts every listing in one transaction. A failing row rolls back
// the whole batch.
func (i *sqlIndexer) BulkIndex(ctx context.Context, listings []*domain.ScheduledListing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, i.upsertQuery())
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		r := toRecord(l)
		_, err := stmt.ExecContext(ctx,
			r.ID, r.ListingID, r.Category, r.Date, r.Offer, r.Salary,
			r.StartHour, r.EndHour, r.HoursWorked,
			r.Monday, r.Tuesday, r.Wednesday, r.Thursday, r.Friday, r.Saturday, r.Sunday,
			r.DaysWorked, r.State, r.Municipality, r.Source,
		)
		if err != nil {
			return fmt.Errorf("index listing %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[%s] Indexed %d listings into %s", i.name, len(listings), i.tableName)
	return nil
}

// Close closes the database connection
func (i *sqlIndexer) Close() error {
	return i.db.Close()
}
