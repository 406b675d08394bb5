package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Indexer defines the interface for export backends
type Indexer interface {
	// BulkIndex writes multiple listings at once
	BulkIndex(ctx context.Context, listings []*domain.ScheduledListing) error
	Close() error
}

// record is the flat shape stored by the SQL and search backends
type record struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	Category     string    `json:"category"`
	Date         time.Time `json:"date"`
	Offer        string    `json:"offer"`
	Salary       int       `json:"salary"`
	StartHour    int       `json:"start_hour"`
	EndHour      int       `json:"end_hour"`
	HoursWorked  float64   `json:"hours_worked"`
	Monday       bool      `json:"monday"`
	Tuesday      bool      `json:"tuesday"`
	Wednesday    bool      `json:"wednesday"`
	Thursday     bool      `json:"thursday"`
	Friday       bool      `json:"friday"`
	Saturday     bool      `json:"saturday"`
	Sunday       bool      `json:"sunday"`
	DaysWorked   int       `json:"days_worked"`
	State        string    `json:"state"`
	Municipality string    `json:"municipality"`
	Source       string    `json:"source"`
}

// DocumentID identifies a listing across runs
func DocumentID(l *domain.ScheduledListing) string {
	return fmt.Sprintf("%s-%s", l.Category, l.ID)
}

func toRecord(l *domain.ScheduledListing) record {
	d := l.Schedule.Days
	return record{
		ID:           DocumentID(l),
		ListingID:    l.ID,
		Category:     l.Category,
		Date:         l.Date,
		Offer:        l.Offer,
		Salary:       l.Salary,
		StartHour:    l.Schedule.StartHour,
		EndHour:      l.Schedule.EndHour,
		HoursWorked:  l.Schedule.HoursWorked,
		Monday:       d[0],
		Tuesday:      d[1],
		Wednesday:    d[2],
		Thursday:     d[3],
		Friday:       d[4],
		Saturday:     d[5],
		Sunday:       d[6],
		DaysWorked:   l.Schedule.DaysWorked(),
		State:        l.State,
		Municipality: l.Municipality,
		Source:       domain.Source,
	}
}

// Multi writes to every backend in order and stops at the first failure
type Multi []Indexer

func (m Multi) BulkIndex(ctx context.Context, listings []*domain.ScheduledListing) error {
	for _, idx := range m {
		if err := idx.BulkIndex(ctx, listings); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, idx := range m {
		if err := idx.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
