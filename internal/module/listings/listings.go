// Package listings loads the saved pages named by the processed log.
package listings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/common/joblog"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/project-tktt/empleos-bot/internal/module/worker"
)

// Loader reads pages listed in a processed log and extracts them concurrently
type Loader struct {
	log       *joblog.ProcessedLog
	extractor *extractor.Extractor
	pool      worker.Config
}

func NewLoader(pl *joblog.ProcessedLog, ex *extractor.Extractor, pool worker.Config) *Loader {
	return &Loader{log: pl, extractor: ex, pool: pool}
}

// Recent returns listings downloaded within window before now, sorted by
// salary descending. Ties keep processed log order.
func (l *Loader) Recent(ctx context.Context, now time.Time, window time.Duration) ([]*domain.Listing, error) {
	entries, err := l.log.Recent(now, window)
	if err != nil {
		return nil, fmt.Errorf("load recent entries: %w", err)
	}

	res, err := worker.Extract(ctx, l.pool, entries, func(_ context.Context, e domain.LogEntry) (*domain.Listing, error) {
		f, err := os.Open(e.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.extractor.Listing(f)
	})
	if err != nil {
		return nil, err
	}

	SortBySalary(res.Records)
	return res.Records, nil
}

// Scheduled returns the tabular variant of every page in the log, in log order
func (l *Loader) Scheduled(ctx context.Context) ([]*domain.ScheduledListing, error) {
	entries, err := l.log.Entries()
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	res, err := worker.Extract(ctx, l.pool, entries, func(_ context.Context, e domain.LogEntry) (*domain.ScheduledListing, error) {
		f, err := os.Open(e.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sl, err := l.extractor.Scheduled(f)
		if err != nil {
			return nil, err
		}
		sl.ID, sl.Category = PageIdentity(e.Path)
		sl.Date = e.Timestamp
		return sl, nil
	})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// PageIdentity splits "<root>/<category>/<id>.html" into id and category
func PageIdentity(path string) (id, category string) {
	id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	category = filepath.Base(filepath.Dir(path))
	if category == "." || category == string(filepath.Separator) {
		category = ""
	}
	return id, category
}

// SortBySalary orders listings from highest to lowest salary, keeping the
// relative order of equal salaries
func SortBySalary(ls []*domain.Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		return ls[i].Salary > ls[j].Salary
	})
}
