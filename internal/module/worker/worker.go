package worker

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/project-tktt/empleos-bot/internal/common/extractor"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// Config holds worker pool configuration
type Config struct {
	Concurrency int
	Name        string // Log prefix, e.g. "Responder"
}

// ParseFunc turns one processed-log entry into a record
type ParseFunc[T any] func(ctx context.Context, entry domain.LogEntry) (T, error)

// Result is the outcome of one extraction run
type Result[T any] struct {
	Records []T            // In the order of the input entries
	Dropped map[string]int // Drop counts per reason
}

// DroppedTotal returns the number of entries that produced no record
func (r Result[T]) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

type slot[T any] struct {
	value T
	err   error
	done  bool
}

// Extract parses entries on a bounded pool of goroutines. Each task writes only
// its own slot; records are compacted in input order once all tasks finished.
// Entries that fail to parse are dropped and counted, never returned as errors.
// The only error is ctx.Err() when the run was cancelled.
func Extract[T any](ctx context.Context, cfg Config, entries []domain.LogEntry, parse ParseFunc[T]) (Result[T], error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.Name == "" {
		cfg.Name = "Worker"
	}

	slots := make([]slot[T], len(entries))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				v, err := parse(ctx, entries[idx])
				slots[idx] = slot[T]{value: v, err: err, done: true}
			}
		}()
	}

feed:
	for i := range entries {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	result := Result[T]{
		Records: make([]T, 0, len(entries)),
		Dropped: make(map[string]int),
	}
	for _, s := range slots {
		switch {
		case !s.done:
			result.Dropped["cancelled"]++
		case s.err != nil:
			result.Dropped[extractor.Reason(s.err)]++
		default:
			result.Records = append(result.Records, s.value)
		}
	}

	logSummary(cfg.Name, len(entries), result)
	return result, ctx.Err()
}

func logSummary[T any](name string, total int, r Result[T]) {
	if len(r.Dropped) == 0 {
		log.Printf("[%s] Parsed %d/%d pages", name, len(r.Records), total)
		return
	}

	reasons := make([]string, 0, len(r.Dropped))
	for reason := range r.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = fmt.Sprintf("%s=%d", reason, r.Dropped[reason])
	}
	log.Printf("[%s] Parsed %d/%d pages, dropped %d (%s)",
		name, len(r.Records), total, r.DroppedTotal(), strings.Join(parts, ", "))
}
