package joblog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/project-tktt/empleos-bot/internal/domain"
)

// TimeLayout is the timestamp format written to the processed log
const TimeLayout = "2006-01-02 15:04:05.000000"

// Parsing accepts an optional fractional second after the seconds field
const readLayout = "2006-01-02 15:04:05"

// ProcessedLog is the append-only record of downloaded pages.
// One line per page: "<path>,<timestamp>".
type ProcessedLog struct {
	path string
}

// NewProcessedLog opens a processed log at path. The file is created on first append.
func NewProcessedLog(path string) *ProcessedLog {
	return &ProcessedLog{path: path}
}

func (l *ProcessedLog) Path() string {
	return l.path
}

// Append records that the page at path was saved at the given time
func (l *ProcessedLog) Append(pagePath string, at time.Time) error {
	if strings.ContainsAny(pagePath, ",\n") {
		return fmt.Errorf("append processed log: path %q contains a separator", pagePath)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open processed log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s,%s\n", pagePath, at.Format(TimeLayout)); err != nil {
		return fmt.Errorf("write processed log: %w", err)
	}
	return nil
}

// Entries returns every well-formed entry in log order. A missing log is empty.
func (l *ProcessedLog) Entries() ([]domain.LogEntry, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open processed log: %w", err)
	}
	defer f.Close()

	entries, skipped, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("read processed log: %w", err)
	}
	if skipped > 0 {
		log.Printf("[JobLog] Skipped %d malformed lines in %s", skipped, l.path)
	}
	return entries, nil
}

// Recent returns the entries downloaded no longer than window before now
func (l *ProcessedLog) Recent(now time.Time, window time.Duration) ([]domain.LogEntry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	return FilterRecent(entries, now, window), nil
}

// ReadEntries parses processed log lines, skipping malformed ones
func ReadEntries(r io.Reader) (entries []domain.LogEntry, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return entries, skipped, nil
}

func parseLine(line string) (domain.LogEntry, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 || parts[0] == "" {
		return domain.LogEntry{}, false
	}

	ts, err := time.ParseInLocation(readLayout, parts[1], time.Local)
	if err != nil {
		return domain.LogEntry{}, false
	}
	return domain.LogEntry{Path: parts[0], Timestamp: ts}, true
}

// FilterRecent keeps entries with now - timestamp <= window, in their original order
func FilterRecent(entries []domain.LogEntry, now time.Time, window time.Duration) []domain.LogEntry {
	out := make([]domain.LogEntry, 0, len(entries))
	for _, e := range entries {
		if now.Sub(e.Timestamp) <= window {
			out = append(out, e)
		}
	}
	return out
}
