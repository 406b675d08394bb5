package joblog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ReplyStore tracks comments that were already answered
type ReplyStore interface {
	Contains(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, id string) error
}

// ReplyLog is the file-backed ReplyStore: one comment id per line.
type ReplyLog struct {
	path string

	mu  sync.Mutex
	ids map[string]bool
}

// OpenReplyLog loads the reply log at path, creating an empty one if needed
func OpenReplyLog(path string) (*ReplyLog, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open reply log: %w", err)
	}
	defer f.Close()

	ids := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids[id] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reply log: %w", err)
	}

	return &ReplyLog{path: path, ids: ids}, nil
}

func (l *ReplyLog) Contains(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ids[id], nil
}

// Add appends id to the log. Adding a known id is a no-op.
func (l *ReplyLog) Add(_ context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "\n") {
		return fmt.Errorf("add reply: invalid id %q", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ids[id] {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open reply log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s\n", id); err != nil {
		return fmt.Errorf("write reply log: %w", err)
	}
	l.ids[id] = true
	return nil
}

// Len returns the number of recorded ids
func (l *ReplyLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// IDs returns the recorded ids in sorted order
func (l *ReplyLog) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
