package joblog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedLog_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	pl := NewProcessedLog(path)

	at := time.Date(2024, 3, 5, 14, 7, 9, 123456000, time.Local)
	require.NoError(t, pl.Append("./states/14/101.html", at))
	require.NoError(t, pl.Append("./states/14/102.html", at.Add(time.Minute)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"./states/14/101.html,2024-03-05 14:07:09.123456\n./states/14/102.html,2024-03-05 14:08:09.123456\n",
		string(data))

	entries, err := pl.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "./states/14/101.html", entries[0].Path)
	assert.True(t, entries[0].Timestamp.Equal(at))
}

func TestProcessedLog_RejectsSeparators(t *testing.T) {
	pl := NewProcessedLog(filepath.Join(t.TempDir(), "log.txt"))
	assert.Error(t, pl.Append("a,b.html", time.Now()))
	assert.Error(t, pl.Append("a\nb.html", time.Now()))
}

func TestProcessedLog_MissingFile(t *testing.T) {
	pl := NewProcessedLog(filepath.Join(t.TempDir(), "nope.txt"))
	entries, err := pl.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadEntries_SkipsMalformed(t *testing.T) {
	input := strings.Join([]string{
		"./states/1/1.html,2024-01-01 10:00:00.000001",
		"garbage",
		"./states/1/2.html,2024-01-01 10:00:00",
		"./states/1/3.html,not a date",
		"a,b,2024-01-01 10:00:00.000000",
		",2024-01-01 10:00:00.000000",
		"",
		"./states/1/4.html,2024-01-01 10:00:00.5\r",
	}, "\n")

	entries, skipped, err := ReadEntries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"./states/1/1.html", "./states/1/2.html", "./states/1/4.html"}, paths)
	assert.Equal(t, 500*time.Millisecond, time.Duration(entries[2].Timestamp.Nanosecond()))
}

func TestFilterRecent(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	window := 72 * time.Hour

	entries := []domain.LogEntry{
		{Path: "old", Timestamp: now.Add(-window - time.Second)},
		{Path: "edge", Timestamp: now.Add(-window)},
		{Path: "fresh", Timestamp: now.Add(-time.Hour)},
		{Path: "older", Timestamp: now.Add(-100 * time.Hour)},
		{Path: "mid", Timestamp: now.Add(-48 * time.Hour)},
		{Path: "future", Timestamp: now.Add(time.Hour)},
	}

	got := FilterRecent(entries, now, window)

	want := []domain.LogEntry{entries[1], entries[2], entries[4], entries[5]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterRecent() mismatch (-want +got):\n%s", diff)
	}

	// Every kept entry satisfies the bound and every dropped one violates it
	kept := make(map[string]bool)
	for _, e := range got {
		kept[e.Path] = true
	}
	for _, e := range entries {
		assert.Equal(t, now.Sub(e.Timestamp) <= window, kept[e.Path], e.Path)
	}
}

func TestProcessedLog_Recent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	pl := NewProcessedLog(path)
	now := time.Now()

	require.NoError(t, pl.Append("a.html", now.Add(-96*time.Hour)))
	require.NoError(t, pl.Append("b.html", now.Add(-2*time.Hour)))

	got, err := pl.Recent(now, 72*time.Hour)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b.html", got[0].Path)
}

func TestReplyLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "comments_log.txt")

	rl, err := OpenReplyLog(path)
	require.NoError(t, err)
	assert.Zero(t, rl.Len())
	assert.FileExists(t, path, "missing reply log is created")

	ok, err := rl.Contains(ctx, "e5x1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rl.Add(ctx, "e5x1"))
	require.NoError(t, rl.Add(ctx, "e5x1"))
	require.NoError(t, rl.Add(ctx, "e5x2"))
	assert.Error(t, rl.Add(ctx, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "e5x1\ne5x2\n", string(data))

	reopened, err := OpenReplyLog(path)
	require.NoError(t, err)
	ok, err = reopened.Contains(ctx, "e5x2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"e5x1", "e5x2"}, reopened.IDs())
}

func TestReplyLog_EmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comments_log.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n\n b \n"), 0o644))

	rl, err := OpenReplyLog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rl.IDs())
}

func TestRunLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fetcher.lock")

	lock, err := AcquireLock(dir, 0)
	require.NoError(t, err)

	_, err = AcquireLock(dir, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	require.NoError(t, lock.Release())

	again, err := AcquireLock(dir, 0)
	require.NoError(t, err)
	require.NoError(t, again.Release())
	assert.NoDirExists(t, dir)
}

func writeOwner(t *testing.T, dir, owner string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockOwnerFile), []byte(owner), 0o644))
}

func TestRunLock_Stale(t *testing.T) {
	host, _ := os.Hostname()
	// Far above any pid a test machine hands out
	const deadPID = 1 << 30

	tests := []struct {
		name    string
		owner   string
		maxAge  time.Duration
		wantErr bool
	}{
		{"dead pid", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z"}`, deadPID), 0, false},
		{"dead pid on this host", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z","hostname":%q}`, deadPID, host), 0, false},
		{"live pid", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z"}`, os.Getpid()), 0, true},
		{"other host", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z","hostname":"elsewhere"}`, deadPID), 0, true},
		{"other host expired", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z","hostname":"elsewhere"}`, deadPID), time.Hour, false},
		{"live pid expired", fmt.Sprintf(`{"pid":%d,"created_at":"2020-01-01T00:00:00Z"}`, os.Getpid()), time.Hour, false},
		{"live pid fresh", fmt.Sprintf(`{"pid":%d,"created_at":%q}`, os.Getpid(), time.Now().UTC().Format(time.RFC3339)), time.Hour, true},
		{"no owner", `garbage`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "fetcher")
			writeOwner(t, dir, tt.owner)

			lock, err := AcquireLock(dir, tt.maxAge)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "already running")
				assert.DirExists(t, dir)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(dir, lockOwnerFile))
			require.NoError(t, err)
			assert.Contains(t, string(data), fmt.Sprintf(`"pid":%d`, os.Getpid()))
			require.NoError(t, lock.Release())
		})
	}
}

func TestRunLock_NoOwnerExpires(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "responder")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(dir, old, old))

	lock, err := AcquireLock(dir, time.Hour)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}
