package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "log.txt", cfg.Paths.ProcessedLog)
	assert.Equal(t, "comments_log.txt", cfg.Paths.ReplyLog)
	assert.Equal(t, 72*time.Hour, cfg.Listings.Retention)
	assert.Equal(t, 10, cfg.Listings.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, 3, cfg.Fetcher.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetcher.RequestDelay)
	assert.Equal(t, 8000, cfg.Digest.MinSalary)
	assert.Equal(t, 39000, cfg.Digest.Budget)
	assert.Equal(t, 10, cfg.Responder.MaxResults)
	assert.Equal(t, "!empleos", cfg.Responder.Trigger)
	assert.Equal(t, []string{"csv"}, cfg.Export.Sinks)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOBS_MAX_AGE", "86400")
	t.Setenv("DELTA_HOURS", "5")
	t.Setenv("POST_IDS", "abc, def,,")
	t.Setenv("FETCHER_TIMEOUT", "2s")
	t.Setenv("EXPORT_SINKS", "csv,sqlite")
	t.Setenv("EXTRACT_CONCURRENCY", "not-a-number")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.Listings.Retention)
	assert.Equal(t, 5*time.Hour, cfg.Listings.TimeOffset)
	assert.Equal(t, []string{"abc", "def"}, cfg.Digest.PostIDs)
	assert.Equal(t, 2*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, []string{"csv", "sqlite"}, cfg.Export.Sinks)
	assert.Equal(t, 10, cfg.Listings.Concurrency)
}

func TestNow_AppliesOffset(t *testing.T) {
	cfg := Load()
	cfg.Listings.TimeOffset = 5 * time.Hour

	diff := time.Since(cfg.Now())
	assert.InDelta(t, (5 * time.Hour).Seconds(), diff.Seconds(), 5)
}

func TestLoadWithFile_MergesLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	require.NoError(t, os.WriteFile(path, []byte(`{
		// shared settings
		reddit: {app_id: "id", app_secret: "secret", username: "bot"},
		submission_ids: ["s1"],
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		reddit: {password: "hunter2"},
		post_ids: ["p1", "p2"],
	}`), 0o644))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.Reddit.ClientID)
	assert.Equal(t, "secret", cfg.Reddit.ClientSecret)
	assert.Equal(t, "bot", cfg.Reddit.Username)
	assert.Equal(t, "hunter2", cfg.Reddit.Password)
	assert.Equal(t, "empleos-bot/1.0", cfg.Reddit.UserAgent)
	assert.Equal(t, []string{"s1"}, cfg.Responder.SubmissionIDs)
	assert.Equal(t, []string{"p1", "p2"}, cfg.Digest.PostIDs)
}

func TestLoadWithFile_Missing(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.json5"))
	require.NoError(t, err)
	assert.Equal(t, "https://oauth.reddit.com", cfg.Reddit.APIURL)
}

func TestReadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{reddit: `), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, filepath.Join("etc", "config.local.json5"), localName(filepath.Join("etc", "config.json5")))
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "config.json5", FilePath())

	t.Setenv("EMPLEOS_CONFIG", "/etc/empleos/bot.json5")
	assert.Equal(t, "/etc/empleos/bot.json5", FilePath())
	assert.Equal(t, ".locks", Load().Paths.LockDir)
	assert.Zero(t, Load().Paths.LockMaxAge)
}
