package joblog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const lockOwnerFile = "owner.json"

// RunLock keeps two runs of the same pipeline from appending to the logs at once
type RunLock struct {
	dir string
}

type lockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

// AcquireLock creates the lock directory dir. It fails if another run holds it.
// A lock left behind by a dead process on this host, or one older than maxAge
// when maxAge > 0, is removed and taken over.
func AcquireLock(dir string, maxAge time.Duration) (RunLock, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return RunLock{}, fmt.Errorf("lock directory is required")
	}

	if parent := filepath.Dir(dir); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return RunLock{}, fmt.Errorf("create lock parent: %w", err)
		}
	}

	err := os.Mkdir(dir, 0o755)
	if os.IsExist(err) {
		host, _ := os.Hostname()
		owner, ok := readOwner(dir)
		if !isStale(dir, owner, ok, host, maxAge, time.Now()) {
			if ok {
				return RunLock{}, fmt.Errorf("already running: %s (pid=%d since %s on %s)", dir, owner.PID, owner.CreatedAt, owner.Hostname)
			}
			return RunLock{}, fmt.Errorf("already running: %s", dir)
		}

		log.Printf("[JobLog] Removing stale lock %s (pid=%d since %s)", dir, owner.PID, owner.CreatedAt)
		if err := os.RemoveAll(dir); err != nil {
			return RunLock{}, fmt.Errorf("remove stale lock %s: %w", dir, err)
		}
		err = os.Mkdir(dir, 0o755)
		if os.IsExist(err) {
			return RunLock{}, fmt.Errorf("already running: %s", dir)
		}
	}
	if err != nil {
		return RunLock{}, fmt.Errorf("acquire lock %s: %w", dir, err)
	}

	host, _ := os.Hostname()
	data, err := json.Marshal(lockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  host,
	})
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, lockOwnerFile), data, 0o644)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return RunLock{}, fmt.Errorf("write lock owner: %w", err)
	}

	return RunLock{dir: dir}, nil
}

func readOwner(dir string) (lockOwner, bool) {
	var owner lockOwner
	data, err := os.ReadFile(filepath.Join(dir, lockOwnerFile))
	if err != nil || json.Unmarshal(data, &owner) != nil || owner.PID <= 0 {
		return lockOwner{}, false
	}
	return owner, true
}

// isStale reports whether an existing lock can be taken over. Without a
// readable owner only the directory age is known.
func isStale(dir string, owner lockOwner, ok bool, host string, maxAge time.Duration, now time.Time) bool {
	if ok && (owner.Hostname == "" || owner.Hostname == host) && !processAlive(owner.PID) {
		return true
	}
	if maxAge <= 0 {
		return false
	}

	var created time.Time
	if ok {
		created, _ = time.Parse(time.RFC3339, owner.CreatedAt)
	}
	if created.IsZero() {
		info, err := os.Stat(dir)
		if err != nil {
			return false
		}
		created = info.ModTime()
	}
	return now.Sub(created) > maxAge
}

func (l RunLock) Release() error {
	if l.dir == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.dir, lockOwnerFile))
	if err := os.Remove(l.dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.dir, err)
	}
	return nil
}
