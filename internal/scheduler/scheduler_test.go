package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_EmptySpecRunsOnce(t *testing.T) {
	var calls int32
	boom := errors.New("boom")

	err := Run(context.Background(), "Test", "", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRun_BadSpec(t *testing.T) {
	err := Run(context.Background(), "Test", "every now and then", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule")
}

func TestRun_Repeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "Test", "@every 1s", func(context.Context) error {
			if atomic.AddInt32(&calls, 1) >= 2 {
				cancel()
			}
			return errors.New("logged, not returned")
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestStart_RunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := New("Test", "@every 1h", func(context.Context) error {
		ran <- struct{}{}
		return nil
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStop_WaitsForFirstRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	s := New("Test", "@every 1h", func(context.Context) error {
		close(started)
		time.Sleep(300 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	s.Stop()
	assert.True(t, finished.Load(), "Stop returned before the first run finished")
}
