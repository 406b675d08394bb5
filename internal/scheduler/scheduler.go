// Package scheduler repeats a pipeline run on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job is one pipeline run
type Job func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single job
type Scheduler struct {
	cron *cron.Cron
	name string
	spec string
	job  Job

	first sync.WaitGroup
}

// New creates a Scheduler for job. Overlapping runs are skipped.
func New(name, spec string, job Job) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		name: name,
		spec: spec,
		job:  job,
	}
}

// Run executes the job once when spec is empty and returns its error.
// Otherwise it runs the job immediately, then on every tick until ctx is done.
// Errors of scheduled runs are logged, not returned.
func Run(ctx context.Context, name, spec string, job Job) error {
	if spec == "" {
		return job(ctx)
	}
	s := New(name, spec, job)
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Start registers the job, starts the cron loop and fires one run right away
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) })
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	log.Printf("[%s] Scheduled with spec %q, next run %s", s.name, s.spec, s.cron.Entry(id).Next.Format("15:04:05"))

	// Through the cron entry so the skip-if-running chain applies.
	// Cron's own waiter does not see this run, Stop waits on first instead.
	wrapped := s.cron.Entry(id).WrappedJob
	s.first.Add(1)
	go func() {
		defer s.first.Done()
		wrapped.Run()
	}()
	return nil
}

// Stop halts the schedule and waits for a running job to finish,
// the immediate first run included
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.first.Wait()
	log.Printf("[%s] Scheduler stopped", s.name)
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.job(ctx); err != nil {
		log.Printf("[%s] Run failed: %v", s.name, err)
	}
}
