package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one report run: fetch, normalize, render.
type Job func(ctx context.Context) error

// Scheduler fires a Job on a cron schedule.
type Scheduler struct {
	Cron *cron.Cron
	Name string
	Job  Job
	Ctx  context.Context

	running  atomic.Bool
	runs     atomic.Int64
	failures atomic.Int64
	skipped  atomic.Int64
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
// A firing or RunNow that overlaps a still-running job is skipped.
func NewScheduler(ctx context.Context, name string, job Job) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Name: name,
		Job:  job,
		Ctx:  ctx,
	}
}

// Register schedules the job on spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register %s task: %w", s.Name, err)
	}
	log.Printf("[INFO] %s task scheduled: %s", s.Name, spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the job immediately (RUN_ON_START / manual trigger),
// unless a run is already in progress.
func (s *Scheduler) RunNow() {
	s.run()
}

// Runs and Failures count finished executions; Skipped counts overlaps.
func (s *Scheduler) Runs() int64     { return s.runs.Load() }
func (s *Scheduler) Failures() int64 { return s.failures.Load() }
func (s *Scheduler) Skipped() int64  { return s.skipped.Load() }

func (s *Scheduler) run() {
	if err := s.Ctx.Err(); err != nil {
		log.Printf("[WARN] %s task skipped: %v", s.Name, err)
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		log.Printf("[WARN] %s task still running, skipping", s.Name)
		return
	}
	defer s.running.Store(false)

	log.Printf("[INFO] running %s task", s.Name)
	start := time.Now()
	err := s.Job(s.Ctx)
	s.runs.Add(1)
	if err != nil {
		s.failures.Add(1)
		log.Printf("[ERROR] %s task: %v", s.Name, err)
		return
	}
	log.Printf("[INFO] %s task finished in %s", s.Name, time.Since(start).Round(time.Millisecond))
}
