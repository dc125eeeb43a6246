package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is one collection run
type Job func(ctx context.Context) error

// Scheduler re-runs a job on a cron schedule.
// A run that is still going when the next one is due causes that tick to be skipped.
type Scheduler struct {
	cron *cron.Cron
	job  Job
	ctx  context.Context
}

// New creates a scheduler for spec, a standard 5-field cron expression or a descriptor such as "@hourly"
func New(ctx context.Context, spec string, job Job) (*Scheduler, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	s := &Scheduler{
		cron: c,
		job:  job,
		ctx:  ctx,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return s, nil
}

// RunOnce runs the job immediately, outside the schedule
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	if s.ctx.Err() != nil {
		return
	}
	log.Println("Scheduler: starting collection run")
	if err := s.job(s.ctx); err != nil {
		log.Printf("Scheduler: run failed: %v", err)
		return
	}
	log.Println("Scheduler: run done")
}

// Run performs one run right away, then follows the schedule until ctx is cancelled.
// It returns once any in-flight run has finished.
func (s *Scheduler) Run() {
	s.runOnce()

	s.cron.Start()
	log.Printf("Scheduler: next run at %s", s.cron.Entries()[0].Next.Format("2006-01-02 15:04:05"))

	<-s.ctx.Done()
	log.Println("Scheduler: stopping")
	<-s.cron.Stop().Done()
}
