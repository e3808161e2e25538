package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vytor/wordflash/internal/logger"
)

// Schedules holds cron expressions for the periodic jobs. Empty entries are
// not scheduled.
type Schedules struct {
	Purge  string
	Rollup string
	Warmup string
}

// Scheduler turns cron ticks into queued jobs.
type Scheduler struct {
	cron  *gocron.Scheduler
	queue JobQueue
	now   func() time.Time
	log   *logger.Logger
}

// NewScheduler registers the periodic jobs. Times are UTC, matching
// scheduling days.
func NewScheduler(queue JobQueue, sched Schedules) (*Scheduler, error) {
	s := &Scheduler{
		cron:  gocron.NewScheduler(time.UTC),
		queue: queue,
		now:   time.Now,
		log:   logger.Default().WithPrefix("scheduler"),
	}
	s.cron.SingletonModeAll()

	for _, entry := range []struct {
		name string
		spec string
		fn   func()
	}{
		{"purge", sched.Purge, s.Purge},
		{"rollup", sched.Rollup, s.Rollup},
		{"warmup", sched.Warmup, s.Warmup},
	} {
		if entry.spec == "" {
			continue
		}
		if _, err := s.cron.Cron(entry.spec).Tag(entry.name).Do(entry.fn); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", entry.name, entry.spec, err)
		}
		s.log.Info("scheduled %s: %s", entry.name, entry.spec)
	}
	return s, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Purge queues a definition store purge.
func (s *Scheduler) Purge() {
	if err := s.queue.EnqueuePurge(); err != nil {
		s.log.Warn("failed to enqueue purge: %v", err)
	}
}

// Rollup queues the snapshot of yesterday, the last complete day.
func (s *Scheduler) Rollup() {
	day := s.now().UTC().AddDate(0, 0, -1)
	if err := s.queue.EnqueueRollup(day); err != nil {
		s.log.Warn("failed to enqueue rollup: %v", err)
	}
}

// Warmup queues the warmup sweep for today's due items.
func (s *Scheduler) Warmup() {
	if err := s.queue.EnqueueWarmupSweep(); err != nil {
		s.log.Warn("failed to enqueue warmup sweep: %v", err)
	}
}

// Jobs reports the number of registered cron jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Jobs())
}
