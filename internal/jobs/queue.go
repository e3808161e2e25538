package jobs

import "time"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueWarmup(term string) error
	EnqueueWarmupSweep() error
	EnqueuePurge() error
	EnqueueRollup(day time.Time) error
}
