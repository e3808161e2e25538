package jobs

import (
	"time"

	"github.com/vytor/wordflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool        *worker.Pool
	definitions worker.DefinitionMaintainer
	reports     worker.ReportRoller
	warmLimit   int
	warmTimeout time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	definitions worker.DefinitionMaintainer,
	reports worker.ReportRoller,
	warmLimit int,
	warmTimeout time.Duration,
) *WorkerQueue {
	return &WorkerQueue{
		pool:        pool,
		definitions: definitions,
		reports:     reports,
		warmLimit:   warmLimit,
		warmTimeout: warmTimeout,
	}
}

var _ JobQueue = (*WorkerQueue)(nil)

func (q *WorkerQueue) EnqueueWarmup(term string) error {
	return q.pool.Submit(&worker.WarmTermJob{
		Definitions: q.definitions,
		Term:        term,
		Timeout:     q.warmTimeout,
	})
}

func (q *WorkerQueue) EnqueueWarmupSweep() error {
	return q.pool.Submit(&worker.WarmupSweepJob{Definitions: q.definitions, Limit: q.warmLimit})
}

func (q *WorkerQueue) EnqueuePurge() error {
	return q.pool.Submit(&worker.PurgeJob{Definitions: q.definitions})
}

func (q *WorkerQueue) EnqueueRollup(day time.Time) error {
	return q.pool.Submit(&worker.RollupJob{Reports: q.reports, Day: day})
}
