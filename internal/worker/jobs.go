package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/wordflash/internal/logger"
)

// DefinitionMaintainer is the slice of the definition service the jobs need.
// Declared here so the worker package does not import services.
type DefinitionMaintainer interface {
	WarmTerm(ctx context.Context, term string) error
	Warmup(ctx context.Context, limit int) (int, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// ReportRoller snapshots daily summaries.
type ReportRoller interface {
	Rollup(ctx context.Context, day time.Time) (int64, error)
}

// WarmTermJob resolves one term so its first lookup hits the cache.
type WarmTermJob struct {
	Definitions DefinitionMaintainer
	Term        string
	Timeout     time.Duration
}

func (j *WarmTermJob) Name() string { return "warm_term" }

func (j *WarmTermJob) Run(ctx context.Context) error {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	logger.FromContext(ctx).Debug("warming %q", j.Term)
	return j.Definitions.WarmTerm(ctx, j.Term)
}

// WarmupSweepJob resolves definitions for everything due today.
type WarmupSweepJob struct {
	Definitions DefinitionMaintainer
	Limit       int
}

func (j *WarmupSweepJob) Name() string { return "warmup_sweep" }

func (j *WarmupSweepJob) Run(ctx context.Context) error {
	n, err := j.Definitions.Warmup(ctx, j.Limit)
	if err != nil {
		return fmt.Errorf("warmup sweep: %w", err)
	}
	logger.FromContext(ctx).Info("warmup sweep resolved %d terms", n)
	return nil
}

// PurgeJob deletes long-expired stored definitions.
type PurgeJob struct {
	Definitions DefinitionMaintainer
}

func (j *PurgeJob) Name() string { return "purge_definitions" }

func (j *PurgeJob) Run(ctx context.Context) error {
	if _, err := j.Definitions.PurgeExpired(ctx); err != nil {
		return fmt.Errorf("purge definitions: %w", err)
	}
	return nil
}

// RollupJob snapshots one day's attempt summaries.
type RollupJob struct {
	Reports ReportRoller
	Day     time.Time
}

func (j *RollupJob) Name() string { return "daily_rollup" }

func (j *RollupJob) Run(ctx context.Context) error {
	if _, err := j.Reports.Rollup(ctx, j.Day); err != nil {
		return fmt.Errorf("rollup %s: %w", j.Day.Format(time.DateOnly), err)
	}
	return nil
}
