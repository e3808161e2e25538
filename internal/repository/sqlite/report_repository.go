package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/review"
)

type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository implementation
func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: sqlx.NewDb(db, "sqlite3")}
}

const dailyAggregate = `
    COUNT(*) AS attempts,
    COALESCE(SUM(CASE WHEN grade = 'pass' THEN 1 ELSE 0 END), 0) AS passes,
    COALESCE(SUM(CASE WHEN grade = 'almost' THEN 1 ELSE 0 END), 0) AS almosts,
    COALESCE(SUM(CASE WHEN grade = 'fail' THEN 1 ELSE 0 END), 0) AS fails,
    COUNT(DISTINCT item_id) AS items_studied`

func (r *reportRepository) LiveDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("computing live daily summaries: user_id=%d, from=%s, to=%s", userID, from, to)

	var out []models.DailySummary
	err := r.db.SelectContext(ctx, &out, `
SELECT user_id, substr(attempted_at, 1, 10) AS day,`+dailyAggregate+`
FROM attempts
WHERE user_id = ? AND substr(attempted_at, 1, 10) BETWEEN ? AND ?
GROUP BY user_id, day
ORDER BY day ASC
`, userID, from, to)
	if err != nil {
		log.Error("failed to compute daily summaries: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *reportRepository) RolledDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("loading rolled-up daily summaries: user_id=%d, from=%s, to=%s", userID, from, to)

	var out []models.DailySummary
	err := r.db.SelectContext(ctx, &out, `
SELECT user_id, day, attempts, passes, almosts, fails, items_studied
FROM daily_summaries
WHERE user_id = ? AND day BETWEEN ? AND ?
ORDER BY day ASC
`, userID, from, to)
	if err != nil {
		log.Error("failed to load daily summaries: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *reportRepository) Rollup(ctx context.Context, day string, at time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("rolling up attempts for day=%s", day)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO daily_summaries (user_id, day, attempts, passes, almosts, fails, items_studied, rolled_up_at)
SELECT user_id, ?,`+dailyAggregate+`, ?
FROM attempts
WHERE substr(attempted_at, 1, 10) = ?
GROUP BY user_id
ON CONFLICT(user_id, day) DO UPDATE SET
    attempts = excluded.attempts,
    passes = excluded.passes,
    almosts = excluded.almosts,
    fails = excluded.fails,
    items_studied = excluded.items_studied,
    rolled_up_at = excluded.rolled_up_at
WHERE excluded.attempts >= daily_summaries.attempts
`, day, at.UTC(), day)
	if err != nil {
		log.Error("failed to roll up day %s: %v", day, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("rolled up %d user summaries for %s", n, day)
	return n, nil
}

func (r *reportRepository) Overview(ctx context.Context, userID int64, today time.Time) (*models.ProgressOverview, error) {
	log := logger.FromContext(ctx).WithPrefix("report_repo")
	log.Debug("computing overview: user_id=%d", userID)

	var ov models.ProgressOverview
	err := r.db.GetContext(ctx, &ov, `
SELECT
    ? AS user_id,
    COUNT(*) AS items_started,
    COALESCE(SUM(CASE WHEN due_on IS NOT NULL AND due_on <= ? THEN 1 ELSE 0 END), 0) AS items_due,
    COALESCE(SUM(CASE WHEN interval_days >= ? THEN 1 ELSE 0 END), 0) AS items_mastered,
    COALESCE(MAX(streak), 0) AS longest_streak,
    (SELECT COUNT(*) FROM attempts WHERE user_id = ?) AS total_attempts
FROM review_states
WHERE user_id = ?
`, userID, formatDay(today), review.MaxIntervalDays, userID, userID)
	if err != nil {
		log.Error("failed to compute overview: %v", err)
		return nil, err
	}

	var last time.Time
	err = r.db.QueryRowxContext(ctx, `
SELECT attempted_at FROM attempts WHERE user_id = ? ORDER BY attempted_at DESC LIMIT 1
`, userID).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		log.Error("failed to load last attempt: %v", err)
		return nil, err
	default:
		last = last.UTC()
		ov.LastAttemptAt = &last
	}
	return &ov, nil
}
