package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type reviewStateRepository struct {
	db *sql.DB
}

// NewReviewStateRepository creates a new ReviewStateRepository implementation
func NewReviewStateRepository(db *sql.DB) repository.ReviewStateRepository {
	return &reviewStateRepository{db: db}
}

var stateColumns = []string{"user_id", "item_id", "streak", "interval_days", "due_on", "last_result", "updated_at"}

func scanState(row scanner) (models.ReviewState, error) {
	var (
		st         models.ReviewState
		dueOn      sql.NullTime
		lastResult sql.NullString
	)
	if err := row.Scan(&st.UserID, &st.ItemID, &st.Streak, &st.IntervalDays, &dueOn, &lastResult, &st.UpdatedAt); err != nil {
		return st, err
	}
	if dueOn.Valid {
		d := dueOn.Time.UTC()
		st.DueOn = &d
	}
	if lastResult.Valid {
		g, err := models.ParseGrade(lastResult.String)
		if err != nil {
			return st, err
		}
		st.LastResult = &g
	}
	return st, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getState(ctx context.Context, q queryRower, userID, itemID int64) (*models.ReviewState, error) {
	query, args, err := sqlBuilder.Select(stateColumns...).From("review_states").
		Where(squirrel.Eq{"user_id": userID, "item_id": itemID}).ToSql()
	if err != nil {
		return nil, err
	}
	st, err := scanState(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *reviewStateRepository) Get(ctx context.Context, userID, itemID int64) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting review state: user_id=%d, item_id=%d", userID, itemID)

	st, err := getState(ctx, r.db, userID, itemID)
	if err != nil {
		log.Error("failed to get review state: %v", err)
		return nil, err
	}
	return st, nil
}

func (r *reviewStateRepository) Apply(ctx context.Context, userID, itemID int64, fn repository.ApplyFunc) (models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("applying review state change: user_id=%d, item_id=%d", userID, itemID)

	var next models.ReviewState
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := getState(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		next.UserID, next.ItemID = userID, itemID

		var lastResult sql.NullString
		if next.LastResult != nil {
			lastResult = sql.NullString{String: next.LastResult.String(), Valid: true}
		}
		query, args, err := sqlBuilder.Insert("review_states").Columns(stateColumns...).
			Values(next.UserID, next.ItemID, next.Streak, next.IntervalDays, nullDay(next.DueOn), lastResult, next.UpdatedAt.UTC()).
			Suffix(`ON CONFLICT(user_id, item_id) DO UPDATE SET
    streak = excluded.streak,
    interval_days = excluded.interval_days,
    due_on = excluded.due_on,
    last_result = excluded.last_result,
    updated_at = excluded.updated_at`).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Error("failed to apply review state: %v", err)
		return models.ReviewState{}, err
	}
	log.Debug("review state saved: streak=%d, interval=%d", next.Streak, next.IntervalDays)
	return next, nil
}

func (r *reviewStateRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing review states: user_id=%d", userID)

	query, args, err := sqlBuilder.Select(stateColumns...).From("review_states").
		Where(squirrel.Eq{"user_id": userID}).OrderBy("item_id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, log, query, args...)
}

func (r *reviewStateRepository) ListDue(ctx context.Context, day time.Time, limit int) ([]models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing due review states: day=%s, limit=%d", formatDay(day), limit)

	q := sqlBuilder.Select(stateColumns...).From("review_states").
		Where(squirrel.NotEq{"due_on": nil}).
		Where(squirrel.LtOrEq{"due_on": formatDay(day)}).
		OrderBy("due_on ASC", "user_id ASC", "item_id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, log, query, args...)
}

func (r *reviewStateRepository) query(ctx context.Context, log *logger.Logger, query string, args ...any) ([]models.ReviewState, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query review states: %v", err)
		return nil, err
	}
	defer rows.Close()

	var states []models.ReviewState
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			log.Error("failed to scan review state row: %v", err)
			return nil, err
		}
		states = append(states, st)
	}
	log.Debug("found %d review states", len(states))
	return states, rows.Err()
}
