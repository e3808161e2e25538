package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: user_id=%d, item_id=%d, grade=%s, mode=%s", a.UserID, a.ItemID, a.Grade, a.Mode)

	if a.AttemptedAt.IsZero() {
		a.AttemptedAt = time.Now()
	}
	query, args, err := sqlBuilder.Insert("attempts").
		Columns("user_id", "item_id", "grade", "mode", "transcript", "feedback", "attempted_at").
		Values(a.UserID, a.ItemID, a.Grade, string(a.Mode), a.Transcript, a.Feedback, a.AttemptedAt.UTC()).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get attempt id: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *attemptRepository) ListByItem(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%d, item_id=%d, limit=%d", userID, itemID, limit)

	q := sqlBuilder.Select("id", "user_id", "item_id", "grade", "mode", "transcript", "feedback", "attempted_at").
		From("attempts").
		Where(squirrel.Eq{"user_id": userID, "item_id": itemID}).
		OrderBy("attempted_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var (
			a    models.Attempt
			mode string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.ItemID, &a.Grade, &mode, &a.Transcript, &a.Feedback, &a.AttemptedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		a.Mode = models.AttemptMode(mode)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
