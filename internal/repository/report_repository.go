package repository

import (
	"context"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// ReportRepository handles aggregate reporting queries. Days are YYYY-MM-DD.
type ReportRepository interface {
	LiveDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error)
	RolledDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error)
	// Rollup snapshots every user's attempts for day into daily_summaries.
	Rollup(ctx context.Context, day string, at time.Time) (int64, error)
	Overview(ctx context.Context, userID int64, today time.Time) (*models.ProgressOverview, error)
}
