package repository

import (
	"context"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// ApplyFunc computes the next state from the current one (nil when absent).
type ApplyFunc func(current *models.ReviewState) (models.ReviewState, error)

// ReviewStateRepository handles per-user scheduling state
type ReviewStateRepository interface {
	Get(ctx context.Context, userID, itemID int64) (*models.ReviewState, error)
	// Apply runs a read-modify-write of one state inside a transaction.
	Apply(ctx context.Context, userID, itemID int64, fn ApplyFunc) (models.ReviewState, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ReviewState, error)
	// ListDue returns states of all users due on or before day, oldest first.
	ListDue(ctx context.Context, day time.Time, limit int) ([]models.ReviewState, error)
}
