package repository

import (
	"context"

	"github.com/vytor/wordflash/internal/models"
)

// AttemptRepository handles attempt history
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.Attempt) (int64, error)
	ListByItem(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error)
}
