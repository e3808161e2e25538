package repository

import (
	"context"

	"github.com/vytor/wordflash/internal/models"
)

// ItemRepository handles study item data access
type ItemRepository interface {
	Get(ctx context.Context, id int64) (*models.Item, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	Insert(ctx context.Context, item models.Item) (int64, error)
	// Upsert inserts or updates by (term, topic) and reports whether a new row was created.
	Upsert(ctx context.Context, item models.Item) (int64, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
