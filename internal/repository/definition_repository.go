package repository

import (
	"context"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// DefinitionCacheRepository is the persistent definition store. Terms are
// case-insensitive keys; Get returns nil, nil when no row exists.
type DefinitionCacheRepository interface {
	Get(ctx context.Context, term string) (*models.CacheEntry, error)
	Put(ctx context.Context, entry models.CacheEntry) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
