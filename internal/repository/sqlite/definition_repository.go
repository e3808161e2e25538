package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type definitionRepository struct {
	db *sql.DB
}

// NewDefinitionRepository creates the sqlite-backed persistent definition store
func NewDefinitionRepository(db *sql.DB) repository.DefinitionCacheRepository {
	return &definitionRepository{db: db}
}

func (r *definitionRepository) Get(ctx context.Context, term string) (*models.CacheEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("definition_repo")
	log.Debug("getting cached definition: term=%s", term)

	var (
		raw      string
		cachedAt time.Time
		stored   string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT term, entry_json, cached_at
FROM definition_cache
WHERE term = ?
`, term).Scan(&stored, &raw, &cachedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no cached definition: term=%s", term)
			return nil, nil
		}
		log.Error("failed to get cached definition: %v", err)
		return nil, err
	}

	var entry models.WordEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Error("corrupt cached definition: term=%s, err=%v", term, err)
		return nil, fmt.Errorf("decode cached definition %q: %w", stored, err)
	}
	return &models.CacheEntry{Term: stored, Entry: entry, CachedAt: cachedAt.UTC()}, nil
}

func (r *definitionRepository) Put(ctx context.Context, ce models.CacheEntry) error {
	log := logger.FromContext(ctx).WithPrefix("definition_repo")
	log.Debug("caching definition: term=%s, source=%s", ce.Term, ce.Entry.Source)

	raw, err := json.Marshal(ce.Entry)
	if err != nil {
		return fmt.Errorf("encode definition %q: %w", ce.Term, err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO definition_cache (term, entry_json, source, cached_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(term) DO UPDATE SET
    entry_json = excluded.entry_json,
    source = excluded.source,
    cached_at = excluded.cached_at
`, ce.Term, string(raw), ce.Entry.Source, ce.CachedAt.UTC())
	if err != nil {
		log.Error("failed to cache definition: %v", err)
	}
	return err
}

func (r *definitionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("definition_repo")
	log.Debug("purging cached definitions older than %s", cutoff.UTC().Format(time.RFC3339))

	res, err := r.db.ExecContext(ctx, `DELETE FROM definition_cache WHERE cached_at < ?`, cutoff.UTC())
	if err != nil {
		log.Error("failed to purge cached definitions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("purged %d cached definitions", n)
	return n, nil
}
