package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type definitionRepository struct {
	rdb    goredis.UniversalClient
	prefix string
	expiry time.Duration
}

// NewDefinitionRepository stores definitions as JSON values under prefix+term.
// Keys expire after expiry, so stale rows disappear without a purge job.
func NewDefinitionRepository(rdb goredis.UniversalClient, prefix string, expiry time.Duration) repository.DefinitionCacheRepository {
	return &definitionRepository{rdb: rdb, prefix: prefix, expiry: expiry}
}

func (r *definitionRepository) key(term string) string {
	return r.prefix + strings.ToLower(strings.TrimSpace(term))
}

func (r *definitionRepository) Get(ctx context.Context, term string) (*models.CacheEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("definition_redis")
	log.Debug("getting cached definition: term=%s", term)

	raw, err := r.rdb.Get(ctx, r.key(term)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get cached definition: %v", err)
		return nil, err
	}

	var ce models.CacheEntry
	if err := json.Unmarshal(raw, &ce); err != nil {
		log.Error("corrupt cached definition: term=%s, err=%v", term, err)
		return nil, fmt.Errorf("decode cached definition %q: %w", term, err)
	}
	return &ce, nil
}

func (r *definitionRepository) Put(ctx context.Context, ce models.CacheEntry) error {
	log := logger.FromContext(ctx).WithPrefix("definition_redis")
	log.Debug("caching definition: term=%s, source=%s", ce.Term, ce.Entry.Source)

	raw, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("encode definition %q: %w", ce.Term, err)
	}
	if err := r.rdb.Set(ctx, r.key(ce.Term), raw, r.expiry).Err(); err != nil {
		log.Error("failed to cache definition: %v", err)
		return err
	}
	return nil
}

// DeleteOlderThan scans the key space under prefix and removes entries cached
// before cutoff. Expiry normally handles this; the scan covers keys written
// with a longer expiry by an earlier configuration.
func (r *definitionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("definition_redis")
	log.Debug("purging cached definitions older than %s", cutoff.UTC().Format(time.RFC3339))

	var deleted int64
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := r.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		var ce models.CacheEntry
		if err := json.Unmarshal(raw, &ce); err != nil || ce.CachedAt.Before(cutoff) {
			n, err := r.rdb.Del(ctx, key).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
	}
	if err := iter.Err(); err != nil {
		log.Error("failed to scan cached definitions: %v", err)
		return deleted, err
	}
	log.Info("purged %d cached definitions", deleted)
	return deleted, nil
}
