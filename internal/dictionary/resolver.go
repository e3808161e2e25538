package dictionary

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

// DefaultTTL is how long a resolved entry stays fresh in either cache tier.
const DefaultTTL = 7 * 24 * time.Hour

// Store is the persistent tier. Get returns nil, nil for unknown terms.
type Store interface {
	Get(ctx context.Context, term string) (*models.CacheEntry, error)
	Put(ctx context.Context, entry models.CacheEntry) error
}

// Resolver answers definition lookups from the memory tier, then the
// persistent tier, then the provider chain, writing chain results back to
// both caches. Failures are never cached.
type Resolver struct {
	memory *MemoryCache
	store  Store
	remote Lookup
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverClock replaces time.Now for freshness checks and cache stamps.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

// NewResolver wires the three tiers together.
func NewResolver(memory *MemoryCache, store Store, remote Lookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		memory: memory,
		store:  store,
		remote: remote,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define returns the entry for term. The only failure a caller needs to
// handle is ErrNotFound (or ErrEmptyTerm, or ctx's error when the caller
// gives up). An abandoned call lets the chain finish and still caches.
func (r *Resolver) Define(ctx context.Context, term string) (*models.WordEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("dictionary")

	key := Normalize(term)
	if key == "" {
		return nil, ErrEmptyTerm
	}

	if entry, ok := r.memory.Get(key); ok {
		log.Debug("memory hit: %q", key)
		return &entry, nil
	}

	if entry, ok := r.fromStore(ctx, log, key); ok {
		return entry, nil
	}

	ch := r.flight.DoChan(key, func() (any, error) {
		return r.resolveRemote(context.WithoutCancel(ctx), key)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		entry := *res.Val.(*models.WordEntry)
		return &entry, nil
	case <-ctx.Done():
		log.Debug("caller gave up on %q; lookup continues in background", key)
		return nil, ctx.Err()
	}
}

func (r *Resolver) fromStore(ctx context.Context, log *logger.Logger, key string) (*models.WordEntry, bool) {
	if r.store == nil {
		return nil, false
	}
	ce, err := r.store.Get(ctx, key)
	if err != nil {
		log.Warn("persistent cache read failed for %q: %v", key, err)
		return nil, false
	}
	if ce == nil {
		return nil, false
	}
	if !ce.Fresh(r.now(), r.ttl) {
		log.Debug("persistent entry for %q is stale (cached %s)", key, ce.CachedAt.Format(time.RFC3339))
		return nil, false
	}
	if !ce.Entry.Valid() {
		log.Warn("persistent entry for %q has no definitions, ignoring", key)
		return nil, false
	}
	log.Debug("persistent hit: %q", key)
	r.memory.Set(key, ce.Entry, ce.CachedAt)
	entry := ce.Entry
	return &entry, true
}

func (r *Resolver) resolveRemote(ctx context.Context, key string) (*models.WordEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("dictionary")

	entry, err := r.remote.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	cachedAt := r.now()
	if r.store != nil {
		if err := r.store.Put(ctx, models.CacheEntry{Term: key, Entry: *entry, CachedAt: cachedAt}); err != nil {
			log.Warn("persistent cache write failed for %q: %v", key, err)
		}
	}
	r.memory.Set(key, *entry, cachedAt)
	return entry, nil
}

// Warm resolves term through every tier and discards the result. It reports
// whether the term resolved.
func (r *Resolver) Warm(ctx context.Context, term string) bool {
	_, err := r.Define(ctx, term)
	return err == nil
}
