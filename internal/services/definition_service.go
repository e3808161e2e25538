package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/review"
)

// DefinitionResolver is the tiered lookup behind DefinitionService.
type DefinitionResolver interface {
	Define(ctx context.Context, term string) (*models.WordEntry, error)
	Warm(ctx context.Context, term string) bool
}

// DefinitionService handles definition lookups and cache upkeep
type DefinitionService interface {
	Define(ctx context.Context, term string) (*models.WordEntry, error)
	WarmTerm(ctx context.Context, term string) error
	// Warmup resolves definitions for items due today, up to limit terms.
	Warmup(ctx context.Context, limit int) (int, error)
	// PurgeExpired drops stored definitions older than twice the cache TTL.
	PurgeExpired(ctx context.Context) (int64, error)
}

type definitionService struct {
	resolver  DefinitionResolver
	cacheRepo repository.DefinitionCacheRepository
	stateRepo repository.ReviewStateRepository
	itemRepo  repository.ItemRepository
	ttl       time.Duration
	opts      options
}

// NewDefinitionService creates a new DefinitionService
func NewDefinitionService(
	resolver DefinitionResolver,
	cacheRepo repository.DefinitionCacheRepository,
	stateRepo repository.ReviewStateRepository,
	itemRepo repository.ItemRepository,
	ttl time.Duration,
	opts ...Option,
) DefinitionService {
	if ttl <= 0 {
		ttl = dictionary.DefaultTTL
	}
	return &definitionService{
		resolver:  resolver,
		cacheRepo: cacheRepo,
		stateRepo: stateRepo,
		itemRepo:  itemRepo,
		ttl:       ttl,
		opts:      newOptions(opts),
	}
}

func (s *definitionService) Define(ctx context.Context, term string) (*models.WordEntry, error) {
	log := logger.FromContext(ctx)
	term = dictionary.Normalize(term)
	log.Debug("defining term: %q", term)

	if err := validateTerm(term); err != nil {
		return nil, err
	}

	entry, err := s.resolver.Define(ctx, term)
	if err != nil {
		if stderrors.Is(err, dictionary.ErrNotFound) {
			log.Info("no definition for %q: %v", term, err)
			return nil, errors.NewNotFoundError("definition", term)
		}
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.NewUnavailableError("definition", err)
		}
		log.Error("failed to define %q: %v", term, err)
		return nil, errors.NewInternalError(err)
	}
	return entry, nil
}

func (s *definitionService) WarmTerm(ctx context.Context, term string) error {
	term = dictionary.Normalize(term)
	if err := validateTerm(term); err != nil {
		return err
	}
	if !s.resolver.Warm(ctx, term) {
		logger.FromContext(ctx).Debug("warmup found no definition for %q", term)
	}
	return nil
}

func (s *definitionService) Warmup(ctx context.Context, limit int) (int, error) {
	log := logger.FromContext(ctx)
	today := review.Day(s.opts.now())
	log.Info("warming definitions for items due on %s (limit=%d)", today.Format(time.DateOnly), limit)

	states, err := s.stateRepo.ListDue(ctx, today, 0)
	if err != nil {
		log.Error("failed to list due states: %v", err)
		return 0, errors.NewInternalError(err)
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, st := range states {
		if !seen[st.ItemID] {
			seen[st.ItemID] = true
			ids = append(ids, st.ItemID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	items, err := s.itemRepo.GetMany(ctx, ids)
	if err != nil {
		log.Error("failed to load due items: %v", err)
		return 0, errors.NewInternalError(err)
	}

	terms := make(map[string]bool)
	warmed := 0
	for _, it := range items {
		term := dictionary.Normalize(it.Term)
		if terms[term] {
			continue
		}
		if limit > 0 && len(terms) >= limit {
			break
		}
		terms[term] = true

		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if s.resolver.Warm(ctx, term) {
			warmed++
		}
	}
	log.Info("warmed %d of %d terms", warmed, len(terms))
	return warmed, nil
}

func (s *definitionService) PurgeExpired(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)
	cutoff := s.opts.now().UTC().Add(-2 * s.ttl)
	log.Debug("purging definitions cached before %s", cutoff.Format(time.RFC3339))

	n, err := s.cacheRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error("failed to purge definitions: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("purged %d stale definitions", n)
	return n, nil
}
