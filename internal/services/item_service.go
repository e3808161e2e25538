package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/jobs"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

// MaxTermLength bounds terms accepted for items and lookups, in runes.
const MaxTermLength = 64

// ItemService handles vocabulary item business logic
type ItemService interface {
	Create(ctx context.Context, item models.Item) (*models.Item, error)
	Get(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, items []models.Item) (*models.ImportSummary, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	queue    jobs.JobQueue
	opts     options
}

// NewItemService creates a new ItemService. queue may be nil, in which case
// new items are not pre-resolved.
func NewItemService(itemRepo repository.ItemRepository, queue jobs.JobQueue, opts ...Option) ItemService {
	return &itemService{itemRepo: itemRepo, queue: queue, opts: newOptions(opts)}
}

func validateTerm(term string) error {
	if term == "" {
		return errors.NewValidationError("term", "cannot be empty")
	}
	if utf8.RuneCountInString(term) > MaxTermLength {
		return errors.NewValidationError("term", fmt.Sprintf("must be at most %d characters", MaxTermLength))
	}
	return nil
}

func cleanItem(item models.Item) (models.Item, error) {
	item.Term = strings.TrimSpace(item.Term)
	item.Definition = strings.TrimSpace(item.Definition)
	item.Topic = strings.TrimSpace(item.Topic)
	if err := validateTerm(item.Term); err != nil {
		return item, err
	}
	if item.Definition == "" {
		return item, errors.NewValidationError("definition", "cannot be empty")
	}
	return item, nil
}

func (s *itemService) Create(ctx context.Context, item models.Item) (*models.Item, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating item: term=%q, topic=%q", item.Term, item.Topic)

	item, err := cleanItem(item)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = s.opts.now().UTC()

	id, err := s.itemRepo.Insert(ctx, item)
	if err != nil {
		log.Error("failed to insert item: %v", err)
		return nil, errors.NewInternalError(err)
	}
	item.ID = id

	s.warm(ctx, item.Term)
	return &item, nil
}

// warm queues a background lookup so the first review finds the definition cached.
func (s *itemService) warm(ctx context.Context, term string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueWarmup(term); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue warmup for %q: %v", term, err)
	}
}

func (s *itemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting item: id=%d", id)

	item, err := s.itemRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get item: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("item", id)
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing items: topic=%q, limit=%d, offset=%d", filter.Topic, filter.Limit, filter.Offset)

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewValidationError("limit", "must not be negative")
	}
	filter.Topic = strings.TrimSpace(filter.Topic)

	items, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list items: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return items, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting item: id=%d", id)

	deleted, err := s.itemRepo.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete item: %v", err)
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("item", id)
	}
	return nil
}

// Import upserts items by (term, topic). Invalid rows are skipped and
// reported; a storage failure aborts the import.
func (s *itemService) Import(ctx context.Context, items []models.Item) (*models.ImportSummary, error) {
	log := logger.FromContext(ctx)
	log.Info("importing %d items", len(items))

	summary := &models.ImportSummary{}
	now := s.opts.now().UTC()
	for i, raw := range items {
		item, err := cleanItem(raw)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		item.CreatedAt = now

		_, created, err := s.itemRepo.Upsert(ctx, item)
		if err != nil {
			log.Error("failed to upsert item %q: %v", item.Term, err)
			return summary, errors.NewInternalError(err)
		}
		if created {
			summary.Created++
			s.warm(ctx, item.Term)
		} else {
			summary.Updated++
		}
	}

	log.Info("import finished: created=%d updated=%d skipped=%d", summary.Created, summary.Updated, summary.Skipped)
	return summary, nil
}
