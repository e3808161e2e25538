package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/grading"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/review"
)

// MaxSessionSize bounds how many due items one session may request.
const MaxSessionSize = 500

// ReviewService handles study attempts and scheduling
type ReviewService interface {
	RecordAttempt(ctx context.Context, userID, itemID int64, grade models.Grade, mode models.AttemptMode) (*models.AttemptResult, error)
	GradeSpokenAttempt(ctx context.Context, userID, itemID int64, transcript string) (*models.AttemptResult, error)
	DueSession(ctx context.Context, userID int64, limit int) ([]models.DueItem, error)
	State(ctx context.Context, userID, itemID int64) (*models.ReviewState, error)
	History(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error)
}

type reviewService struct {
	itemRepo    repository.ItemRepository
	stateRepo   repository.ReviewStateRepository
	attemptRepo repository.AttemptRepository
	grader      grading.Grader
	opts        options
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	itemRepo repository.ItemRepository,
	stateRepo repository.ReviewStateRepository,
	attemptRepo repository.AttemptRepository,
	grader grading.Grader,
	opts ...Option,
) ReviewService {
	return &reviewService{
		itemRepo:    itemRepo,
		stateRepo:   stateRepo,
		attemptRepo: attemptRepo,
		grader:      grader,
		opts:        newOptions(opts),
	}
}

func validateIDs(userID, itemID int64) error {
	if userID <= 0 {
		return errors.NewValidationError("user_id", "must be positive")
	}
	if itemID <= 0 {
		return errors.NewValidationError("item_id", "must be positive")
	}
	return nil
}

func (s *reviewService) loadItem(ctx context.Context, log *logger.Logger, itemID int64) (*models.Item, error) {
	item, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		log.Error("failed to get item: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("item", itemID)
	}
	return item, nil
}

func (s *reviewService) RecordAttempt(ctx context.Context, userID, itemID int64, grade models.Grade, mode models.AttemptMode) (*models.AttemptResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording attempt: user_id=%d, item_id=%d, grade=%s, mode=%s", userID, itemID, grade, mode)

	if err := validateIDs(userID, itemID); err != nil {
		return nil, err
	}
	if !grade.IsValid() {
		return nil, errors.NewValidationError("grade", "must be one of pass, almost, fail")
	}
	if mode == "" {
		mode = models.ModeFlashcard
	}
	if !mode.IsValid() {
		return nil, errors.NewValidationError("mode", "must be one of flashcard, voice")
	}
	if _, err := s.loadItem(ctx, log, itemID); err != nil {
		return nil, err
	}

	return s.record(ctx, log, models.Attempt{UserID: userID, ItemID: itemID, Grade: grade, Mode: mode})
}

// record advances the state and stores the attempt. History is best effort.
func (s *reviewService) record(ctx context.Context, log *logger.Logger, attempt models.Attempt) (*models.AttemptResult, error) {
	now := s.opts.now().UTC()
	today := review.Day(now)

	state, err := s.stateRepo.Apply(ctx, attempt.UserID, attempt.ItemID, func(current *models.ReviewState) (models.ReviewState, error) {
		next := review.Advance(current, attempt.Grade, today)
		next.UserID = attempt.UserID
		next.ItemID = attempt.ItemID
		next.UpdatedAt = now
		return next, nil
	})
	if err != nil {
		log.Error("failed to update review state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("advanced state: streak=%d, interval=%d days", state.Streak, state.IntervalDays)

	attempt.AttemptedAt = now
	if _, err := s.attemptRepo.Insert(ctx, attempt); err != nil {
		log.Warn("failed to store attempt history: %v", err)
	}

	return &models.AttemptResult{State: state, Grade: attempt.Grade, Feedback: attempt.Feedback}, nil
}

func (s *reviewService) GradeSpokenAttempt(ctx context.Context, userID, itemID int64, transcript string) (*models.AttemptResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("grading spoken attempt: user_id=%d, item_id=%d", userID, itemID)

	if err := validateIDs(userID, itemID); err != nil {
		return nil, err
	}
	item, err := s.loadItem(ctx, log, itemID)
	if err != nil {
		return nil, err
	}

	res, err := s.grader.Grade(ctx, grading.Request{Term: item.Term, Canonical: item.Definition, Transcript: transcript})
	if err != nil {
		if stderrors.Is(err, grading.ErrEmptyTranscript) {
			return nil, errors.NewValidationError("transcript", "cannot be empty")
		}
		log.Error("failed to grade transcript: %v", err)
		return nil, errors.NewUnavailableError("grader", err)
	}

	return s.record(ctx, log, models.Attempt{
		UserID:     userID,
		ItemID:     itemID,
		Grade:      res.Grade,
		Mode:       models.ModeVoice,
		Transcript: transcript,
		Feedback:   res.Feedback,
	})
}

func (s *reviewService) DueSession(ctx context.Context, userID int64, limit int) ([]models.DueItem, error) {
	log := logger.FromContext(ctx)
	log.Debug("building due session: user_id=%d, limit=%d", userID, limit)

	if userID <= 0 {
		return nil, errors.NewValidationError("user_id", "must be positive")
	}
	if limit < 0 || limit > MaxSessionSize {
		return nil, errors.NewValidationError("limit", "must be between 0 and 500")
	}

	states, err := s.stateRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list review states: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids := review.DueItems(states, s.opts.now(), limit)
	if len(ids) == 0 {
		return []models.DueItem{}, nil
	}

	items, err := s.itemRepo.GetMany(ctx, ids)
	if err != nil {
		log.Error("failed to load due items: %v", err)
		return nil, errors.NewInternalError(err)
	}
	byID := make(map[int64]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	byState := make(map[int64]models.ReviewState, len(states))
	for _, st := range states {
		byState[st.ItemID] = st
	}

	due := make([]models.DueItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			// Deleted between the two reads.
			continue
		}
		due = append(due, models.DueItem{Item: item, State: byState[id]})
	}
	log.Debug("%d items due", len(due))
	return due, nil
}

func (s *reviewService) State(ctx context.Context, userID, itemID int64) (*models.ReviewState, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting review state: user_id=%d, item_id=%d", userID, itemID)

	if err := validateIDs(userID, itemID); err != nil {
		return nil, err
	}
	state, err := s.stateRepo.Get(ctx, userID, itemID)
	if err != nil {
		log.Error("failed to get review state: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if state == nil {
		return nil, errors.NewNotFoundError("review state", itemID)
	}
	return state, nil
}

func (s *reviewService) History(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting attempt history: user_id=%d, item_id=%d", userID, itemID)

	if err := validateIDs(userID, itemID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListByItem(ctx, userID, itemID, limit)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return attempts, nil
}
