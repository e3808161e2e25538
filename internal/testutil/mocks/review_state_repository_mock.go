package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

// MockReviewStateRepository is a mock implementation of repository.ReviewStateRepository.
// Apply hands the mocked current state (first return value, may be nil) to fn
// and returns fn's result, so callers exercise their real transition logic.
type MockReviewStateRepository struct {
	mock.Mock
}

func (m *MockReviewStateRepository) Get(ctx context.Context, userID, itemID int64) (*models.ReviewState, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) Apply(ctx context.Context, userID, itemID int64, fn repository.ApplyFunc) (models.ReviewState, error) {
	args := m.Called(ctx, userID, itemID)
	if err := args.Error(1); err != nil {
		return models.ReviewState{}, err
	}
	var current *models.ReviewState
	if args.Get(0) != nil {
		current = args.Get(0).(*models.ReviewState)
	}
	next, err := fn(current)
	if err != nil {
		return models.ReviewState{}, err
	}
	next.UserID, next.ItemID = userID, itemID
	return next, nil
}

func (m *MockReviewStateRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReviewState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewState), args.Error(1)
}

func (m *MockReviewStateRepository) ListDue(ctx context.Context, day time.Time, limit int) ([]models.ReviewState, error) {
	args := m.Called(ctx, day, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewState), args.Error(1)
}
