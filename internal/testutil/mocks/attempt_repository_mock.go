package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Insert(ctx context.Context, attempt models.Attempt) (int64, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) ListByItem(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error) {
	args := m.Called(ctx, userID, itemID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}
