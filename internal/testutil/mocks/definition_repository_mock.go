package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
)

// MockDefinitionRepository is a mock implementation of repository.DefinitionCacheRepository
type MockDefinitionRepository struct {
	mock.Mock
}

func (m *MockDefinitionRepository) Get(ctx context.Context, term string) (*models.CacheEntry, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CacheEntry), args.Error(1)
}

func (m *MockDefinitionRepository) Put(ctx context.Context, entry models.CacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDefinitionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
