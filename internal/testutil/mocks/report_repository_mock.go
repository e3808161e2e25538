package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
)

// MockReportRepository is a mock implementation of repository.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) LiveDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySummary), args.Error(1)
}

func (m *MockReportRepository) RolledDaily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySummary), args.Error(1)
}

func (m *MockReportRepository) Rollup(ctx context.Context, day string, at time.Time) (int64, error) {
	args := m.Called(ctx, day, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) Overview(ctx context.Context, userID int64, today time.Time) (*models.ProgressOverview, error) {
	args := m.Called(ctx, userID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressOverview), args.Error(1)
}
