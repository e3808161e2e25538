package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/services"
)

var (
	_ services.ItemService        = (*MockItemService)(nil)
	_ services.ReviewService      = (*MockReviewService)(nil)
	_ services.DefinitionService  = (*MockDefinitionService)(nil)
	_ services.ReportService      = (*MockReportService)(nil)
	_ services.DefinitionResolver = (*MockResolver)(nil)
)

// MockItemService is a mock implementation of services.ItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, item models.Item) (*models.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemService) Import(ctx context.Context, items []models.Item) (*models.ImportSummary, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

// MockReviewService is a mock implementation of services.ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) RecordAttempt(ctx context.Context, userID, itemID int64, grade models.Grade, mode models.AttemptMode) (*models.AttemptResult, error) {
	args := m.Called(ctx, userID, itemID, grade, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttemptResult), args.Error(1)
}

func (m *MockReviewService) GradeSpokenAttempt(ctx context.Context, userID, itemID int64, transcript string) (*models.AttemptResult, error) {
	args := m.Called(ctx, userID, itemID, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttemptResult), args.Error(1)
}

func (m *MockReviewService) DueSession(ctx context.Context, userID int64, limit int) ([]models.DueItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DueItem), args.Error(1)
}

func (m *MockReviewService) State(ctx context.Context, userID, itemID int64) (*models.ReviewState, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewState), args.Error(1)
}

func (m *MockReviewService) History(ctx context.Context, userID, itemID int64, limit int) ([]models.Attempt, error) {
	args := m.Called(ctx, userID, itemID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}

// MockDefinitionService is a mock implementation of services.DefinitionService
type MockDefinitionService struct {
	mock.Mock
}

func (m *MockDefinitionService) Define(ctx context.Context, term string) (*models.WordEntry, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordEntry), args.Error(1)
}

func (m *MockDefinitionService) WarmTerm(ctx context.Context, term string) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockDefinitionService) Warmup(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockDefinitionService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportService is a mock implementation of services.ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Daily(ctx context.Context, userID int64, from, to string) ([]models.DailySummary, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailySummary), args.Error(1)
}

func (m *MockReportService) Overview(ctx context.Context, userID int64) (*models.ProgressOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressOverview), args.Error(1)
}

func (m *MockReportService) Rollup(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockResolver is a mock implementation of services.DefinitionResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Define(ctx context.Context, term string) (*models.WordEntry, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordEntry), args.Error(1)
}

func (m *MockResolver) Warm(ctx context.Context, term string) bool {
	args := m.Called(ctx, term)
	return args.Bool(0)
}
