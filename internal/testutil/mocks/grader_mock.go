package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/grading"
)

// MockGrader is a mock implementation of grading.Grader
type MockGrader struct {
	mock.Mock
}

func (m *MockGrader) Grade(ctx context.Context, req grading.Request) (*grading.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grading.Result), args.Error(1)
}
