package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vytor/wordflash/internal/models"
)

// MockProvider is a mock implementation of dictionary.Provider
type MockProvider struct {
	mock.Mock
	ProviderName string
}

func (m *MockProvider) Name() string {
	return m.ProviderName
}

func (m *MockProvider) Lookup(ctx context.Context, term string) (*models.WordEntry, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordEntry), args.Error(1)
}

// MockLookup is a mock implementation of dictionary.Lookup
type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Resolve(ctx context.Context, term string) (*models.WordEntry, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordEntry), args.Error(1)
}
