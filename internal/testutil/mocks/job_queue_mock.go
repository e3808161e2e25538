package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueWarmup(term string) error {
	args := m.Called(term)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueWarmupSweep() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockJobQueue) EnqueuePurge() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueRollup(day time.Time) error {
	args := m.Called(day)
	return args.Error(0)
}
