package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockJSONGenerator is a mock implementation of openai.JSONGenerator. The
// first return value is a JSON document decoded into out.
type MockJSONGenerator struct {
	mock.Mock
}

func (m *MockJSONGenerator) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	args := m.Called(ctx, user, schemaName)
	if err := args.Error(1); err != nil {
		return err
	}
	return json.Unmarshal([]byte(args.String(0)), out)
}
