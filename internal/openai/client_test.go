package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/openai"
)

func respond(w http.ResponseWriter, text string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"output": []any{map[string]any{
			"type": "message",
			"role": "assistant",
			"content": []any{map[string]any{
				"type": "output_text",
				"text": text,
			}},
		}},
	})
}

func TestGenerateJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond(w, `{"answer":"42"}`)
	}))
	defer srv.Close()

	client, err := openai.New("sk-test", openai.WithBaseURL(srv.URL), openai.WithModel("test-model"))
	require.NoError(t, err)

	var out struct {
		Answer string `json:"answer"`
	}
	schema := map[string]any{"type": "object"}
	require.NoError(t, client.GenerateJSON(context.Background(), "sys", "usr", "answer", schema, &out))

	assert.Equal(t, "42", out.Answer)
	assert.Equal(t, "test-model", got["model"])
	format := got["text"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, true, format["strict"])
	assert.Equal(t, "answer", format["name"])
}

func TestGenerateJSON_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	client, err := openai.New("sk-test", openai.WithBaseURL(srv.URL))
	require.NoError(t, err)

	var out map[string]any
	err = client.GenerateJSON(context.Background(), "s", "u", "x", map[string]any{}, &out)

	var apiErr *openai.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "slow down")
}

func TestGenerateJSON_EmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	client, err := openai.New("sk-test", openai.WithBaseURL(srv.URL))
	require.NoError(t, err)

	var out map[string]any
	assert.Error(t, client.GenerateJSON(context.Background(), "s", "u", "x", map[string]any{}, &out))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := openai.New("  ")
	assert.Error(t, err)
}

func TestRateLimitRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, `{}`)
	}))
	defer srv.Close()

	client, err := openai.New("sk-test", openai.WithBaseURL(srv.URL), openai.WithRatePerMinute(1))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, client.GenerateJSON(context.Background(), "s", "u", "x", map[string]any{}, &out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, client.GenerateJSON(ctx, "s", "u", "x", map[string]any{}, &out))
}
