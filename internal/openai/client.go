// Package openai is a small client for the Responses API with strict JSON
// schema output.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vytor/wordflash/internal/logger"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
)

// JSONGenerator produces a JSON document matching schema and decodes it into out.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error
}

// Ensure Client implements the interface
var _ JSONGenerator = (*Client)(nil)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai status %d: %s", e.StatusCode, e.Body)
}

// ErrRefused is returned when the model declines to answer.
var ErrRefused = errors.New("openai: model refused")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		if model = strings.TrimSpace(model); model != "" {
			c.model = model
		}
	}
}

// WithRatePerMinute caps outgoing requests; n <= 0 removes the cap.
func WithRatePerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// New returns a client for apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai: missing API key")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      DefaultModel,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model reports the configured model id.
func (c *Client) Model() string { return c.model }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string    `json:"model"`
	Input []message `json:"input"`
	Text  struct {
		Format map[string]any `json:"format,omitempty"`
	} `json:"text"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func (r responsesResponse) outputText() (text, refusal string) {
	var out strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			switch part.Type {
			case "output_text":
				out.WriteString(part.Text)
			case "refusal":
				refusal = part.Refusal
			}
		}
	}
	return out.String(), refusal
}

func (c *Client) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("openai")
	if schemaName == "" || schema == nil {
		return errors.New("openai: schema name and schema required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("openai: rate limit wait: %w", err)
	}

	req := responsesRequest{
		Model: c.model,
		Input: []message{{Role: "system", Content: system}, {Role: "user", Content: user}},
	}
	req.Text.Format = map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/responses", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug("requesting %s (model=%s)", schemaName, c.model)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()
	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("openai: decode response: %w", err)
	}
	text, refusal := parsed.outputText()
	if refusal != "" {
		return fmt.Errorf("%w: %s", ErrRefused, refusal)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("openai: no output_text in response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("openai: parse model JSON: %w", err)
	}
	return nil
}
