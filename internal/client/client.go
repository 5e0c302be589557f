// Package client implements the streaming HTTP client for
// Ollama-compatible model servers. Responses arrive as newline-delimited
// JSON chunks which are decoded incrementally and handed to the caller as
// they complete.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/llmkit/llmstream/internal/api"
	"github.com/llmkit/llmstream/internal/config"
	"github.com/llmkit/llmstream/internal/model"
	"github.com/llmkit/llmstream/internal/ratelimit"
	"github.com/llmkit/llmstream/internal/stream"
)

const (
	defaultBackoff = 500 * time.Millisecond
	readBufferSize = 16 * 1024
	maxErrorBody   = 32 * 1024
)

// ErrMissingModel reports a request without a model name.
var ErrMissingModel = errors.New("model is required")

// StatusError reports a non-2xx response from the server, carrying the
// server's error message when one was provided.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Status, e.Message)
	}
	return e.Status
}

// GenerateFunc receives each completion chunk as it is decoded. Returning
// an error aborts the stream.
type GenerateFunc func(api.GenerateResponse) error

// ChatFunc receives each chat chunk as it is decoded. Returning an error
// aborts the stream.
type ChatFunc func(api.ChatResponse) error

// Client talks to one model server. It is safe for concurrent use; every
// response gets its own stream decoder.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    map[string]string
	token      string
	limiter    *ratelimit.Limiter
	retries    int
	backoff    time.Duration
}

// New creates a client from a validated configuration.
func New(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient, err := cfg.HTTPClient()
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBaseURL, cfg.BaseURL)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		headers:    cfg.Headers,
		token:      cfg.Token,
		limiter:    ratelimit.New(cfg.RateLimit),
		retries:    cfg.Retries,
		backoff:    defaultBackoff,
	}, nil
}

// Generate runs a completion. Each decoded chunk is passed to fn (when
// non-nil) in arrival order; the returned response is the assembly of the
// whole stream: concatenated text plus the context and counters from the
// final chunk.
func (c *Client) Generate(ctx context.Context, req *api.GenerateRequest, fn GenerateFunc) (*api.GenerateResponse, error) {
	if req.Model == "" {
		return nil, ErrMissingModel
	}

	var (
		final api.GenerateResponse
		text  strings.Builder
	)
	err := streamValues(ctx, c, model.GenerateEndpoint, req, func(r api.GenerateResponse) error {
		text.WriteString(r.Response)
		if r.Done {
			final = r
		}
		if fn != nil {
			return fn(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	final.Response = text.String()
	return &final, nil
}

// Chat runs a chat completion, streaming chunks to fn and assembling the
// full assistant message.
func (c *Client) Chat(ctx context.Context, req *api.ChatRequest, fn ChatFunc) (*api.ChatResponse, error) {
	if req.Model == "" {
		return nil, ErrMissingModel
	}

	var (
		final   api.ChatResponse
		content strings.Builder
	)
	err := streamValues(ctx, c, model.ChatEndpoint, req, func(r api.ChatResponse) error {
		content.WriteString(r.Message.Content)
		if r.Done {
			final = r
		}
		if fn != nil {
			return fn(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	final.Message.Role = "assistant"
	final.Message.Content = content.String()
	return &final, nil
}

// Stream posts payload to an arbitrary endpoint path and emits each
// decoded value untyped, for callers that inspect values structurally
// instead of through the wire types.
func (c *Client) Stream(ctx context.Context, path string, payload any, fn func(value map[string]any) error) error {
	return streamValues(ctx, c, path, payload, fn)
}

// Embeddings computes the embedding vector for a prompt. The endpoint does
// not stream.
func (c *Client) Embeddings(ctx context.Context, req *api.EmbeddingsRequest) (*api.EmbeddingsResponse, error) {
	if req.Model == "" {
		return nil, ErrMissingModel
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.send(ctx, model.EmbeddingsEndpoint, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out api.EmbeddingsResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
	}
	return &out, nil
}

// streamValues posts payload and feeds the response body, chunk by chunk,
// through a stream decoder, invoking emit per completed value. An error
// returned by emit aborts reading.
func streamValues[T any](ctx context.Context, c *Client, path string, payload any, emit func(T) error) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.send(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var emitErr error
	decoder := stream.New(func(value T) {
		if emitErr != nil {
			return
		}
		emitErr = emit(value)
	})

	buf := make([]byte, readBufferSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if err := decoder.Feed(buf[:n]); err != nil {
				return fmt.Errorf("failed to decode response stream: %w", err)
			}
			if emitErr != nil {
				return emitErr
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read response stream: %w", readErr)
		}
	}
}

// send issues the request with transport-level retries: connection
// failures, 429 and 5xx responses are retried with exponential backoff
// until the attempt budget runs out. Once response headers arrive with a
// 2xx status the response is handed back and never retried.
func (c *Client) send(ctx context.Context, path string, body []byte) (*http.Response, error) {
	maxAttempts := max(c.retries+1, 1)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := c.do(ctx, path, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == maxAttempts || !retryable(err) {
			return nil, err
		}

		delay := c.backoff << (attempt - 1)
		slog.Debug("retrying request", "path", path, "attempt", attempt, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// do issues a single POST attempt.
func (c *Client) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiting interrupted: %w", err)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	slog.Debug("sending request", "method", req.Method, "url", u.String(), "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	return resp, nil
}

// statusError builds a StatusError from a non-2xx response, preferring the
// server's own error message when the body carries one.
func statusError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := strings.TrimSpace(string(payload))
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.Error != "" {
		message = body.Error
	}

	return &StatusError{
		Code:    resp.StatusCode,
		Status:  resp.Status,
		Message: message,
	}
}

// retryable reports whether another attempt may help.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	return true
}
