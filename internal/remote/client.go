// Package remote talks to the content endpoints served by contentd.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sepri/internal/domain"
)

const apiPrefix = "/api/"

// Config holds remote client configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// TokenSource supplies the bearer token sent with writes. An empty token
// sends the request unauthenticated.
type TokenSource func(ctx context.Context) (string, error)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.Code, e.Body)
}

// Client implements the remote side of the content repository.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	token          TokenSource
	logger         *slog.Logger
}

// New creates a new remote client.
func New(cfg Config, token TokenSource, logger *slog.Logger) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		token:          token,
		logger:         logger.With("component", "remote"),
	}
}

// FetchAll reads the whole collection of kind into dst.
func (c *Client) FetchAll(ctx context.Context, kind domain.Kind, dst any) error {
	body, err := c.withRetry(ctx, http.MethodGet, kind.Endpoint(), nil, false)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", kind, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

// ReplaceAll pushes v as the new collection of kind.
func (c *Client) ReplaceAll(ctx context.Context, kind domain.Kind, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}

	body, err := c.withRetry(ctx, http.MethodPost, kind.Endpoint(), payload, true)
	if err != nil {
		return fmt.Errorf("replace %s: %w", kind, err)
	}

	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &ack); err != nil || !ack.Success {
		return fmt.Errorf("replace %s: server did not acknowledge the write", kind)
	}
	return nil
}

// Chat sends a conversation to the assistant endpoint.
func (c *Client) Chat(ctx context.Context, history []domain.ChatMessage, message string) (string, error) {
	payload, err := json.Marshal(map[string]any{"history": history, "message": message})
	if err != nil {
		return "", fmt.Errorf("encode chat: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "chat", payload, "")
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode chat: %w", err)
	}
	return resp.Reply, nil
}

func (c *Client) withRetry(ctx context.Context, method, path string, payload []byte, auth bool) ([]byte, error) {
	var token string
	if auth && c.token != nil {
		var err error
		if token, err = c.token(ctx); err != nil {
			return nil, fmt.Errorf("obtain token: %w", err)
		}
	}

	var body []byte
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err = c.do(ctx, method, path, payload, token)
		if err == nil || !retryable(err) {
			return body, err
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"method", method,
			"path", path,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, token string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "sepri-console/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// retryable reports whether repeating the request may succeed. Client
// errors other than 429 will not.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
