package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const queryPageSize = 100

// Client is a minimal REST client for the record store.
// Throttled (429) and server-side (5xx) failures are retried with exponential backoff.
type Client struct {
	cfg        Config
	http       *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBackOff replaces the retry policy.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = fn }
}

// NewClient creates a record store client.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateDatabase creates the listing database under a parent page and returns its id.
func (c *Client) CreateDatabase(ctx context.Context, parentPageID, title string) (string, error) {
	payload := map[string]any{
		"parent": map[string]any{"type": "page_id", "page_id": parentPageID},
		"icon":   map[string]any{"type": "emoji", "emoji": "🚗"},
		"title": []map[string]any{
			{"type": "text", "text": map[string]any{"content": title}},
		},
		"properties": DatabaseSchema(),
	}

	var out databaseResponse
	if err := c.do(ctx, http.MethodPost, "/databases", payload, &out); err != nil {
		return "", fmt.Errorf("failed to create database: %w", err)
	}
	return out.ID, nil
}

// QueryDatabase returns every page matching filter, following cursors.
// A nil filter returns the whole database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, filter any) ([]Page, error) {
	pages := []Page{}
	cursor := ""
	for {
		payload := map[string]any{"page_size": queryPageSize}
		if filter != nil {
			payload["filter"] = filter
		}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}

		var out queryResponse
		if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", payload, &out); err != nil {
			return nil, fmt.Errorf("failed to query database: %w", err)
		}
		pages = append(pages, out.Results...)

		if !out.HasMore || out.NextCursor == "" {
			return pages, nil
		}
		cursor = out.NextCursor
	}
}

// CreatePage adds a row to a database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]Property) (*Page, error) {
	payload := map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", payload, &page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &page, nil
}

// UpdatePage patches the given properties of a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]Property) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"properties": properties}, &page); err != nil {
		return nil, fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	return &page, nil
}

// DatabaseProperties returns the property kinds of a database keyed by property name.
func (c *Client) DatabaseProperties(ctx context.Context, databaseID string) (map[string]PropertyKind, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+databaseID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to retrieve database %s: %w", databaseID, err)
	}
	kinds := make(map[string]PropertyKind, len(resp.Properties))
	for name, prop := range resp.Properties {
		kinds[name] = prop.Type
	}
	return kinds, nil
}

// TrashPage moves a page to the trash.
func (c *Client) TrashPage(ctx context.Context, pageID string) error {
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"in_trash": true}, nil); err != nil {
		return fmt.Errorf("failed to trash page %s: %w", pageID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return err
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.cfg.MaxRetries, 0))), ctx)

	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Notion-Version", c.cfg.Version)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := decodeError(resp.StatusCode, data)
			if !apiErr.Retryable() {
				return backoff.Permanent(apiErr)
			}
			if wait := retryAfter(resp.Header); wait > 0 {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return backoff.Permanent(ctx.Err())
				}
			}
			return apiErr
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Retrying record store request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	return backoff.RetryNotify(operation, policy, notify)
}

func decodeError(status int, data []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "http_" + strconv.Itoa(status)
		apiErr.Message = strings.TrimSpace(string(data))
	}
	apiErr.Status = status
	return apiErr
}

func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 0
}

// IsNotFound reports whether err is an object_not_found API error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
