package encar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"listing-sync/core/reconcile"
	"listing-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPClient is the subset of *http.Client the feed client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the marketplace answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Client talks to the marketplace search API and detail pages.
// Every request waits on a shared limiter, so concurrent callers are paced together.
type Client struct {
	cfg     Config
	http    HTTPClient
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter replaces the request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a feed client.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	limit := rate.Inf
	if cfg.DelayMillis > 0 {
		limit = rate.Every(time.Duration(cfg.DelayMillis) * time.Millisecond)
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: time.Duration(timeout) * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// searchPage is one page of the search API.
type searchPage struct {
	Count         int          `json:"Count"`
	SearchResults []searchItem `json:"SearchResults"`
}

type searchItem struct {
	ID              any    `json:"Id"`
	Badge           string `json:"Badge"`
	BadgeDetail     string `json:"BadgeDetail"`
	Transmission    string `json:"Transmission"`
	FuelType        string `json:"FuelType"`
	Year            any    `json:"Year"`
	FormYear        any    `json:"FormYear"`
	Mileage         any    `json:"Mileage"`
	Price           any    `json:"Price"`
	OfficeCityState string `json:"OfficeCityState"`
	ModifiedDate    string `json:"ModifiedDate"`
}

// FetchListings returns every listing matching the target, keyed by listing id.
//
// Pages are requested in descending price order until the reported count is
// reached. Listings repeating a mileage and price pair already seen in this pass
// are re-posts of the same car and are skipped.
func (c *Client) FetchListings(ctx context.Context, target reconcile.Target) (map[string]Listing, error) {
	query := BuildQuery(target)
	listings := map[string]Listing{}
	seen := map[string]struct{}{}
	skipped := 0

	for start := 0; ; start += c.cfg.PageSize {
		page, err := c.fetchPage(ctx, query, start)
		if err != nil {
			return nil, err
		}

		for _, item := range page.SearchResults {
			key := utils.ToString(item.Mileage) + "_" + utils.ToString(item.Price)
			if _, dup := seen[key]; dup {
				skipped++
				continue
			}
			seen[key] = struct{}{}

			listing := item.toListing(target)
			listings[listing.ID] = listing
		}

		if start+c.cfg.PageSize >= page.Count || len(page.SearchResults) == 0 {
			break
		}
	}

	c.logger.Debug("Fetched listings",
		zap.String("target", target.Key()),
		zap.Int("listings", len(listings)),
		zap.Int("duplicates", skipped))

	return listings, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, start int) (*searchPage, error) {
	q := url.Values{}
	q.Set("count", "true")
	q.Set("q", query)
	q.Set("sr", "|PriceDesc|"+strconv.Itoa(start)+"|"+strconv.Itoa(c.cfg.PageSize))

	body, err := c.get(ctx, c.cfg.SearchURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var page searchPage
	if err := dec.Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode search page at %d: %w", start, err)
	}
	return &page, nil
}

func (item searchItem) toListing(target reconcile.Target) Listing {
	return Listing{
		ID:           utils.ToString(item.ID),
		Maker:        target.Maker,
		Model:        target.Model,
		Submodel:     target.Submodel,
		Badge:        item.Badge,
		BadgeDetail:  item.BadgeDetail,
		Transmission: item.Transmission,
		FuelType:     item.FuelType,
		Year:         utils.ToInt(item.Year),
		FormYear:     utils.ToInt(item.FormYear),
		Mileage:      utils.ToInt(item.Mileage),
		Price:        utils.ToIntPtr(item.Price),
		Location:     item.OfficeCityState,
		ModifiedDate: item.ModifiedDate,
		Available:    true,
		Insurance:    InsurancePending,
	}
}

// FetchInsurance downloads and parses the insurance-history page of a listing.
func (c *Client) FetchInsurance(ctx context.Context, carID string) (*reconcile.InsuranceRecord, error) {
	q := url.Values{}
	q.Set("method", "kidiFirstPop")
	q.Set("carid", carID)

	body, err := c.get(ctx, c.cfg.DetailURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch insurance history for %s: %w", carID, err)
	}

	record, err := ParseInsurance(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse insurance history for %s: %w", carID, err)
	}
	return record, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
