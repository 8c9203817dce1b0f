// Package directory lists the database servers an operator can target.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultURL is the directory endpoint. The access key is configured
// separately and never embedded here.
const DefaultURL = "https://dbsqllister-cjg7a6aedpatc0e0.centralindia-01.azurewebsites.net/api/ListDatabases"

// DefaultTimeout bounds a single directory request.
const DefaultTimeout = 10 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Entry is one selectable server. ID and DisplayName are both the upstream
// managedInstance value.
type Entry struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Fallback is returned whenever the directory cannot be read.
func Fallback() []Entry {
	return []Entry{
		{ID: "sql-prod-001", DisplayName: "sql-prod-001"},
		{ID: "sql-dev-001", DisplayName: "sql-dev-001"},
		{ID: "sql-test-001", DisplayName: "sql-test-001"},
		{ID: "sql-staging-001", DisplayName: "sql-staging-001"},
	}
}

// Lister is what the console needs from a directory.
type Lister interface {
	List(ctx context.Context) []Entry
}

// Client queries the directory endpoint.
type Client struct {
	endpoint   string
	accessKey  string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAccessKey sets the key sent as the "code" query parameter.
func WithAccessKey(key string) Option {
	return func(c *Client) { c.accessKey = key }
}

// New creates a Client for endpoint. A non-positive timeout uses DefaultTimeout.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================
// Listing
// ============================================================

// List returns the directory's servers in upstream order. Any failure
// yields Fallback(); errors are logged, never returned.
func (c *Client) List(ctx context.Context) []Entry {
	entries, err := c.fetch(ctx)
	if err != nil {
		slog.Warn("Directory unavailable, using fallback servers", "error", err, "component", "Directory")
		return Fallback()
	}
	slog.Debug("Directory listed", "count", len(entries), "component", "Directory")
	return entries
}

// record is the subset of an upstream item the console reads.
type record struct {
	ManagedInstance string `json:"managedInstance"`
}

func (c *Client) fetch(ctx context.Context) ([]Entry, error) {
	reqURL, err := c.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var records []*record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	// A null body decodes without error but leaves the slice nil; "[]" does not.
	if records == nil {
		return nil, fmt.Errorf("decode body: null payload")
	}

	entries := make([]Entry, 0, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("decode body: null record at index %d", i)
		}
		entries = append(entries, Entry{ID: r.ManagedInstance, DisplayName: r.ManagedInstance})
	}
	return entries, nil
}

// requestURL appends the access key, when configured, as the "code" parameter.
func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if c.accessKey != "" {
		q := u.Query()
		q.Set("code", c.accessKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redact strips the request URL from transport errors so the access key
// does not reach the logs.
func redact(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
