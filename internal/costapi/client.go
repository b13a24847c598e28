// Package costapi provides a client for the costwatch cost-reporting API.
package costapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/costwatch/costwatch/internal/report"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

// APIError is a failure reported by the server itself, as opposed to a
// transport-level failure. Message carries the server-supplied error text
// and may be empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("costapi: server error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("costapi: server error (status %d)", e.StatusCode)
}

// Client fetches cost reports from a costwatch server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server base URL.
// A timeout of zero applies the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExportURL returns the CSV export link for the given timeframe.
func (c *Client) ExportURL(tf report.Timeframe) string {
	return c.baseURL + "/export-csv?timeframe=" + url.QueryEscape(string(tf))
}

// FetchReport fetches the cost report for one timeframe.
// Server-marked failures are returned as *APIError; every other error is a
// transport failure (network, timeout, malformed response).
func (c *Client) FetchReport(ctx context.Context, tf report.Timeframe, useMock bool) (*report.CostReport, error) {
	q := url.Values{}
	q.Set("timeframe", string(tf))
	q.Set("use_mock_data", strconv.FormatBool(useMock))

	body, status, err := c.get(ctx, "/api/cost-data?"+q.Encode())
	if err != nil {
		return nil, err
	}

	// Success and failure bodies share one envelope: a failure is any
	// response carrying an error field or a non-2xx status.
	var env struct {
		report.CostReport
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("costapi: parsing response: %w", err)
	}

	if env.Error != "" || status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: env.Error}
	}

	if err := env.CostReport.Validate(); err != nil {
		return nil, fmt.Errorf("costapi: invalid report: %w", err)
	}
	return &env.CostReport, nil
}

// ExportCSV fetches the CSV export for one timeframe.
func (c *Client) ExportCSV(ctx context.Context, tf report.Timeframe) ([]byte, error) {
	body, status, err := c.get(ctx, "/export-csv?timeframe="+url.QueryEscape(string(tf)))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status}
	}
	return body, nil
}

// get performs a GET request and returns the body and status code.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("costapi: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/costwatch/costwatch/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("costapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("costapi: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
