// Package azure fetches cost data from the Azure Cost Management API using
// client-credentials auth.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/costwatch/costwatch/internal/report"
)

const (
	defaultLoginBase      = "https://login.microsoftonline.com"
	defaultManagementBase = "https://management.azure.com"
	apiVersion            = "2023-03-01"
	requestTimeout        = 30 * time.Second
	maxBodySize           = 4 << 20 // 4 MB
)

// ErrNotConfigured indicates credentials are missing or still placeholders.
var ErrNotConfigured = errors.New("azure: credentials are not configured")

// Config holds the Azure AD application credentials and target subscription.
type Config struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
}

// Configured reports whether all credentials are present and none of them
// look like unfilled placeholders.
func (c Config) Configured() bool {
	for _, v := range []string{c.TenantID, c.ClientID, c.ClientSecret, c.SubscriptionID} {
		if v == "" || strings.HasPrefix(v, "your_") {
			return false
		}
	}
	return true
}

// Data is cost data post-processed from a Cost Management query: a
// chronological cost series plus per-resource-group totals.
type Data struct {
	Labels    []string
	Costs     []float64
	GroupName []string
	GroupCost []float64
}

// Client queries the Azure Cost Management API.
type Client struct {
	cfg  Config
	http *http.Client

	// Overridable in tests.
	loginBase      string
	managementBase string

	token       string
	tokenExpiry time.Time
}

// NewClient creates a client for the given credentials.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: requestTimeout},
		loginBase:      defaultLoginBase,
		managementBase: defaultManagementBase,
	}
}

// FetchCostData runs a Cost Management query for the timeframe's window
// (30 days / 12 weeks / 12 months back from now) grouped by resource group.
func (c *Client) FetchCostData(ctx context.Context, tf report.Timeframe, now time.Time) (Data, error) {
	if !c.cfg.Configured() {
		return Data{}, ErrNotConfigured
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return Data{}, err
	}

	end := now
	var start time.Time
	var granularity string
	switch tf {
	case report.Daily:
		start = end.AddDate(0, 0, -30)
		granularity = "Daily"
	case report.Weekly:
		start = end.AddDate(0, 0, -7*12)
		granularity = "Weekly"
	case report.Monthly:
		start = end.AddDate(-1, 0, 0)
		granularity = "Monthly"
	default:
		return Data{}, fmt.Errorf("azure: invalid timeframe %q", tf)
	}

	payload := queryRequest{
		Type:      "Usage",
		Timeframe: "Custom",
		TimePeriod: queryTimePeriod{
			From: start.Format("2006-01-02"),
			To:   end.Format("2006-01-02"),
		},
		Dataset: queryDataset{
			Granularity: granularity,
			Aggregation: map[string]queryAggregation{
				"totalCost": {Name: "Cost", Function: "Sum"},
			},
			Grouping: []queryGrouping{
				{Type: "Dimension", Name: "ResourceGroup"},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Data{}, fmt.Errorf("azure: encoding query: %w", err)
	}

	u := fmt.Sprintf("%s/subscriptions/%s/providers/Microsoft.CostManagement/query?api-version=%s",
		c.managementBase, c.cfg.SubscriptionID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Data{}, fmt.Errorf("azure: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Data{}, fmt.Errorf("azure: query failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Data{}, fmt.Errorf("azure: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Data{}, fmt.Errorf("azure: query returned status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var qr queryResponse
	if err := json.Unmarshal(raw, &qr); err != nil {
		return Data{}, fmt.Errorf("azure: parsing response: %w", err)
	}

	return processRows(qr), nil
}

// accessToken returns a cached token or fetches a fresh one via the
// client-credentials grant.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", defaultManagementBase+"/.default")

	u := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.loginBase, c.cfg.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("azure: creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("azure: token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("azure: reading token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure: token request returned status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		return "", fmt.Errorf("azure: parsing token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("azure: failed to acquire access token")
	}

	c.token = tok.AccessToken
	// Refresh a minute early to avoid using a token at its expiry edge.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
