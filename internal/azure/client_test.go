package azure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/report"
)

var testCfg = Config{
	TenantID:       "tenant",
	ClientID:       "client",
	ClientSecret:   "secret",
	SubscriptionID: "sub-123",
}

func TestConfigured(t *testing.T) {
	if !testCfg.Configured() {
		t.Error("complete config should report configured")
	}

	missing := testCfg
	missing.ClientSecret = ""
	if missing.Configured() {
		t.Error("missing secret should not report configured")
	}

	placeholder := testCfg
	placeholder.TenantID = "your_tenant_id"
	if placeholder.Configured() {
		t.Error("placeholder tenant should not report configured")
	}
}

func TestFetchCostData_NotConfigured(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.FetchCostData(context.Background(), report.Daily, time.Now())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}

func TestFetchCostData(t *testing.T) {
	var gotQuery queryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/oauth2/v2.0/token"):
			if err := r.ParseForm(); err != nil {
				t.Fatal(err)
			}
			if got := r.Form.Get("grant_type"); got != "client_credentials" {
				t.Errorf("grant_type = %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-1",
				"expires_in":   3600,
			})

		case strings.Contains(r.URL.Path, "/providers/Microsoft.CostManagement/query"):
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("Authorization = %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotQuery); err != nil {
				t.Fatal(err)
			}
			_, _ = w.Write([]byte(`{"properties": {"rows": [
				[10.5, 20250601, "rg-prod-01", "USD"],
				[2.5,  20250601, "rg-dev-01",  "USD"],
				[4.0,  20250602, "rg-prod-01", "USD"]
			]}}`))

		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(testCfg)
	c.loginBase = srv.URL
	c.managementBase = srv.URL

	d, err := c.FetchCostData(context.Background(), report.Daily, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Dataset.Granularity != "Daily" {
		t.Errorf("granularity = %q, want Daily", gotQuery.Dataset.Granularity)
	}
	if len(gotQuery.Dataset.Grouping) != 1 || gotQuery.Dataset.Grouping[0].Name != "ResourceGroup" {
		t.Errorf("grouping = %+v, want ResourceGroup dimension", gotQuery.Dataset.Grouping)
	}

	wantLabels := []string{"2025-06-01", "2025-06-02"}
	if len(d.Labels) != 2 || d.Labels[0] != wantLabels[0] || d.Labels[1] != wantLabels[1] {
		t.Errorf("labels = %v, want %v", d.Labels, wantLabels)
	}
	if d.Costs[0] != 13.0 || d.Costs[1] != 4.0 {
		t.Errorf("costs = %v, want [13 4]", d.Costs)
	}

	// Groups sorted by name.
	if len(d.GroupName) != 2 || d.GroupName[0] != "rg-dev-01" || d.GroupName[1] != "rg-prod-01" {
		t.Errorf("groups = %v", d.GroupName)
	}
	if d.GroupCost[1] != 14.5 {
		t.Errorf("rg-prod-01 cost = %v, want 14.5", d.GroupCost[1])
	}
}

func TestFetchCostData_TokenReuse(t *testing.T) {
	tokenCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/oauth2/") {
			tokenCalls++
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		_, _ = w.Write([]byte(`{"properties": {"rows": []}}`))
	}))
	defer srv.Close()

	c := NewClient(testCfg)
	c.loginBase = srv.URL
	c.managementBase = srv.URL

	for range 3 {
		if _, err := c.FetchCostData(context.Background(), report.Monthly, time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Errorf("token calls = %d, want 1 (cached)", tokenCalls)
	}
}

func TestFetchCostData_QueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/oauth2/") {
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": "AuthorizationFailed"}}`))
	}))
	defer srv.Close()

	c := NewClient(testCfg)
	c.loginBase = srv.URL
	c.managementBase = srv.URL

	_, err := c.FetchCostData(context.Background(), report.Daily, time.Now())
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Errorf("error = %v, want status 403 mention", err)
	}
}
