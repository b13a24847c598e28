package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/azure"
	"github.com/costwatch/costwatch/internal/report"
)

// fakeProvider returns canned provider data or an error.
type fakeProvider struct {
	data azure.Data
	err  error
}

func (f *fakeProvider) FetchCostData(_ context.Context, _ report.Timeframe, _ time.Time) (azure.Data, error) {
	return f.data, f.err
}

// get performs a request against the service handler.
func get(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) report.CostReport {
	t.Helper()
	var rep report.CostReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	return rep
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Error
}

func TestCostData_MockDefault(t *testing.T) {
	s := New(Config{}, nil)

	rec := get(t, s, "/api/cost-data")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rep := decodeReport(t, rec)
	if got := len(rep.SpendingTrend.Data); got != 30 {
		t.Errorf("daily trend points = %d, want 30", got)
	}
	if rep.SpendingTrend.Title != "Daily Spending Trend" {
		t.Errorf("trend title = %q", rep.SpendingTrend.Title)
	}
	if rep.ResourceDistribution.Title != "Cost Distribution by Resource Group" {
		t.Errorf("distribution title = %q", rep.ResourceDistribution.Title)
	}
	if err := rep.Validate(); err != nil {
		t.Errorf("report invalid: %v", err)
	}

	var sum float64
	for _, c := range rep.SpendingTrend.Data {
		sum += c
	}
	if diff := rep.TotalCost - sum; diff > 0.01 || diff < -0.01 {
		t.Errorf("TotalCost = %v, trend sum = %v", rep.TotalCost, sum)
	}
}

func TestCostData_InvalidTimeframe(t *testing.T) {
	s := New(Config{}, nil)

	rec := get(t, s, "/api/cost-data?timeframe=hourly")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "Invalid timeframe" {
		t.Errorf("error = %q", got)
	}
}

func TestCostData_RealWithoutProvider(t *testing.T) {
	s := New(Config{}, nil)

	rec := get(t, s, "/api/cost-data?timeframe=daily&use_mock_data=false")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); !strings.Contains(got, "not configured") {
		t.Errorf("error = %q, want credentials message", got)
	}
}

func TestCostData_ProviderFailure(t *testing.T) {
	s := New(Config{}, &fakeProvider{err: errors.New("azure: query returned status 403")})

	rec := get(t, s, "/api/cost-data?use_mock_data=false")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if got := decodeError(t, rec); !strings.Contains(got, "403") {
		t.Errorf("error = %q, want provider message passthrough", got)
	}
}

func TestCostData_RealProviderMetrics(t *testing.T) {
	s := New(Config{}, &fakeProvider{data: azure.Data{
		Labels:    []string{"2025-06-01", "2025-06-02"},
		Costs:     []float64{10, 20},
		GroupName: []string{"rg-prod-01"},
		GroupCost: []float64{30},
	}})

	rec := get(t, s, "/api/cost-data?timeframe=weekly&use_mock_data=false")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rep := decodeReport(t, rec)
	if rep.TotalCost != 30 {
		t.Errorf("TotalCost = %v, want 30", rep.TotalCost)
	}
	if rep.AverageDailyCost != 15 {
		t.Errorf("AverageDailyCost = %v, want 15", rep.AverageDailyCost)
	}
	// Non-daily windows report the window total as the forecast.
	if rep.ForecastedMonthlyCost != 30 {
		t.Errorf("ForecastedMonthlyCost = %v, want 30", rep.ForecastedMonthlyCost)
	}
	if rep.SpendingTrend.Title != "Weekly Spending Trend" {
		t.Errorf("trend title = %q", rep.SpendingTrend.Title)
	}
}

func TestBuildReport_DailyForecast(t *testing.T) {
	rep := buildReport(report.Daily,
		[]string{"a", "b"}, []float64{10, 20}, nil, nil)

	if rep.AverageDailyCost != 15 {
		t.Errorf("AverageDailyCost = %v, want 15", rep.AverageDailyCost)
	}
	if rep.ForecastedMonthlyCost != 450 {
		t.Errorf("ForecastedMonthlyCost = %v, want 450 (15*30)", rep.ForecastedMonthlyCost)
	}
}

func TestBuildReport_Empty(t *testing.T) {
	rep := buildReport(report.Daily, nil, nil, nil, nil)

	if rep.TotalCost != 0 || rep.AverageDailyCost != 0 || rep.ForecastedMonthlyCost != 0 {
		t.Errorf("empty report metrics = %+v, want zeros", rep)
	}
}

func TestExportCSV(t *testing.T) {
	s := New(Config{}, nil)

	rec := get(t, s, "/export-csv?timeframe=weekly")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=cost_data_weekly.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "Date,Cost" {
		t.Errorf("header row = %q", lines[0])
	}
	if len(lines) != 13 { // header + 12 weekly points
		t.Errorf("csv rows = %d, want 13", len(lines))
	}
}

func TestRateLimit(t *testing.T) {
	s := New(Config{RateLimit: 1, RateBurst: 1}, nil)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}

	// A different IP has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}
