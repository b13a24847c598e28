package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/costwatch/costwatch/internal/azure"
	"github.com/costwatch/costwatch/internal/mockdata"
	"github.com/costwatch/costwatch/internal/report"
)

// handleCostData serves GET /api/cost-data?timeframe=&use_mock_data=.
func (s *Service) handleCostData(w http.ResponseWriter, r *http.Request) {
	tf, err := timeframeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timeframe")
		return
	}

	// Mock data is the default: the dashboard works out of the box with no
	// cloud credentials.
	useMock := r.URL.Query().Get("use_mock_data") != "false"

	var labels, groups []string
	var costs, groupCosts []float64

	if useMock {
		d := mockdata.Generate(tf, s.now())
		labels, costs = d.Labels, d.Costs
		groups, groupCosts = d.GroupName, d.GroupCost
	} else {
		if s.provider == nil {
			writeError(w, http.StatusBadRequest, "Azure credentials are not configured")
			return
		}
		var d azure.Data
		d, err = s.provider.FetchCostData(r.Context(), tf, s.now())
		if err != nil {
			log.Printf("cost provider query failed: %v", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		labels, costs = d.Labels, d.Costs
		groups, groupCosts = d.GroupName, d.GroupCost
	}

	writeJSON(w, http.StatusOK, buildReport(tf, labels, costs, groups, groupCosts))
}

// buildReport computes the summary metrics and assembles the payload.
// The monthly forecast extrapolates the daily average over 30 days; for
// coarser timeframes the window total already approximates a month or more,
// so it is reported as-is.
func buildReport(tf report.Timeframe, labels []string, costs []float64, groups []string, groupCosts []float64) report.CostReport {
	var total float64
	for _, c := range costs {
		total += c
	}

	var average float64
	if len(costs) > 0 {
		average = total / float64(len(costs))
	}

	forecast := total
	if tf == report.Daily && len(costs) > 0 {
		forecast = average * 30
	}

	return report.CostReport{
		TotalCost:             round2(total),
		AverageDailyCost:      round2(average),
		ForecastedMonthlyCost: round2(forecast),
		SpendingTrend: report.Series{
			Title:  tf.Capitalized() + " Spending Trend",
			Labels: labels,
			Data:   costs,
		},
		ResourceDistribution: report.Series{
			Title:  "Cost Distribution by Resource Group",
			Labels: groups,
			Data:   groupCosts,
		},
	}
}

// handleExportCSV serves GET /export-csv?timeframe= as a CSV attachment.
func (s *Service) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	tf, err := timeframeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timeframe")
		return
	}

	d := mockdata.Generate(tf, s.now())

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=cost_data_%s.csv", tf))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Cost"})
	for i, label := range d.Labels {
		_ = cw.Write([]string{label, fmt.Sprintf("%.2f", d.Costs[i])})
	}
	cw.Flush()
}

func timeframeParam(r *http.Request) (report.Timeframe, error) {
	v := r.URL.Query().Get("timeframe")
	if v == "" {
		return report.Daily, nil
	}
	return report.ParseTimeframe(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
