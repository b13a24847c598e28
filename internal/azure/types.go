package azure

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Cost Management query request shapes.

type queryRequest struct {
	Type       string          `json:"type"`
	Timeframe  string          `json:"timeframe"`
	TimePeriod queryTimePeriod `json:"timePeriod"`
	Dataset    queryDataset    `json:"dataset"`
}

type queryTimePeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type queryDataset struct {
	Granularity string                      `json:"granularity"`
	Aggregation map[string]queryAggregation `json:"aggregation"`
	Grouping    []queryGrouping             `json:"grouping"`
}

type queryAggregation struct {
	Name     string `json:"name"`
	Function string `json:"function"`
}

type queryGrouping struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// queryResponse holds the row-oriented query result. Each row carries the
// aggregated cost, a period key, and the resource group, in the column
// order declared by the query.
type queryResponse struct {
	Properties struct {
		Rows [][]json.RawMessage `json:"rows"`
	} `json:"properties"`
}

// processRows folds query rows into a chronological cost series and
// per-resource-group totals. Rows for the same period (different resource
// groups) are merged into one series point.
func processRows(qr queryResponse) Data {
	periodCost := make(map[string]float64)
	groupCost := make(map[string]float64)
	var order []string

	for _, row := range qr.Properties.Rows {
		if len(row) < 3 {
			continue
		}

		var cost float64
		if err := json.Unmarshal(row[0], &cost); err != nil {
			continue
		}

		label := rowLabel(row[1])
		if _, seen := periodCost[label]; !seen {
			order = append(order, label)
		}
		periodCost[label] += cost

		var group string
		if err := json.Unmarshal(row[2], &group); err == nil && group != "" {
			groupCost[group] += cost
		}
	}

	var d Data
	for _, label := range order {
		d.Labels = append(d.Labels, label)
		d.Costs = append(d.Costs, periodCost[label])
	}

	groups := make([]string, 0, len(groupCost))
	for g := range groupCost {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		d.GroupName = append(d.GroupName, g)
		d.GroupCost = append(d.GroupCost, groupCost[g])
	}

	return d
}

// rowLabel renders a period key. The API returns dates either as yyyymmdd
// numbers or as strings depending on granularity.
func rowLabel(raw json.RawMessage) string {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%04d-%02d-%02d", n/10000, n/100%100, n%100)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
