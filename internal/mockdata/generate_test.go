package mockdata

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/costwatch/costwatch/internal/report"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerateDaily(t *testing.T) {
	d := Generate(report.Daily, testNow)

	if len(d.Labels) != 30 || len(d.Costs) != 30 {
		t.Fatalf("daily points = %d labels / %d costs, want 30/30", len(d.Labels), len(d.Costs))
	}
	if d.Labels[29] != "2025-06-15" {
		t.Errorf("last label = %q, want 2025-06-15", d.Labels[29])
	}
	if d.Labels[0] != "2025-05-17" {
		t.Errorf("first label = %q, want 2025-05-17", d.Labels[0])
	}
	for i, c := range d.Costs {
		if c < 150 || c > 250 {
			t.Errorf("cost[%d] = %v, want within [150, 250]", i, c)
		}
	}
}

func TestGenerateWeekly(t *testing.T) {
	d := Generate(report.Weekly, testNow)

	if len(d.Labels) != 12 {
		t.Fatalf("weekly points = %d, want 12", len(d.Labels))
	}
	for i, l := range d.Labels {
		if !strings.HasPrefix(l, "Week ") {
			t.Errorf("label[%d] = %q, want Week N, YYYY form", i, l)
		}
	}
	for i, c := range d.Costs {
		if c < 1000 || c > 1800 {
			t.Errorf("cost[%d] = %v, want within [1000, 1800]", i, c)
		}
	}
}

func TestGenerateMonthly(t *testing.T) {
	d := Generate(report.Monthly, testNow)

	if len(d.Labels) != 12 {
		t.Fatalf("monthly points = %d, want 12", len(d.Labels))
	}
	if d.Labels[11] != "June 2025" {
		t.Errorf("last label = %q, want June 2025", d.Labels[11])
	}
	if d.Labels[0] != "July 2024" {
		t.Errorf("first label = %q, want July 2024", d.Labels[0])
	}
}

func TestDistributionSplit(t *testing.T) {
	d := Generate(report.Daily, testNow)

	if len(d.GroupName) != 3 || len(d.GroupCost) != 3 {
		t.Fatalf("distribution groups = %d/%d, want 3/3", len(d.GroupName), len(d.GroupCost))
	}
	want := []string{"rg-prod-01", "rg-dev-01", "rg-staging-01"}
	for i, name := range want {
		if d.GroupName[i] != name {
			t.Errorf("group[%d] = %q, want %q", i, d.GroupName[i], name)
		}
	}

	total := d.Total()
	shares := []float64{0.60, 0.25, 0.15}
	for i, share := range shares {
		if diff := math.Abs(d.GroupCost[i] - total*share); diff > 0.01 {
			t.Errorf("group %q = %v, want ~%v", d.GroupName[i], d.GroupCost[i], total*share)
		}
	}
}
