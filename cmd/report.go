package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/cli"
	"github.com/costwatch/costwatch/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-shot cost report",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	tf, err := report.ParseTimeframe(flagTimeframe)
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	rep, err := client.FetchReport(cmd.Context(), tf, flagMock)
	if err != nil {
		return fmt.Errorf("fetching report: %w", err)
	}

	printReport(tf, rep)
	return nil
}

func printReport(tf report.Timeframe, rep *report.CostReport) {
	fmt.Println(cli.RenderTitle(tf.Capitalized() + " Cost Report"))
	fmt.Println()

	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Cost", cli.FormatMoney(rep.TotalCost)},
			{"Average Daily Cost", cli.FormatMoney(rep.AverageDailyCost)},
			{"Forecasted Monthly Cost", cli.FormatMoney(rep.ForecastedMonthlyCost)},
		},
	}))

	if len(rep.SpendingTrend.Data) > 0 {
		fmt.Printf("  %s\n", rep.SpendingTrend.Title)
		fmt.Printf("  %s\n\n", cli.RenderSparkline(rep.SpendingTrend.Data))
	}

	if len(rep.ResourceDistribution.Data) > 0 {
		rows := make([][]string, 0, len(rep.ResourceDistribution.Data))
		var total float64
		for _, v := range rep.ResourceDistribution.Data {
			total += v
		}
		for i, name := range rep.ResourceDistribution.Labels {
			cost := rep.ResourceDistribution.Data[i]
			share := 0.0
			if total > 0 {
				share = cost / total
			}
			rows = append(rows, []string{
				name,
				cli.FormatMoney(cost),
				cli.FormatPercent(share),
			})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   rep.ResourceDistribution.Title,
			Headers: []string{"Resource Group", "Cost", "Share"},
			Rows:    rows,
		}))
	}
}
