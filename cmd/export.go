package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/report"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the cost data CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default cost_data_<timeframe>.csv)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	tf, err := report.ParseTimeframe(flagTimeframe)
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	data, err := client.ExportCSV(cmd.Context(), tf)
	if err != nil {
		return fmt.Errorf("downloading export: %w", err)
	}

	out := flagExportOut
	if out == "" {
		out = fmt.Sprintf("cost_data_%s.csv", tf)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("  Wrote %s (%d bytes)\n", out, len(data))
	return nil
}
