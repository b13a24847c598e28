// Package cmd implements the costwatch CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/costapi"
	"github.com/costwatch/costwatch/internal/prefs"
)

var (
	flagServer    string
	flagTimeout   int
	flagMock      bool
	flagTimeframe string
)

var rootCmd = &cobra.Command{
	Use:   "costwatch",
	Short: "Azure cost dashboard",
	Long:  "Track Azure spending: trends, resource distribution, and forecasts.",
	RunE:  runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Cost server URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagTimeframe, "timeframe", "t", "daily", "Aggregation window: daily, weekly, monthly")
	rootCmd.PersistentFlags().BoolVar(&flagMock, "mock", false, "Request mock data instead of live Azure data")
}

// newClient builds the API client from config plus flag overrides.
func newClient() (*costapi.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}

	baseURL := cfg.Server.URL
	if flagServer != "" {
		baseURL = flagServer
	}

	timeoutSec := cfg.Server.TimeoutSec
	if flagTimeout > 0 {
		timeoutSec = flagTimeout
	}

	client := costapi.NewClient(baseURL, time.Duration(timeoutSec)*time.Second)
	return client, cfg, nil
}

// openPrefs opens the preference store. A failure is not fatal to the
// dashboard; callers get nil and defaults apply.
func openPrefs() *prefs.Store {
	store, err := prefs.Open(config.PrefsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Preferences unavailable: %v\n", err)
		return nil
	}
	return store
}
