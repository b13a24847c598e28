package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    URL:     %s\n", cfg.Server.URL)
	fmt.Printf("    Timeout: %ds\n", cfg.Server.TimeoutSec)
	fmt.Println()

	fmt.Println("  [Listen]")
	fmt.Printf("    Address: %s\n", cfg.Listen.Addr)
	fmt.Println()

	fmt.Println("  [Azure]")
	creds := config.AzureCredentials(cfg)
	if creds.Configured() {
		fmt.Printf("    Tenant:       %s\n", creds.TenantID)
		fmt.Printf("    Client:       %s\n", maskSecret(creds.ClientID))
		fmt.Printf("    Subscription: %s\n", creds.SubscriptionID)
	} else {
		fmt.Println("    Credentials: not configured (mock data only)")
	}
	fmt.Println()

	fmt.Println("  [Dashboard]")
	fmt.Printf("    Auto-refresh:     %v\n", cfg.Dashboard.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.Dashboard.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `costwatch setup` to reconfigure.")
	return nil
}

func maskSecret(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	if len(s) > 0 {
		return "****"
	}
	return "not set"
}
