package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cost server URL").
				Description("Where the costwatch server (or compatible API) is running.").
				Value(&cfg.Server.URL),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&cfg.Appearance.Theme),
			huh.NewConfirm().
				Title("Auto-refresh the dashboard?").
				Value(&cfg.Dashboard.AutoRefresh),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Azure tenant ID").
				Description("Leave Azure fields blank to use mock data only.").
				Value(&cfg.Azure.TenantID),
			huh.NewInput().
				Title("Azure client ID").
				Value(&cfg.Azure.ClientID),
			huh.NewInput().
				Title("Azure client secret").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Azure.ClientSecret),
			huh.NewInput().
				Title("Azure subscription ID").
				Value(&cfg.Azure.SubscriptionID),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `costwatch setup` anytime to reconfigure.")
	return nil
}
