package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/costwatch/costwatch/internal/azure"
	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/server"
)

var (
	flagListenAddr string
	flagRateLimit  float64
	flagRateBurst  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cost-reporting API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().Float64Var(&flagRateLimit, "rate-limit", 10, "Requests per second per client IP")
	serveCmd.Flags().IntVar(&flagRateBurst, "rate-burst", 20, "Burst size per client IP")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	addr := cfg.Listen.Addr
	if flagListenAddr != "" {
		addr = flagListenAddr
	}

	var provider server.CostProvider
	creds := config.AzureCredentials(cfg)
	if creds.Configured() {
		provider = azure.NewClient(creds)
		fmt.Printf("  Azure credentials loaded (subscription %s)\n", creds.SubscriptionID)
	} else {
		fmt.Println("  No Azure credentials; serving mock data only")
	}

	svc := server.New(server.Config{
		Addr:      addr,
		RateLimit: rate.Limit(flagRateLimit),
		RateBurst: flagRateBurst,
	}, provider)

	fmt.Printf("  costwatch server listening on %s\n", addr)
	fmt.Printf("  Try: curl http://localhost%s/api/cost-data?timeframe=daily\n", addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
