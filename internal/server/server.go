// Package server implements the costwatch cost-reporting HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/costwatch/costwatch/internal/azure"
	"github.com/costwatch/costwatch/internal/report"
)

// CostProvider fetches real cost data for a timeframe.
// *azure.Client satisfies this.
type CostProvider interface {
	FetchCostData(ctx context.Context, tf report.Timeframe, now time.Time) (azure.Data, error)
}

// Config controls the server runtime behavior.
type Config struct {
	Addr      string
	RateLimit rate.Limit // requests per second per client IP
	RateBurst int
}

// Service serves the cost-reporting API.
type Service struct {
	cfg      Config
	provider CostProvider // nil when no cloud provider is configured
	now      func() time.Time
}

// New returns a new service. provider may be nil; real-data requests then
// fail with a configuration error.
func New(cfg Config, provider CostProvider) *Service {
	if cfg.Addr == "" {
		cfg.Addr = ":5001"
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 20
	}
	return &Service{
		cfg:      cfg,
		provider: provider,
		now:      time.Now,
	}
}

// Handler returns the full request handler including middleware.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/cost-data", s.handleCostData)
	mux.HandleFunc("/export-csv", s.handleExportCSV)

	limiter := newIPRateLimiter(s.cfg.RateLimit, s.cfg.RateBurst)
	return limiter.middleware(mux)
}

// Run serves until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("costwatch server listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("costwatch http server: %w", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
