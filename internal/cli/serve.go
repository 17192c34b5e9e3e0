package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/law-makers/scraper/internal/api"
	"github.com/law-makers/scraper/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves POST /api/v1/scrape, POST /api/v1/bulk-scrape, GET /api/v1/strategies,
GET /api/v1/health and GET /metrics.

Set SCRAPER_API_KEYS to require an X-API-Key or Bearer token. On SIGINT or
SIGTERM the server stops accepting connections and drains in-flight requests.`,
	Example: `  scraper serve --addr=:9000
  SCRAPER_API_KEYS=k1,k2 scraper serve --allowed-domains=shop.example`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	config.RegisterServerFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := a.Config

	// cmd.Context is cancelled on SIGINT/SIGTERM by main
	ctx := cmd.Context()
	router := api.NewRouter(ctx, cfg, api.Deps{
		Scraper: a.Service,
		Bulk:    a.Batch,
		Health:  a,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Bool("auth", cfg.AuthEnabled()).
			Strs("allowed_domains", cfg.AllowedDomains).
			Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("API server stopped")
	return nil
}
