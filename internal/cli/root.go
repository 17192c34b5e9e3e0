package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/law-makers/scraper/internal/app"
	"github.com/law-makers/scraper/internal/config"
	"github.com/law-makers/scraper/internal/utils/output"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// closeTimeout bounds browser shutdown after a command
const closeTimeout = 10 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Scrape product pages into structured data",
	Long: `Scraper fetches product pages with a plain HTTP client or a headless
browser and extracts title, description, images, price, brand, model,
specifications and meta tags.

Run it once per URL, in bulk, or as an HTTP API with "scraper serve".`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command under ctx and closes the application it
// created. It returns the command error, if any.
func Execute(ctx context.Context) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	closeApp(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// The application is built lazily so -h and --version never start anything
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}
}

func closeApp(cmd *cobra.Command) {
	a := GetApp(cmd)
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Error closing application")
	}
	SetApp(cmd, nil)
}

// emit renders doc (or results as CSV) to stdout, or to path when one is given
func emit(cmd *cobra.Command, path, format string, doc any, results []*models.ScrapeResponse) error {
	format, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if path == "" {
		return output.Write(cmd.OutOrStdout(), format, doc, results)
	}
	if err := output.Save(path, format, doc, results); err != nil {
		return err
	}
	log.Info().Str("file", path).Str("format", format).Msg("Output saved")
	return nil
}
