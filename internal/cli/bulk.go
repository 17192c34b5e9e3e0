package cli

import (
	"fmt"
	"slices"

	"github.com/law-makers/scraper/internal/engine/batch"
	"github.com/law-makers/scraper/internal/utils/output"
	"github.com/law-makers/scraper/internal/validate"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	bulkStrategy   string
	bulkFields     []string
	bulkOutput     string
	bulkFormat     string
	bulkNoProgress bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <url>...",
	Short: "Scrape up to 10 product pages concurrently",
	Long: fmt.Sprintf(`Scrapes every URL under the configured concurrency cap and prints one
JSON document with per-URL results in input order.

At most %d URLs are accepted. A failing URL does not affect the others.`, models.MaxBulkURLs),
	Example: `  scraper bulk https://shop.example/p/1 https://shop.example/p/2 --concurrency=2
  scraper bulk https://a.example/x https://b.example/y --fields=title,price --format=csv -o results.csv`,
	Args: cobra.RangeArgs(1, models.MaxBulkURLs),
	RunE: runBulk,
}

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().StringVarP(&bulkStrategy, "strategy", "s", "auto", "Retrieval strategy for every URL")
	bulkCmd.Flags().StringSliceVarP(&bulkFields, "fields", "f", nil, "Fields to extract (default title,description,images)")
	bulkCmd.Flags().StringVarP(&bulkOutput, "output", "o", "", "Write the result to this file instead of stdout")
	bulkCmd.Flags().StringVar(&bulkFormat, "format", "json", "Output format: json or csv (one row per URL)")
	bulkCmd.Flags().BoolVar(&bulkNoProgress, "no-progress", false, "Hide the progress bar")
}

func runBulk(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	strategy, err := models.ParseStrategy(bulkStrategy)
	if err != nil {
		return err
	}
	if _, err := output.ParseFormat(bulkFormat); err != nil {
		return err
	}
	fields := bulkFields
	if len(fields) == 0 {
		fields = slices.Clone(models.DefaultBulkExtractFields)
	}

	for _, u := range args {
		req := &models.ScrapeRequest{URL: u, Strategy: strategy, Timeout: a.Config.Timeout, ExtractFields: slices.Clone(fields)}
		req.Normalize()
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
		if !validate.DomainAllowed(u, a.Config.AllowedDomains) {
			return fmt.Errorf("%w: %s", validate.ErrDomainForbidden, u)
		}
	}

	opts := batch.Options{
		Strategy:      strategy,
		Timeout:       a.Config.Timeout,
		ExtractFields: fields,
	}
	var bar *progressbar.ProgressBar
	if !bulkNoProgress {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Scraping"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnResult = func(_ int, _ *models.ScrapeResponse) {
			_ = bar.Add(1)
		}
	}

	log.Info().Int("url_count", len(args)).Str("strategy", string(strategy)).Msg("Starting bulk scrape")

	resp := a.Batch.ScrapeMany(cmd.Context(), args, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err := emit(cmd, bulkOutput, bulkFormat, resp, resp.Results); err != nil {
		return err
	}
	if resp.Failed > 0 {
		log.Warn().Int("failed", resp.Failed).Int("successful", resp.Successful).Msg("Bulk scrape finished with failures")
	}
	return nil
}
