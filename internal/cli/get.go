package cli

import (
	"fmt"

	"github.com/law-makers/scraper/internal/reqctx"
	"github.com/law-makers/scraper/internal/utils/output"
	"github.com/law-makers/scraper/internal/validate"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	getStrategy   string
	getWaitFor    string
	getFields     []string
	getScroll     bool
	getWaitImages bool
	getOutput     string
	getFormat     string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Scrape one product page",
	Long: `Fetches a single URL and prints the extracted record as JSON.

With the default "auto" strategy the domain table decides between a plain
HTTP fetch and headless browser rendering.`,
	Example: `  # Auto strategy, default fields
  scraper get https://shop.example/p/123

  # Force browser rendering and wait for the price block
  scraper get https://shop.example/p/123 --strategy=browser --wait-for=".price"

  # Only title and price, saved to a file
  scraper get https://shop.example/p/123 --fields=title,price -o product.json

  # One CSV row
  scraper get https://shop.example/p/123 --format=csv`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getStrategy, "strategy", "s", "auto", "Retrieval strategy: auto, http, browser or hybrid")
	getCmd.Flags().StringVar(&getWaitFor, "wait-for", "", "CSS selector the browser waits for")
	getCmd.Flags().StringSliceVarP(&getFields, "fields", "f", nil, "Fields to extract (default title,description,images,price)")
	getCmd.Flags().BoolVar(&getScroll, "scroll", false, "Scroll to the bottom before capturing (browser only)")
	getCmd.Flags().BoolVar(&getWaitImages, "wait-images", false, "Wait for images to load (browser only)")
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Write the result to this file instead of stdout")
	getCmd.Flags().StringVar(&getFormat, "format", "json", "Output format: json or csv")
}

func runGet(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	strategy, err := models.ParseStrategy(getStrategy)
	if err != nil {
		return err
	}
	if _, err := output.ParseFormat(getFormat); err != nil {
		return err
	}

	req := &models.ScrapeRequest{
		URL:           args[0],
		Strategy:      strategy,
		Timeout:       a.Config.Timeout,
		WaitSelector:  getWaitFor,
		ExtractFields: getFields,
		Options: models.Options{
			ScrollToBottom: getScroll,
			WaitForImages:  getWaitImages,
		},
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	if !validate.DomainAllowed(req.URL, a.Config.AllowedDomains) {
		return fmt.Errorf("%w: %s", validate.ErrDomainForbidden, req.URL)
	}

	ctx := reqctx.WithRequestID(cmd.Context(), "")
	log.Info().
		Str("request_id", reqctx.RequestID(ctx)).
		Str("url", req.URL).
		Str("strategy", string(req.Strategy)).
		Msg("Scraping")

	resp := a.Service.Scrape(ctx, req)
	if err := emit(cmd, getOutput, getFormat, resp, []*models.ScrapeResponse{resp}); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("scrape failed: %s", resp.Error)
	}
	return nil
}
