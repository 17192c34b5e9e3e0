package cli

import (
	"fmt"

	"github.com/law-makers/scraper/internal/utils/output"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List retrieval strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range models.ListStrategies() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", s.Name, s.Description)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the browser can start",
	Long: `Starts the headless browser if needed and reports service health as JSON.
A browser that cannot start reports "degraded"; HTTP scraping still works.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}
		return output.WriteJSON(cmd.OutOrStdout(), a.Health(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd, healthCmd)
}
