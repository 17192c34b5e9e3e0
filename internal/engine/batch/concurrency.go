// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"

	"github.com/law-makers/scraper/pkg/models"
)

// OptimalConcurrency picks a cap for bulk calls when none is configured.
// Scraping is I/O bound, so it allows a few tasks per CPU, but never more
// than one bulk call can hold.
func OptimalConcurrency() int {
	optimal := runtime.NumCPU() * 3
	if optimal > models.MaxBulkURLs {
		optimal = models.MaxBulkURLs
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}
