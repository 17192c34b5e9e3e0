package engine

import (
	"context"
	"time"

	"github.com/law-makers/scraper/pkg/models"
)

// Executor is the interface both fetch executors implement
type Executor interface {
	// Fetch retrieves the page described by target
	Fetch(ctx context.Context, target Target) (*models.RawPage, error)

	// Name returns the name of the executor implementation
	Name() string
}

// Target is a single fetch. The wait and scroll hints only apply to rendering.
type Target struct {
	URL            string
	Timeout        time.Duration
	WaitSelector   string
	ScrollToBottom bool
	WaitForImages  bool
}
