// internal/engine/batch/scraper.go
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/law-makers/scraper/internal/metrics"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// SingleScraper is the single-URL entry point the batch fans out to
type SingleScraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest) *models.ScrapeResponse
}

// NoDelay disables the pacing delay for one ScrapeMany call
const NoDelay time.Duration = -1

// Options are shared by every URL in one bulk call
type Options struct {
	Strategy      models.Strategy
	Timeout       time.Duration
	WaitSelector  string
	ExtractFields []string
	Options       models.Options

	// Concurrency and Delay override the Scraper defaults when positive.
	// A negative Delay (see NoDelay) turns pacing off for this call.
	Concurrency int
	Delay       time.Duration

	// OnResult is called from worker goroutines as each URL finishes
	OnResult func(index int, resp *models.ScrapeResponse)
}

// Scraper runs many single-URL scrapes under a concurrency cap
type Scraper struct {
	single      SingleScraper
	concurrency int
	delay       time.Duration
}

// New creates a batch Scraper. If concurrency <= 0 it is derived from the
// host's resources.
func New(single SingleScraper, concurrency int, delay time.Duration) *Scraper {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	if delay < 0 {
		delay = 0
	}
	return &Scraper{
		single:      single,
		concurrency: concurrency,
		delay:       delay,
	}
}

// ScrapeMany scrapes every URL and returns results in input order.
//
// Slots are acquired in input order, so dispatch follows the input. Each
// task holds its slot through the pacing delay after it finishes. A failing
// or panicking task only affects its own position.
func (s *Scraper) ScrapeMany(ctx context.Context, urls []string, opts Options) *models.BulkScrapeResponse {
	limit := s.concurrency
	if opts.Concurrency > 0 {
		limit = opts.Concurrency
	}
	delay := s.delay
	switch {
	case opts.Delay > 0:
		delay = opts.Delay
	case opts.Delay < 0:
		delay = 0
	}

	results := make([]*models.ScrapeResponse, len(urls))
	sem := semaphore.NewWeighted(int64(limit))

	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		lastCompletion time.Time
	)

	start := time.Now()
	metrics.BulkBatchSize.Observe(float64(len(urls)))
	log.Debug().
		Int("urls", len(urls)).
		Int("concurrency", limit).
		Dur("delay", delay).
		Msg("Starting bulk scrape")

	for i, u := range urls {
		req := opts.request(u)

		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = models.NewFailedResponse(req, fmt.Errorf("not dispatched: %w", err), 0)
			opts.notify(i, results[i])
			continue
		}

		wg.Add(1)
		go func(i int, req *models.ScrapeRequest) {
			defer wg.Done()
			defer sem.Release(1)

			resp := s.run(ctx, req)
			results[i] = resp

			mu.Lock()
			lastCompletion = time.Now()
			mu.Unlock()

			opts.notify(i, resp)
			pause(ctx, delay)
		}(i, req)
	}

	wg.Wait()

	end := lastCompletion
	if end.IsZero() {
		end = time.Now()
	}

	bulk := &models.BulkScrapeResponse{
		TotalURLs:      len(urls),
		Results:        results,
		ProcessingTime: end.Sub(start).Seconds(),
		Timestamp:      time.Now().UTC(),
	}
	for _, r := range results {
		if r.Success {
			bulk.Successful++
		} else {
			bulk.Failed++
		}
	}

	log.Info().
		Int("total", bulk.TotalURLs).
		Int("successful", bulk.Successful).
		Int("failed", bulk.Failed).
		Float64("seconds", bulk.ProcessingTime).
		Msg("Bulk scrape complete")

	return bulk
}

func (s *Scraper) run(ctx context.Context, req *models.ScrapeRequest) (resp *models.ScrapeResponse) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("url", req.URL).Interface("panic", r).Msg("Scrape task panicked")
			resp = models.NewFailedResponse(req, fmt.Errorf("scrape panicked: %v", r), time.Since(start))
		}
	}()

	resp = s.single.Scrape(ctx, req)
	if resp == nil {
		resp = models.NewFailedResponse(req, errors.New("scrape returned no response"), time.Since(start))
	}
	return resp
}

func (o Options) request(u string) *models.ScrapeRequest {
	req := &models.ScrapeRequest{
		URL:           u,
		Strategy:      o.Strategy,
		Timeout:       o.Timeout,
		WaitSelector:  o.WaitSelector,
		ExtractFields: append([]string(nil), o.ExtractFields...),
		Options:       o.Options,
	}
	req.Normalize()
	return req
}

func (o Options) notify(i int, resp *models.ScrapeResponse) {
	if o.OnResult != nil {
		o.OnResult(i, resp)
	}
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
