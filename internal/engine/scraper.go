// internal/engine/scraper.go
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/scraper/internal/engine/extract"
	"github.com/law-makers/scraper/internal/engine/strategy"
	"github.com/law-makers/scraper/internal/metrics"
	"github.com/law-makers/scraper/internal/ratelimit"
	"github.com/law-makers/scraper/internal/reqctx"
	"github.com/law-makers/scraper/internal/retry"
	urlutil "github.com/law-makers/scraper/internal/utils/url"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceOptions wires the single-URL orchestrator
type ServiceOptions struct {
	Table   *strategy.Table
	HTTP    Executor
	Browser Executor

	// Limiter runs before every dispatch. Nil disables politeness waits.
	Limiter ratelimit.RateLimiter

	// Retry applies to the lightweight executor only
	Retry retry.Config
}

// Service resolves a strategy for each request, fetches the page and
// extracts a product record from it.
type Service struct {
	table   *strategy.Table
	http    Executor
	browser Executor
	limiter ratelimit.RateLimiter
	retry   retry.Config
}

// NewService creates a Service. A nil table means the built-in one.
func NewService(opts ServiceOptions) *Service {
	table := opts.Table
	if table == nil {
		table = strategy.Default()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	return &Service{
		table:   table,
		http:    opts.HTTP,
		browser: opts.Browser,
		limiter: limiter,
		retry:   opts.Retry,
	}
}

// Scrape runs one request to completion. It never returns nil and never
// panics: every failure is reported through a failed response that keeps
// the requested strategy.
func (s *Service) Scrape(ctx context.Context, req *models.ScrapeRequest) (resp *models.ScrapeResponse) {
	start := time.Now()
	if req == nil {
		req = &models.ScrapeRequest{}
	}
	req.Normalize()

	logger := log.With().
		Str("request_id", reqctx.RequestID(ctx)).
		Str("url", req.URL).
		Str("strategy", string(req.Strategy)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Scrape panicked")
			resp = models.NewFailedResponse(req, fmt.Errorf("internal error: %v", r), time.Since(start))
		}
		metrics.ObserveScrape(string(resp.StrategyUsed), resp.Success, time.Since(start))
	}()

	used, page, err := s.fetch(ctx, req, logger)
	if err != nil {
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Scrape failed")
		return models.NewFailedResponse(req, err, time.Since(start))
	}

	data := extract.Extract(page, urlutil.BaseURL(page.FinalURL), req.ExtractFields)

	resp = &models.ScrapeResponse{
		URL:            req.URL,
		Success:        true,
		Data:           data,
		StrategyUsed:   used,
		StatusCode:     page.StatusCode,
		ContentType:    page.ContentType,
		FinalURL:       page.FinalURL,
		ProcessingTime: time.Since(start).Seconds(),
		Timestamp:      time.Now().UTC(),
	}

	logger.Info().
		Str("strategy_used", string(used)).
		Int("status", page.StatusCode).
		Float64("seconds", resp.ProcessingTime).
		Msg("Scrape succeeded")

	return resp
}

// fetch resolves the executor and retrieves the page within the request deadline
func (s *Service) fetch(ctx context.Context, req *models.ScrapeRequest, logger zerolog.Logger) (models.Strategy, *models.RawPage, error) {
	target, err := urlutil.Normalize(req.URL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	domain := urlutil.Domain(target)

	used, err := s.resolve(req.Strategy, domain)
	if err != nil {
		return "", nil, err
	}
	exec, err := s.executor(used)
	if err != nil {
		return "", nil, err
	}

	logger.Debug().
		Str("domain", domain).
		Str("resolved", string(used)).
		Str("executor", exec.Name()).
		Msg("Dispatching fetch")

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx, target); err != nil {
		return "", nil, NewFetchError(ErrCodeTimeout, target, "rate limit wait exceeded the request deadline", err)
	}

	t := s.buildTarget(target, domain, used, req)

	var page *models.RawPage
	run := func() error {
		p, err := exec.Fetch(ctx, t)
		if err != nil {
			return err
		}
		page = p
		return nil
	}

	if used == models.StrategyHTTP && s.retry.MaxAttempts > 1 {
		err = retry.WithRetry(ctx, s.retry, run)
	} else {
		err = run()
	}
	if err != nil {
		return "", nil, err
	}
	if page.FinalURL == "" {
		page.FinalURL = target
	}
	return used, page, nil
}

// resolve turns the requested strategy into a concrete one
func (s *Service) resolve(requested models.Strategy, domain string) (models.Strategy, error) {
	switch requested {
	case models.StrategyHTTP, models.StrategyBrowser:
		return requested, nil
	case models.StrategyHybrid:
		return "", ErrStrategyNotImplemented
	case models.StrategyAuto, "":
		if picked := s.table.Select(domain); picked != models.StrategyAuto {
			return picked, nil
		}
		return models.StrategyHTTP, nil
	}
	return "", fmt.Errorf("unknown strategy %q", requested)
}

func (s *Service) executor(st models.Strategy) (Executor, error) {
	var exec Executor
	switch st {
	case models.StrategyHTTP:
		exec = s.http
	case models.StrategyBrowser:
		exec = s.browser
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutor, st)
	}
	return exec, nil
}

// buildTarget merges request hints over the domain's site options. An
// explicit wait selector from the request always wins.
func (s *Service) buildTarget(url, domain string, st models.Strategy, req *models.ScrapeRequest) Target {
	t := Target{
		URL:            url,
		Timeout:        req.Timeout,
		WaitSelector:   req.WaitSelector,
		ScrollToBottom: req.Options.ScrollToBottom,
		WaitForImages:  req.Options.WaitForImages,
	}
	if t.WaitSelector == "" {
		t.WaitSelector = req.Options.WaitSelector
	}
	if st != models.StrategyBrowser {
		return t
	}

	site := s.table.SiteOptions(domain)
	if t.WaitSelector == "" {
		t.WaitSelector = site.WaitSelector
	}
	t.ScrollToBottom = t.ScrollToBottom || site.ScrollToBottom
	t.WaitForImages = t.WaitForImages || site.WaitForImages
	return t
}

