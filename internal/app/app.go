// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/law-makers/scraper/internal/config"
	"github.com/law-makers/scraper/internal/engine"
	"github.com/law-makers/scraper/internal/engine/batch"
	"github.com/law-makers/scraper/internal/engine/dynamic"
	"github.com/law-makers/scraper/internal/engine/static"
	"github.com/law-makers/scraper/internal/engine/strategy"
	"github.com/law-makers/scraper/internal/proxy"
	"github.com/law-makers/scraper/internal/ratelimit"
	"github.com/law-makers/scraper/internal/retry"
	"github.com/law-makers/scraper/internal/utils/headers"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ServiceName and Version are reported by the health endpoint and the CLI
	ServiceName = "product-scraper"
	Version     = "1.0.0"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// The browser is not started here; the first rendering scrape or health
// probe starts it. Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config    *config.Config
	Table     *strategy.Table
	Browser   *dynamic.Browser
	Limiter   ratelimit.RateLimiter
	Service   *engine.Service
	Batch     *batch.Scraper
	transport *http.Transport
	startTime time.Time
}

// New creates and initializes a new Application with all dependencies.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	ConfigureLogging(cfg)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 90 * time.Second

	fallback := http.ProxyFromEnvironment
	if cfg.Proxy != "" {
		proxyURL, err := proxy.Parse(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		fallback = http.ProxyURL(proxyURL)
	}
	transport.Proxy = proxy.FromRequest(fallback)

	proxies, err := proxy.NewPool(cfg.Proxies, proxy.DefaultCooldown)
	if err != nil {
		return nil, err
	}
	extraHeaders, err := headers.Parse(cfg.Headers)
	if err != nil {
		return nil, err
	}
	fetcher := static.New(transport, static.DefaultAgents()).WithHeaders(extraHeaders)
	if proxies.Len() > 0 {
		fetcher.WithProxies(proxies)
		log.Debug().Int("proxies", proxies.Len()).Msg("Proxy rotation enabled")
	}

	var limiter ratelimit.RateLimiter = ratelimit.Unlimited{}
	if cfg.DomainRPS > 0 {
		limiter = ratelimit.NewDomainLimiter(cfg.DomainRPS, cfg.DomainBurst)
		log.Debug().
			Float64("rps", cfg.DomainRPS).
			Int("burst", cfg.DomainBurst).
			Msg("Domain rate limiter initialized")
	}

	browser := dynamic.NewBrowser(dynamic.BrowserOptions{
		Headless:   cfg.BrowserHeadless,
		UserAgent:  cfg.UserAgent,
		Proxy:      cfg.Proxy,
		ChromePath: cfg.ChromePath,
	})

	table := strategy.Default()
	service := engine.NewService(engine.ServiceOptions{
		Table:   table,
		HTTP:    fetcher,
		Browser: dynamic.NewRenderer(browser, cfg.WaitTimeout),
		Limiter: limiter,
		Retry:   RetryConfig(cfg),
	})

	a := &Application{
		Config:    cfg,
		Table:     table,
		Browser:   browser,
		Limiter:   limiter,
		Service:   service,
		Batch:     batch.New(service, cfg.MaxConcurrentRequests, cfg.RequestDelay),
		transport: transport,
		startTime: time.Now(),
	}

	log.Debug().
		Dur("timeout", cfg.Timeout).
		Int("concurrency", cfg.MaxConcurrentRequests).
		Int("max_retries", cfg.MaxRetries).
		Msg("Application initialized")
	return a, nil
}

// RetryConfig derives the lightweight executor's retry policy from cfg
func RetryConfig(cfg *config.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = 1 + cfg.MaxRetries
	if cfg.RetryDelay > 0 {
		rc.InitialBackoff = cfg.RetryDelay
	}
	return rc
}

// ConfigureLogging sets the global zerolog level and writer from cfg
func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// Health probes the browser. A browser that cannot start only degrades the
// service because the lightweight path still works.
func (a *Application) Health(ctx context.Context) *models.HealthStatus {
	ready := a.Browser.Ready(ctx)

	status := "healthy"
	if !ready {
		status = "degraded"
	}
	return &models.HealthStatus{
		Status:       status,
		Service:      ServiceName,
		BrowserReady: ready,
		Version:      Version,
		Uptime:       a.Uptime().Round(time.Second).String(),
		Timestamp:    time.Now().UTC(),
	}
}

// Close gracefully shuts down the application and all its resources.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	log.Debug().Msg("Shutting down application")

	if a.Browser != nil {
		if err := a.Browser.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing browser")
		}
	}

	if a.transport != nil {
		a.transport.CloseIdleConnections()
	}

	log.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
