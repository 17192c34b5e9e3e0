// internal/engine/dynamic/browser.go
package dynamic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/scraper/internal/engine"
	"github.com/rs/zerolog/log"
)

// ErrBrowserClosed is returned by Acquire after Close
var ErrBrowserClosed = errors.New("browser is closed")

// BrowserOptions configures the shared Chrome instance
type BrowserOptions struct {
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
	ExtraArgs  []chromedp.ExecAllocatorOption
}

// Browser is the process-wide Chrome instance. It starts on first use;
// concurrent callers wait for the one in-flight start. A failed start is
// retried by the next caller.
type Browser struct {
	opts BrowserOptions

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool
}

// NewBrowser returns an unstarted Browser
func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

// Init starts Chrome if it is not already running. It is idempotent.
func (b *Browser) Init(ctx context.Context) error {
	_, err := b.Acquire(ctx)
	return err
}

// Acquire returns the root browser context, starting Chrome if needed.
// Callers derive isolated tab contexts from it and must not cancel it.
func (b *Browser) Acquire(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, engine.NewRenderError(engine.ErrCodeEngineUnavailable, "", "browser acquire cancelled", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, engine.NewRenderError(engine.ErrCodeEngineUnavailable, "", "browser unavailable", ErrBrowserClosed)
	}
	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	start := time.Now()
	log.Debug().Bool("headless", b.opts.Headless).Msg("Starting shared browser")

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run launches the process and ties it to browserCtx.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		log.Warn().Err(err).Msg("Failed to start browser")
		return nil, engine.NewRenderError(engine.ErrCodeEngineUnavailable, "", "failed to start browser", err)
	}

	b.allocCtx, b.allocCancel = allocCtx, allocCancel
	b.browserCtx, b.browserCancel = browserCtx, browserCancel

	log.Info().Dur("elapsed", time.Since(start)).Msg("Shared browser ready")
	return b.browserCtx, nil
}

// Ready reports whether the browser can be started and answers a protocol call
func (b *Browser) Ready(ctx context.Context) bool {
	root, err := b.Acquire(ctx)
	if err != nil {
		return false
	}

	probeCtx, cancel := context.WithTimeout(root, 5*time.Second)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err = chromedp.Run(probeCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, product, _, _, _, err := browser.GetVersion().Do(ctx)
		if err == nil {
			log.Debug().Str("product", product).Msg("Browser health probe ok")
		}
		return err
	}))
	if err != nil {
		log.Warn().Err(err).Msg("Browser health probe failed")
		return false
	}
	return true
}

// Started reports whether Chrome is currently running
func (b *Browser) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.browserCtx != nil
}

// Close shuts Chrome down. Further Acquire calls fail.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.browserCtx == nil {
		return nil
	}

	log.Debug().Msg("Closing shared browser")
	err := chromedp.Cancel(b.browserCtx)
	b.browserCancel()
	b.allocCancel()
	b.browserCtx = nil

	log.Info().Msg("Shared browser closed")
	return err
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("window-size", "1920,1080"),
	}

	if path := FindChrome(b.opts.ChromePath); path != "" {
		opts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, opts...)
	}
	if b.opts.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if b.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.opts.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(b.opts.Proxy))
	}

	return append(opts, b.opts.ExtraArgs...)
}
