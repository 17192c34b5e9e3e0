// internal/engine/dynamic/renderer.go
package dynamic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/security"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/scraper/internal/engine"
	"github.com/law-makers/scraper/internal/metrics"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultWaitTimeout bounds the post-navigation selector or idle wait
	DefaultWaitTimeout = 10 * time.Second

	viewportWidth  = 1920
	viewportHeight = 1080
	scrollSettle   = 500 * time.Millisecond
)

const waitImagesJS = `Promise.all(Array.from(document.images)
	.filter(img => !img.complete)
	.map(img => new Promise(resolve => { img.onload = img.onerror = resolve; })))`

// Renderer is the rendering executor. Every call runs in its own browser
// context on the shared Browser and tears it down before returning.
type Renderer struct {
	browser     *Browser
	waitTimeout time.Duration
}

// NewRenderer creates a Renderer on top of a shared Browser
func NewRenderer(b *Browser, waitTimeout time.Duration) *Renderer {
	if waitTimeout <= 0 {
		waitTimeout = DefaultWaitTimeout
	}
	return &Renderer{
		browser:     b,
		waitTimeout: waitTimeout,
	}
}

// Name returns the name of this executor
func (r *Renderer) Name() string {
	return string(models.StrategyBrowser)
}

// Fetch navigates to target.URL with target.Timeout as the navigation
// deadline, waits for target.WaitSelector (or network idle), then captures
// the rendered markup.
//
// A selector that never appears is a wait_timeout failure. A page that never
// goes network-idle is captured anyway.
func (r *Renderer) Fetch(ctx context.Context, target engine.Target) (*models.RawPage, error) {
	start := time.Now()

	timeout := target.Timeout
	if timeout <= 0 {
		timeout = models.DefaultTimeout
	}

	root, err := r.browser.Acquire(ctx)
	if err != nil {
		var re *engine.RenderError
		if errors.As(err, &re) {
			re.URL = target.URL
		}
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(root, chromedp.WithNewBrowserContext())
	metrics.BrowserContextsActive.Inc()
	defer func() {
		cancelTab()
		metrics.BrowserContextsActive.Dec()
	}()

	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()
	stop := context.AfterFunc(ctx, cancelRun)
	defer stop()

	if err := chromedp.Run(runCtx); err != nil {
		return nil, engine.NewRenderError(engine.ErrCodeEngineUnavailable, target.URL, "failed to open browser context", err)
	}

	log.Debug().
		Str("url", target.URL).
		Str("executor", r.Name()).
		Str("wait_for", target.WaitSelector).
		Msg("Starting render")

	nav := newNavigationState(chromedp.FromContext(runCtx))
	chromedp.ListenTarget(runCtx, nav.handle)

	err = chromedp.Run(runCtx,
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
		security.SetIgnoreCertificateErrors(true),
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(target.URL),
	)
	if err != nil {
		if runCtx.Err() != nil {
			return nil, engine.NewRenderError(engine.ErrCodeNavigationTimeout, target.URL, "navigation deadline exceeded", err)
		}
		return nil, engine.NewRenderError(engine.ErrCodeNavigation, target.URL, "navigation failed", err)
	}

	if err := r.wait(runCtx, target, nav); err != nil {
		return nil, err
	}

	if target.ScrollToBottom {
		if err := chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
			chromedp.Sleep(scrollSettle),
		); err != nil {
			log.Debug().Err(err).Str("url", target.URL).Msg("Scroll to bottom failed")
		}
	}

	if target.WaitForImages {
		imgCtx, cancel := context.WithTimeout(runCtx, r.waitTimeout)
		err := chromedp.Run(imgCtx, chromedp.Evaluate(waitImagesJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
		cancel()
		if err != nil {
			log.Debug().Err(err).Str("url", target.URL).Msg("Images did not finish loading")
		}
	}

	var html, finalURL string
	if err := chromedp.Run(runCtx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	); err != nil {
		if runCtx.Err() != nil {
			return nil, engine.NewRenderError(engine.ErrCodeNavigationTimeout, target.URL, "deadline exceeded while capturing page", err)
		}
		return nil, engine.NewRenderError(engine.ErrCodeNavigation, target.URL, "failed to capture page", err)
	}

	status, contentType := nav.response()
	log.Debug().
		Str("url", target.URL).
		Str("final_url", finalURL).
		Int("status", status).
		Int("bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Msg("Render complete")

	return &models.RawPage{
		HTML:        html,
		FinalURL:    finalURL,
		StatusCode:  status,
		ContentType: contentType,
	}, nil
}

func (r *Renderer) wait(ctx context.Context, target engine.Target, nav *navigationState) error {
	if target.WaitSelector != "" {
		waitCtx, cancel := context.WithTimeout(ctx, r.waitTimeout)
		defer cancel()
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(target.WaitSelector, chromedp.ByQuery)); err != nil {
			if ctx.Err() != nil {
				return engine.NewRenderError(engine.ErrCodeNavigationTimeout, target.URL, "deadline exceeded while waiting", err)
			}
			return engine.NewRenderError(engine.ErrCodeWaitTimeout, target.URL, "selector did not appear", err).
				WithSelector(target.WaitSelector)
		}
		return nil
	}

	timer := time.NewTimer(r.waitTimeout)
	defer timer.Stop()
	select {
	case <-nav.idle:
	case <-timer.C:
		log.Debug().Str("url", target.URL).Dur("waited", r.waitTimeout).Msg("Network never went idle, capturing anyway")
	case <-ctx.Done():
		return engine.NewRenderError(engine.ErrCodeNavigationTimeout, target.URL, "deadline exceeded while waiting for network idle", ctx.Err())
	}
	return nil
}

// navigationState collects the main document response and lifecycle events
// for one tab. Handlers run on chromedp's event goroutine.
type navigationState struct {
	mainFrame cdp.FrameID
	idle      chan struct{}

	mu          sync.Mutex
	status      int
	contentType string
}

func newNavigationState(c *chromedp.Context) *navigationState {
	s := &navigationState{idle: make(chan struct{}, 1)}
	if c != nil && c.Target != nil {
		s.mainFrame = cdp.FrameID(c.Target.TargetID)
	}
	return s
}

func (s *navigationState) handle(ev interface{}) {
	switch ev := ev.(type) {
	case *network.EventResponseReceived:
		if ev.Type != network.ResourceTypeDocument || ev.Response == nil {
			return
		}
		if s.mainFrame != "" && ev.FrameID != s.mainFrame {
			return
		}
		s.mu.Lock()
		s.status = int(ev.Response.Status)
		s.contentType = ev.Response.MimeType
		s.mu.Unlock()

	case *page.EventLifecycleEvent:
		if s.mainFrame != "" && ev.FrameID != s.mainFrame {
			return
		}
		switch ev.Name {
		case "init":
			select {
			case <-s.idle:
			default:
			}
		case "networkIdle":
			select {
			case s.idle <- struct{}{}:
			default:
			}
		}
	}
}

func (s *navigationState) response() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.contentType
}
