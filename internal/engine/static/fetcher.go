// internal/engine/static/fetcher.go
package static

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/law-makers/scraper/internal/engine"
	"github.com/law-makers/scraper/internal/proxy"
	"github.com/law-makers/scraper/internal/utils/headers"
	"github.com/law-makers/scraper/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/publicsuffix"
)

const (
	maxRedirects = 10
	maxBodyBytes = 10 << 20
)

// Fetcher is the lightweight executor: a single HTTP GET per call.
// It never retries; that is left to the caller.
type Fetcher struct {
	transport http.RoundTripper
	agents    *AgentPool
	headers   http.Header
	proxies   *proxy.Pool
}

// New creates a Fetcher. A nil transport uses http.DefaultTransport.
func New(transport http.RoundTripper, agents *AgentPool) *Fetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if agents == nil {
		agents = DefaultAgents()
	}
	return &Fetcher{
		transport: transport,
		agents:    agents,
	}
}

// WithHeaders sets extra request headers, applied over the defaults
func (f *Fetcher) WithHeaders(h http.Header) *Fetcher {
	f.headers = h.Clone()
	return f
}

// WithProxies rotates fetches across pool. The transport must resolve
// proxies with proxy.FromRequest for the choice to take effect.
func (f *Fetcher) WithProxies(pool *proxy.Pool) *Fetcher {
	f.proxies = pool
	return f
}

// Name returns the name of this executor
func (f *Fetcher) Name() string {
	return string(models.StrategyHTTP)
}

// Fetch issues a GET for target.URL, following redirects, with target.Timeout
// as the hard deadline for the whole exchange including the body read.
func (f *Fetcher) Fetch(ctx context.Context, target engine.Target) (*models.RawPage, error) {
	start := time.Now()

	timeout := target.Timeout
	if timeout <= 0 {
		timeout = models.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().
		Str("url", target.URL).
		Str("executor", f.Name()).
		Dur("timeout", timeout).
		Msg("Starting fetch")

	var via *url.URL
	if f.proxies != nil {
		if via = f.proxies.Next(); via != nil {
			ctx = proxy.WithProxy(ctx, via)
			log.Debug().Str("url", target.URL).Str("proxy", via.Redacted()).Msg("Fetching through proxy")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, engine.NewFetchError(engine.ErrCodeTransport, target.URL, "failed to create request", err)
	}
	req.Header.Set("User-Agent", f.agents.Random())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	headers.Apply(req.Header, f.headers)

	resp, err := f.client().Do(req)
	if err != nil {
		fe := classify(ctx, target.URL, "request failed", err)
		if via != nil && fe.Code == engine.ErrCodeTransport {
			f.proxies.MarkFailed(via)
		}
		return nil, fe
	}
	defer resp.Body.Close()
	if via != nil {
		f.proxies.MarkHealthy(via)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, engine.NewHTTPStatusError(target.URL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(ctx, target.URL, "failed to read body", err)
	}

	page := &models.RawPage{
		HTML:        decode(body, contentType),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}

	log.Debug().
		Str("url", target.URL).
		Str("final_url", page.FinalURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetch complete")

	return page, nil
}

// client returns an http.Client with a fresh cookie jar so no state is
// shared between fetches.
func (f *Fetcher) client() *http.Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return &http.Client{
		Transport: f.transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// decode converts body to UTF-8 using the declared or sniffed charset
func decode(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(out)
}

func classify(ctx context.Context, url, msg string, err error) *engine.FetchError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return engine.NewFetchError(engine.ErrCodeTimeout, url, "deadline exceeded", err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return engine.NewFetchError(engine.ErrCodeTimeout, url, "deadline exceeded", err)
	}
	return engine.NewFetchError(engine.ErrCodeTransport, url, msg, err)
}
