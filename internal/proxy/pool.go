// Package proxy rotates outbound HTTP fetches across a list of proxies.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, skipping ones that failed recently
type Pool struct {
	mu       sync.Mutex
	proxies  []*url.URL
	index    int
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool parses raw proxy URLs. Only http, https and socks5 schemes are accepted.
func NewPool(raw []string, cooldown time.Duration) (*Pool, error) {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	p := &Pool{
		failed:   make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
	for _, r := range raw {
		u, err := Parse(r)
		if err != nil {
			return nil, err
		}
		p.proxies = append(p.proxies, u)
	}
	return p, nil
}

// Parse validates one proxy URL
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("invalid proxy %q: scheme must be http, https or socks5", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", raw)
	}
	return u, nil
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	return len(p.proxies)
}

// Next returns the next healthy proxy, or nil when the pool is empty.
// When every proxy is cooling down the next one in rotation is returned anyway.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}

	for range p.proxies {
		u := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[u.String()]
		if !ok {
			return u
		}
		if p.now().Sub(failedAt) >= p.cooldown {
			delete(p.failed, u.String())
			return u
		}
	}

	u := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return u
}

// MarkFailed skips u for the cooldown period
func (p *Pool) MarkFailed(u *url.URL) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[u.String()] = p.now()
}

// MarkHealthy clears the failure status of u
func (p *Pool) MarkHealthy(u *url.URL) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, u.String())
}

type ctxKey struct{}

// WithProxy pins the proxy a request made with ctx goes through
func WithProxy(ctx context.Context, u *url.URL) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromRequest is an http.Transport Proxy func that honours WithProxy.
// Requests without a pinned proxy fall back to fallback, which may be nil.
func FromRequest(fallback func(*http.Request) (*url.URL, error)) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if u, ok := req.Context().Value(ctxKey{}).(*url.URL); ok && u != nil {
			return u, nil
		}
		if fallback != nil {
			return fallback(req)
		}
		return nil, nil
	}
}
