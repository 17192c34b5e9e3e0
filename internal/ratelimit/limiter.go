// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"strings"
	"sync"

	urlutil "github.com/law-makers/scraper/internal/utils/url"
	"golang.org/x/time/rate"
)

// RateLimiter gates outbound fetches before they are dispatched.
type RateLimiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled before the rate limit allows, an error is returned.
	Wait(ctx context.Context, urlStr string) error
}

// DomainLimiter provides per-domain rate limiting to prevent overwhelming servers
// and avoid IP bans. It uses the token bucket algorithm for smooth rate limiting.
// "www." is ignored so shop.example and www.shop.example share a bucket.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit // Requests per second per host
	burst    int        // Burst capacity
}

// NewDomainLimiter creates a new rate limiter with the specified per-host rate
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5.0 // Default: 5 requests/sec per domain
	}
	if burst <= 0 {
		burst = 10
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the request for the given URL can proceed according to rate limits
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	domain := bucketKey(urlStr)
	if domain == "" {
		// Invalid URL, let it proceed (will fail elsewhere)
		return nil
	}

	return dl.getLimiter(domain).Wait(ctx)
}

// Domains reports how many per-domain buckets exist.
func (dl *DomainLimiter) Domains() int {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	return len(dl.limiters)
}

// getLimiter returns or creates a rate limiter for the given domain
func (dl *DomainLimiter) getLimiter(domain string) *rate.Limiter {
	dl.mu.RLock()
	limiter, exists := dl.limiters[domain]
	dl.mu.RUnlock()

	if exists {
		return limiter
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := dl.limiters[domain]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[domain] = limiter

	return limiter
}

func bucketKey(urlStr string) string {
	return strings.TrimPrefix(urlutil.Domain(urlStr), "www.")
}

// Unlimited never blocks. It stands in when rate limiting is disabled.
type Unlimited struct{}

// Wait returns immediately unless ctx is already done.
func (Unlimited) Wait(ctx context.Context, _ string) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
