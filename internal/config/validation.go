package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/scraper/internal/proxy"
	"github.com/law-makers/scraper/internal/utils/headers"
	"github.com/law-makers/scraper/pkg/models"
)

func validate(c *Config) error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.Timeout < models.MinTimeout || c.Timeout > models.MaxTimeout {
		return fmt.Errorf("timeout must be between %s and %s", models.MinTimeout, models.MaxTimeout)
	}
	if c.Proxy != "" {
		if _, err := proxy.Parse(c.Proxy); err != nil {
			return err
		}
	}
	for _, p := range c.Proxies {
		if _, err := proxy.Parse(p); err != nil {
			return err
		}
	}
	if _, err := headers.Parse(c.Headers); err != nil {
		return err
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be > 0")
	}
	if c.MaxConcurrentRequests < 1 || c.MaxConcurrentRequests > models.MaxBulkURLs {
		return fmt.Errorf("max concurrent requests must be between 1 and %d", models.MaxBulkURLs)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must be >= 0")
	}
	if c.MaxRetries < 0 || c.MaxRetries > MaxRetries {
		return fmt.Errorf("max retries must be between 0 and %d", MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be >= 0")
	}
	if c.DomainRPS < 0 {
		return fmt.Errorf("domain rps must be >= 0")
	}
	if c.DomainBurst < 1 {
		return fmt.Errorf("domain burst must be >= 1")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.APIRPS <= 0 || c.APIBurst < 1 {
		return fmt.Errorf("api rate limit must be positive")
	}
	return nil
}
