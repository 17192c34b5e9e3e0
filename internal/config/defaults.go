package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel              = "info"
	DefaultJSONLog               = false
	DefaultTimeout               = 30 * time.Second
	DefaultBrowserHeadless       = true
	DefaultMaxConcurrentRequests = 5
	DefaultRequestDelay          = 1 * time.Second
	DefaultMaxRetries            = 0
	DefaultRetryDelay            = 2 * time.Second
	DefaultDomainRPS             = 5.0
	DefaultDomainBurst           = 10
	DefaultServerAddr            = ":8080"
	DefaultServerMode            = "release"
	DefaultShutdownTimeout       = 15 * time.Second
	DefaultAPIRPS                = 10.0
	DefaultAPIBurst              = 20
	DefaultWaitTimeout           = 10 * time.Second

	// MaxRetries bounds max_retries so a misconfiguration cannot stall a request
	MaxRetries = 10

	// EnvPrefix prefixes every environment override, e.g. SCRAPER_TIMEOUT
	EnvPrefix = "SCRAPER"
)

func setDefaults(v defaultSetter) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("json", DefaultJSONLog)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("user_agent", "")
	v.SetDefault("proxy", "")
	v.SetDefault("proxies", []string{})
	v.SetDefault("headers", []string{})
	v.SetDefault("chrome_path", "")
	v.SetDefault("browser_headless", DefaultBrowserHeadless)
	v.SetDefault("wait_timeout", DefaultWaitTimeout)
	v.SetDefault("max_concurrent_requests", DefaultMaxConcurrentRequests)
	v.SetDefault("request_delay", DefaultRequestDelay)
	v.SetDefault("max_retries", DefaultMaxRetries)
	v.SetDefault("retry_delay", DefaultRetryDelay)
	v.SetDefault("domain_rps", DefaultDomainRPS)
	v.SetDefault("domain_burst", DefaultDomainBurst)
	v.SetDefault("allowed_domains", []string{})
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("api_keys", []string{})
	v.SetDefault("api_rps", DefaultAPIRPS)
	v.SetDefault("api_burst", DefaultAPIBurst)
}

type defaultSetter interface {
	SetDefault(key string, value any)
}
