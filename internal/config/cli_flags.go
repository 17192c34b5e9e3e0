package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps persistent flag names to their config keys
var flagKeys = map[string]string{
	"json":             "json",
	"timeout":          "timeout",
	"user-agent":       "user_agent",
	"proxy":            "proxy",
	"proxies":          "proxies",
	"header":           "headers",
	"chrome-path":      "chrome_path",
	"headless":         "browser_headless",
	"wait-timeout":     "wait_timeout",
	"concurrency":      "max_concurrent_requests",
	"delay":            "request_delay",
	"max-retries":      "max_retries",
	"retry-delay":      "retry_delay",
	"domain-rps":       "domain_rps",
	"domain-burst":     "domain_burst",
	"allowed-domains":  "allowed_domains",
	"log-level":        "log_level",
	"addr":             "server.addr",
	"mode":             "server.mode",
	"shutdown-timeout": "server.shutdown_timeout",
}

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to configuration file (optional)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.String("log-level", DefaultLogLevel, "Log level: debug, info, warn or error")
	pf.Bool("json", DefaultJSONLog, "Write logs as JSON to stderr")
	pf.Duration("timeout", DefaultTimeout, "Per-URL request timeout")
	pf.String("user-agent", "", "Browser user agent override")
	pf.String("proxy", "", "Proxy for all fetches (e.g., http://proxy:3128)")
	pf.StringSlice("proxies", nil, "Rotate HTTP fetches across these proxies")
	pf.StringArrayP("header", "H", nil, "Extra HTTP fetch header, repeatable (e.g., -H \"Referer: https://shop.example\")")
	pf.String("chrome-path", "", "Chrome/Chromium executable")
	pf.Bool("headless", DefaultBrowserHeadless, "Run the browser headless")
	pf.Duration("wait-timeout", DefaultWaitTimeout, "How long the browser waits for a selector")
	pf.Int("concurrency", DefaultMaxConcurrentRequests, "Concurrent scrapes in a bulk call")
	pf.Duration("delay", DefaultRequestDelay, "Pause after each bulk task before the next dispatch")
	pf.Int("max-retries", DefaultMaxRetries, "Retries for transient HTTP failures")
	pf.Duration("retry-delay", DefaultRetryDelay, "Initial retry backoff")
	pf.Float64("domain-rps", DefaultDomainRPS, "Requests per second per target domain (0 disables)")
	pf.Int("domain-burst", DefaultDomainBurst, "Burst per target domain")
	pf.StringSlice("allowed-domains", nil, "Only scrape these domains and their subdomains")
}

// RegisterServerFlags registers flags only the API server uses
func RegisterServerFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", DefaultServerAddr, "Listen address")
	cmd.Flags().String("mode", DefaultServerMode, "gin mode: debug, release or test")
	cmd.Flags().Duration("shutdown-timeout", DefaultShutdownTimeout, "Grace period for in-flight requests on shutdown")
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func applyVerbosity(cmd *cobra.Command, cfg *Config) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		cfg.LogLevel = "error"
	}
}
