package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string `mapstructure:"log_level"`
	JSONLog  bool   `mapstructure:"json"`

	// Scraping
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Proxy     string        `mapstructure:"proxy"`

	// Proxies rotates HTTP fetches; Headers are extra "Key: Value" request headers
	Proxies []string `mapstructure:"proxies"`
	Headers []string `mapstructure:"headers"`

	// Browser
	ChromePath      string        `mapstructure:"chrome_path"`
	BrowserHeadless bool          `mapstructure:"browser_headless"`
	WaitTimeout     time.Duration `mapstructure:"wait_timeout"`

	// Bulk
	MaxConcurrentRequests int           `mapstructure:"max_concurrent_requests"`
	RequestDelay          time.Duration `mapstructure:"request_delay"`

	// Retry
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	// Rate Limiting
	DomainRPS   float64 `mapstructure:"domain_rps"`
	DomainBurst int     `mapstructure:"domain_burst"`

	AllowedDomains []string `mapstructure:"allowed_domains"`

	Server ServerConfig `mapstructure:"server"`

	// API access
	APIKeys  []string `mapstructure:"api_keys"`
	APIRPS   float64  `mapstructure:"api_rps"`
	APIBurst int      `mapstructure:"api_burst"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Default returns a Config built from defaults and the environment only.
func Default() *Config {
	cfg, err := load(nil, "")
	if err != nil {
		// Only a bad environment override can get here
		panic(err)
	}
	return cfg
}

// Load builds a Config by combining defaults, an optional config file, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	path := ""
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	return load(cmd, path)
}

func load(cmd *cobra.Command, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if cmd != nil {
		v.SetConfigName("scraper")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cmd != nil {
		applyVerbosity(cmd, &cfg)
	}

	cfg.AllowedDomains = cleanList(cfg.AllowedDomains)
	cfg.APIKeys = cleanList(cfg.APIKeys)
	cfg.Proxies = cleanList(cfg.Proxies)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// AuthEnabled reports whether API keys are configured
func (c *Config) AuthEnabled() bool {
	return len(c.APIKeys) > 0
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
