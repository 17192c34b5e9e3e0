package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "scraper"}
	RegisterFlags(cmd)
	RegisterServerFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(newCmd(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxConcurrentRequests)
	assert.Equal(t, time.Second, cfg.RequestDelay)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 5.0, cfg.DomainRPS)
	assert.Equal(t, 10, cfg.DomainBurst)
	assert.True(t, cfg.BrowserHeadless)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Empty(t, cfg.AllowedDomains)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SCRAPER_TIMEOUT", "45s")
	t.Setenv("SCRAPER_MAX_CONCURRENT_REQUESTS", "3")
	t.Setenv("SCRAPER_ALLOWED_DOMAINS", "shop.example, store.example")
	t.Setenv("SCRAPER_API_KEYS", "k1,k2")
	t.Setenv("SCRAPER_SERVER_ADDR", ":9090")

	cfg, err := Load(newCmd(t))
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxConcurrentRequests)
	assert.Equal(t, []string{"shop.example", "store.example"}, cfg.AllowedDomains)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SCRAPER_TIMEOUT", "45s")

	cfg, err := Load(newCmd(t, "--timeout=20s", "--concurrency=2", "--addr=:7070", "-v"))
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxConcurrentRequests)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout: 60s
max_retries: 2
server:
  mode: debug
`), 0o644))

	cfg, err := Load(newCmd(t, "--config="+path))
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(newCmd(t, "--config=/nonexistent/scraper.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	cases := [][]string{
		{"--timeout=1s"},
		{"--timeout=5m"},
		{"--concurrency=0"},
		{"--concurrency=11"},
		{"--max-retries=-1"},
		{"--log-level=chatty"},
		{"--mode=production"},
		{"--domain-burst=0"},
		{"--proxy=ftp://proxy"},
		{"--proxies=http://ok:3128,socks4://old:1080"},
		{"-H", "NoColon"},
	}
	for _, args := range cases {
		_, err := Load(newCmd(t, args...))
		assert.Error(t, err, "args %v", args)
	}
}

func TestLoad_ProxiesAndHeaders(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(newCmd(t,
		"--proxies=http://p1:3128, socks5://p2:1080",
		"-H", "Referer: https://shop.example",
		"-H", "Accept: text/html, application/xhtml+xml",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://p1:3128", "socks5://p2:1080"}, cfg.Proxies)
	assert.Equal(t, []string{"Referer: https://shop.example", "Accept: text/html, application/xhtml+xml"}, cfg.Headers)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
