package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", DefaultListenAddr, "")
	fs.Int("port", DefaultListenPort, "")
	fs.Bool("ssl", false, "")
	fs.String("cert", "", "")
	fs.String("key", "", "")
	fs.String("log-level", "info", "")
	fs.String("log-format", "auto", "")
	return fs
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "0.0.0.0", cfg.Web.ListenAddr)
	assert.Equal(t, 80, cfg.Web.ListenPort)
	assert.False(t, cfg.Web.SSL)
	assert.Equal(t, DefaultTrustedProxies, cfg.Web.TrustedProxies)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.Web.ListenAddr)
	assert.Equal(t, DefaultListenPort, cfg.Web.ListenPort)
	assert.Equal(t, DefaultReadTimeout, cfg.Web.ReadTimeout)
	assert.Empty(t, cfg.Profiler.Addr)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("web:\n  listen_port: 8080\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Web.ListenPort)
	assert.Equal(t, DefaultListenAddr, cfg.Web.ListenAddr)
}

func TestLoadFile(t *testing.T) {
	path := writeSettings(t, `
web:
  listen_addr: 127.0.0.1
  listen_port: 8080
  read_timeout: 3s
  trusted_proxies:
    - 10.0.0.0/8
log:
  level: debug
  format: json
profiler:
  addr: ":51111"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Web.ListenAddr)
	assert.Equal(t, 8080, cfg.Web.ListenPort)
	assert.Equal(t, 3*time.Second, cfg.Web.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Web.WriteTimeout)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Web.TrustedProxies)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":51111", cfg.Profiler.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeSettings(t, "web:\n  listen_port: 8080\n  listen_addr: 127.0.0.1\n")
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--port", "9090", "--log-level", "warn"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Web.ListenPort)
	assert.Equal(t, "127.0.0.1", cfg.Web.ListenAddr, "unset flags must not shadow the file")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*MainConfig)
		errMsg string
	}{
		{"negative port", func(c *MainConfig) { c.Web.ListenPort = -1 }, "invalid port number"},
		{"port too large", func(c *MainConfig) { c.Web.ListenPort = 70000 }, "invalid port number"},
		{"ssl without cert", func(c *MainConfig) { c.Web.SSL = true; c.Web.KeyFile = "k.pem" }, "cert_file or key_file"},
		{"ssl without key", func(c *MainConfig) { c.Web.SSL = true; c.Web.CertFile = "c.pem" }, "cert_file or key_file"},
		{"bad log format", func(c *MainConfig) { c.Log.Format = "xml" }, "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("ssl with cert and key", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Web.SSL = true
		cfg.Web.CertFile = "c.pem"
		cfg.Web.KeyFile = "k.pem"
		assert.NoError(t, cfg.Validate())
	})
}
