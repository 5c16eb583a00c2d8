package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	require.NotNil(t, loader)
	assert.Len(t, loader.configPaths, 5)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoaderWithPaths([]string{filepath.Join(dir, "missing.yaml")})

	cfg, err := loader.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `version: "1.0"
catalog:
  base_url: "http://localhost:9000/"
  timeout: 5s
search:
  default_query: "nebula"
display:
  theme: "high-contrast"
  no_emoji: true
log:
  verbose: true
`)

	cfg, err := NewLoader().LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/", cfg.Catalog.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Catalog.Timeout.Std())
	assert.Equal(t, "nebula", cfg.Search.DefaultQuery)
	assert.Equal(t, "high-contrast", cfg.Display.Theme)
	assert.True(t, cfg.Display.NoEmoji)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, "image", cfg.Catalog.MediaType)
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `version = "1.0"

[catalog]
timeout = "12s"
requests_per_second = 1.5

[display]
language = "de"
time_zone = "UTC"
`)

	cfg, err := NewLoader().LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.Catalog.Timeout.Std())
	assert.InDelta(t, 1.5, cfg.Catalog.RequestsPerSecond, 0.0001)
	assert.Equal(t, "de", cfg.Display.Language)
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestLoadConfigInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"broken yaml", "c.yaml", "catalog: [unclosed", "failed to parse YAML"},
		{"broken toml", "c.toml", "[catalog\nx=", "failed to parse TOML"},
		{"bad duration", "c.yaml", "catalog:\n  timeout: soon\n", "invalid duration"},
		{"fails validation", "c.yaml", "display:\n  theme: neon\n", "configuration validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, err := NewLoader().LoadConfig(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "project.yaml")
	low := filepath.Join(dir, "system.toml")
	writeFile(t, low, "[search]\ndefault_query = \"low\"\npages = 3\n")
	writeFile(t, high, "search:\n  default_query: high\n")

	cfg, err := NewLoaderWithPaths([]string{high, low}).LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "high", cfg.Search.DefaultQuery)
	assert.Equal(t, 3, cfg.Search.Pages, "lower priority values survive when not overridden")
}

func TestLoadConfigWarnsOnBrokenSearchPathFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	writeFile(t, broken, "catalog: [")

	loader := NewLoaderWithPaths([]string{broken})
	var warnings []string
	loader.warn = func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	cfg, err := loader.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], broken)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NASALENS_CATALOG_BASE_URL", "http://127.0.0.1:1234/")
	t.Setenv("NASALENS_CATALOG_TIMEOUT", "2s")
	t.Setenv("NASALENS_CATALOG_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("NASALENS_SEARCH_DEFAULT_QUERY", "andromeda")
	t.Setenv("NASALENS_SEARCH_PAGES", "4")
	t.Setenv("NASALENS_DISPLAY_NO_COLOR", "true")
	t.Setenv("NASALENS_METRICS_LISTEN_ADDR", "localhost:9464")

	cfg := DefaultConfig()
	require.NoError(t, NewLoader().applyEnvOverrides(cfg))

	assert.Equal(t, "http://127.0.0.1:1234/", cfg.Catalog.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Timeout.Std())
	assert.InDelta(t, 0.5, cfg.Catalog.RequestsPerSecond, 0.0001)
	assert.Equal(t, "andromeda", cfg.Search.DefaultQuery)
	assert.Equal(t, 4, cfg.Search.Pages)
	assert.True(t, cfg.Display.NoColor)
	assert.Equal(t, "localhost:9464", cfg.Metrics.ListenAddr)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "NASALENS_CATALOG_BURST", "not-a-number"},
		{"invalid float", "NASALENS_CATALOG_REQUESTS_PER_SECOND", "fast"},
		{"invalid bool", "NASALENS_LOG_VERBOSE", "not-a-bool"},
		{"invalid duration", "NASALENS_CATALOG_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.envVar)
		})
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"valid yaml file", "config.yaml", ""},
		{"valid yml file", "config.yml", ""},
		{"valid toml file", "config.toml", ""},
		{"path traversal attempt", "../../../etc/passwd", "path traversal not allowed"},
		{"wrong extension", "config.txt", "config file must have .yaml, .yml or .toml extension"},
		{"proc access", "/proc/self/config.yaml", "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config/nasalens/config.yaml"), ExpandPath("~/.config/nasalens/config.yaml"))
	assert.Equal(t, "/etc/nasalens/config.yaml", ExpandPath("/etc/nasalens/config.yaml"))
	assert.Equal(t, "relative.yaml", ExpandPath("relative.yaml"))
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	require.Len(t, paths, len(ConfigPaths))
	for _, p := range paths {
		assert.NotContains(t, p, "~")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.yaml")
	writeFile(t, path, "display:\n  theme: default\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- NewLoader().Watch(ctx, path, func(cfg *Config, err error) {
			if err != nil {
				return
			}
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// the watcher may not be registered yet; keep rewriting until it sees a change
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case cfg := <-changes:
			// a truncated file can be observed mid-write
			if cfg.Display.Theme != "minimal" {
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			writeFile(t, path, "display:\n  theme: minimal\n")
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
