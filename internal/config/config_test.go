package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "https://images-api.nasa.gov/", cfg.Catalog.BaseURL)
	assert.Equal(t, "image", cfg.Catalog.MediaType)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout.Std())
	assert.Equal(t, "earth", cfg.Search.DefaultQuery)
	assert.Equal(t, 64, cfg.Search.IntentBuffer)
	assert.Equal(t, "default", cfg.Display.Theme)
	assert.Equal(t, "text", cfg.Display.OutputFormat)
	assert.Empty(t, cfg.Metrics.ListenAddr)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "invalid theme",
			mutate: func(c *Config) { c.Display.Theme = "neon" },
			errMsg: "invalid theme: neon (must be one of: default, high-contrast, minimal, mono)",
		},
		{
			name:   "invalid output format",
			mutate: func(c *Config) { c.Display.OutputFormat = "xml" },
			errMsg: "invalid output format: xml (must be one of: text, json, csv, markdown)",
		},
		{
			name:   "invalid time zone",
			mutate: func(c *Config) { c.Display.TimeZone = "Mars/Olympus_Mons" },
			errMsg: "invalid time zone: Mars/Olympus_Mons",
		},
		{
			name:   "missing base url",
			mutate: func(c *Config) { c.Catalog.BaseURL = "" },
			errMsg: "catalog.baseurl: failed required",
		},
		{
			name:   "base url not a url",
			mutate: func(c *Config) { c.Catalog.BaseURL = "images api" },
			errMsg: "catalog.baseurl: failed url",
		},
		{
			name:   "unknown media type",
			mutate: func(c *Config) { c.Catalog.MediaType = "hologram" },
			errMsg: "catalog.mediatype: failed oneof=image video audio",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.Catalog.Timeout = Duration(-time.Second) },
			errMsg: "catalog.timeout: failed gte=0",
		},
		{
			name:   "zero intent buffer",
			mutate: func(c *Config) { c.Search.IntentBuffer = 0 },
			errMsg: "search.intentbuffer: failed gte=1",
		},
		{
			name:   "empty default query",
			mutate: func(c *Config) { c.Search.DefaultQuery = "" },
			errMsg: "search.defaultquery: failed required",
		},
		{
			name:   "burst required when pacing",
			mutate: func(c *Config) { c.Catalog.Burst = 0 },
			errMsg: "catalog burst must be at least 1",
		},
		{
			name:   "bad metrics address",
			mutate: func(c *Config) { c.Metrics.ListenAddr = "not an address" },
			errMsg: "metrics.listenaddr: failed hostname_port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Display.TimeZone = "Europe/Istanbul"
	assert.Equal(t, "Europe/Istanbul", cfg.Location().String())
}

func TestCatalogClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Catalog.Timeout = Duration(5 * time.Second)

	cc := cfg.CatalogClientConfig()

	assert.Equal(t, cfg.Catalog.BaseURL, cc.BaseURL)
	assert.Equal(t, 5*time.Second, cc.Timeout)
	assert.Equal(t, 2, cc.Burst)
	require.NoError(t, cc.Validate())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 1m30s ")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestConfigMerging(t *testing.T) {
	dst := DefaultConfig()
	src := &Config{
		Catalog: CatalogConfig{BaseURL: "http://localhost:8080/", Burst: 9},
		Search:  SearchConfig{DefaultQuery: "apollo"},
		Display: DisplayConfig{NoEmoji: true},
		Log:     LogConfig{Verbose: true},
	}

	mergeConfigs(dst, src)

	assert.Equal(t, "http://localhost:8080/", dst.Catalog.BaseURL)
	assert.Equal(t, 9, dst.Catalog.Burst)
	assert.Equal(t, "image", dst.Catalog.MediaType, "unset fields keep defaults")
	assert.Equal(t, "apollo", dst.Search.DefaultQuery)
	assert.Equal(t, 64, dst.Search.IntentBuffer)
	assert.True(t, dst.Display.NoEmoji)
	assert.False(t, dst.Display.NoColor)
	assert.True(t, dst.Log.Verbose)

	mergeConfigs(dst, &Config{})
	assert.True(t, dst.Display.NoEmoji, "a file without the key does not reset booleans")
}

func TestSampleConfigsLoad(t *testing.T) {
	for name, sample := range map[string]string{"full": SampleConfig(), "minimal": MinimalSampleConfig()} {
		t.Run(name, func(t *testing.T) {
			parsed, err := Decode([]byte(sample), FormatYAML)
			require.NoError(t, err)

			cfg := DefaultConfig()
			mergeConfigs(cfg, parsed)
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, "earth", cfg.Search.DefaultQuery)
		})
	}
}

func TestEncodeDecodeFormats(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			want := DefaultConfig()
			want.Catalog.Timeout = Duration(45 * time.Second)
			want.Display.Language = "tr"

			data, err := Encode(want, format)
			require.NoError(t, err)
			assert.Contains(t, string(data), "45s")

			got, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
