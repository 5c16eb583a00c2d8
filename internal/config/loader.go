package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.nasalens.yaml",               // Project-specific config (highest priority)
	"./.nasalens.toml",               // Project-specific config, TOML
	"~/.config/nasalens/config.yaml", // User config
	"~/.config/nasalens/config.toml", // User config, TOML
	"/etc/nasalens/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "NASALENS_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return NewLoaderWithPaths(ConfigPaths)
}

// NewLoaderWithPaths creates a loader searching paths, highest priority first
func NewLoaderWithPaths(paths []string) *Loader {
	return &Loader{
		configPaths: paths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.nasalens.yaml, ./.nasalens.toml
// 4. ~/.config/nasalens/config.yaml, ~/.config/nasalens/config.toml
// 5. /etc/nasalens/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	// If custom path is provided, use only that path
	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so higher ones overwrite
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := ExpandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes a YAML or TOML file and merges it into config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fileConfig, err := Decode(data, formatOf(path))
	if err != nil {
		return err
	}

	mergeConfigs(config, fileConfig)
	return nil
}

// Format is a config file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Decode parses data without defaults or validation
func Decode(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return &cfg, nil
}

// Encode renders cfg in format
func Encode(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		return data, nil
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		return data, nil
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Catalog Config
		"NASALENS_CATALOG_BASE_URL":            func(v string) error { config.Catalog.BaseURL = v; return nil },
		"NASALENS_CATALOG_MEDIA_TYPE":          func(v string) error { config.Catalog.MediaType = v; return nil },
		"NASALENS_CATALOG_TIMEOUT":             func(v string) error { return parseDuration(v, &config.Catalog.Timeout) },
		"NASALENS_CATALOG_REQUESTS_PER_SECOND": func(v string) error { return parseFloat(v, &config.Catalog.RequestsPerSecond) },
		"NASALENS_CATALOG_BURST":               func(v string) error { return parseInt(v, &config.Catalog.Burst) },
		"NASALENS_CATALOG_USER_AGENT":          func(v string) error { config.Catalog.UserAgent = v; return nil },

		// Search Config
		"NASALENS_SEARCH_DEFAULT_QUERY": func(v string) error { config.Search.DefaultQuery = v; return nil },
		"NASALENS_SEARCH_INTENT_BUFFER": func(v string) error { return parseInt(v, &config.Search.IntentBuffer) },
		"NASALENS_SEARCH_PAGES":         func(v string) error { return parseInt(v, &config.Search.Pages) },

		// Display Config
		"NASALENS_DISPLAY_THEME":         func(v string) error { config.Display.Theme = v; return nil },
		"NASALENS_DISPLAY_LANGUAGE":      func(v string) error { config.Display.Language = v; return nil },
		"NASALENS_DISPLAY_TIME_ZONE":     func(v string) error { config.Display.TimeZone = v; return nil },
		"NASALENS_DISPLAY_DATE_LAYOUT":   func(v string) error { config.Display.DateLayout = v; return nil },
		"NASALENS_DISPLAY_OUTPUT_FORMAT": func(v string) error { config.Display.OutputFormat = v; return nil },
		"NASALENS_DISPLAY_NO_COLOR":      func(v string) error { return parseBool(v, &config.Display.NoColor) },
		"NASALENS_DISPLAY_NO_EMOJI":      func(v string) error { return parseBool(v, &config.Display.NoEmoji) },

		// Log Config
		"NASALENS_LOG_FILE":    func(v string) error { config.Log.File = v; return nil },
		"NASALENS_LOG_VERBOSE": func(v string) error { return parseBool(v, &config.Log.Verbose) },

		// Metrics Config
		"NASALENS_METRICS_LISTEN_ADDR": func(v string) error { config.Metrics.ListenAddr = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, ExpandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := ExpandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" && ext != ".toml" {
		return fmt.Errorf("config file must have .yaml, .yml or .toml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination; booleans can only
// be switched on by a file.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeCatalogConfig(&dst.Catalog, &src.Catalog)
	mergeSearchConfig(&dst.Search, &src.Search)
	mergeDisplayConfig(&dst.Display, &src.Display)

	if src.Log.File != "" {
		dst.Log.File = src.Log.File
	}
	dst.Log.Verbose = dst.Log.Verbose || src.Log.Verbose

	if src.Metrics.ListenAddr != "" {
		dst.Metrics.ListenAddr = src.Metrics.ListenAddr
	}
}

func mergeCatalogConfig(dst, src *CatalogConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.MediaType != "" {
		dst.MediaType = src.MediaType
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.RequestsPerSecond != 0 {
		dst.RequestsPerSecond = src.RequestsPerSecond
	}
	if src.Burst != 0 {
		dst.Burst = src.Burst
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

func mergeSearchConfig(dst, src *SearchConfig) {
	if src.DefaultQuery != "" {
		dst.DefaultQuery = src.DefaultQuery
	}
	if src.IntentBuffer != 0 {
		dst.IntentBuffer = src.IntentBuffer
	}
	if src.Pages != 0 {
		dst.Pages = src.Pages
	}
}

func mergeDisplayConfig(dst, src *DisplayConfig) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	if src.TimeZone != "" {
		dst.TimeZone = src.TimeZone
	}
	if src.DateLayout != "" {
		dst.DateLayout = src.DateLayout
	}
	if src.OutputFormat != "" {
		dst.OutputFormat = src.OutputFormat
	}
	dst.NoColor = dst.NoColor || src.NoColor
	dst.NoEmoji = dst.NoEmoji || src.NoEmoji
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = Duration(val)
	return nil
}
