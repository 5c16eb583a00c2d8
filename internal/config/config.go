package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yildizm/NasaLens/internal/catalog"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" toml:"version" json:"version"`
	Catalog CatalogConfig `yaml:"catalog" toml:"catalog" json:"catalog"`
	Search  SearchConfig  `yaml:"search" toml:"search" json:"search"`
	Display DisplayConfig `yaml:"display" toml:"display" json:"display"`
	Log     LogConfig     `yaml:"log" toml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics" json:"metrics"`
}

// CatalogConfig configures the image catalog client
type CatalogConfig struct {
	BaseURL           string   `yaml:"base_url" toml:"base_url" json:"base_url" validate:"required,url"`
	MediaType         string   `yaml:"media_type" toml:"media_type" json:"media_type" validate:"required,oneof=image video audio"`
	Timeout           Duration `yaml:"timeout" toml:"timeout" json:"timeout" validate:"gte=0"`
	RequestsPerSecond float64  `yaml:"requests_per_second" toml:"requests_per_second" json:"requests_per_second" validate:"gte=0"`
	Burst             int      `yaml:"burst" toml:"burst" json:"burst" validate:"gte=0"`
	UserAgent         string   `yaml:"user_agent" toml:"user_agent" json:"user_agent"`
}

// SearchConfig configures the search pipeline
type SearchConfig struct {
	DefaultQuery string `yaml:"default_query" toml:"default_query" json:"default_query" validate:"required"`
	IntentBuffer int    `yaml:"intent_buffer" toml:"intent_buffer" json:"intent_buffer" validate:"gte=1,lte=4096"`
	Pages        int    `yaml:"pages" toml:"pages" json:"pages" validate:"gte=1,lte=100"` // pages fetched by headless search
}

// DisplayConfig configures rendering
type DisplayConfig struct {
	Theme        string `yaml:"theme" toml:"theme" json:"theme"`
	Language     string `yaml:"language" toml:"language" json:"language"`    // empty: derived from LANG
	TimeZone     string `yaml:"time_zone" toml:"time_zone" json:"time_zone"` // empty: local zone
	DateLayout   string `yaml:"date_layout" toml:"date_layout" json:"date_layout"`
	OutputFormat string `yaml:"output_format" toml:"output_format" json:"output_format"` // text|json|csv|markdown
	NoColor      bool   `yaml:"no_color" toml:"no_color" json:"no_color"`
	NoEmoji      bool   `yaml:"no_emoji" toml:"no_emoji" json:"no_emoji"`
}

// LogConfig configures the log sink
type LogConfig struct {
	File    string `yaml:"file" toml:"file" json:"file"`
	Verbose bool   `yaml:"verbose" toml:"verbose" json:"verbose"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr" json:"listen_addr" validate:"omitempty,hostname_port"` // empty disables
}

// Duration is a time.Duration written as "30s" in every config format
type Duration time.Duration

// Std converts to time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// Themes that Display.Theme accepts
var Themes = []string{"default", "high-contrast", "minimal", "mono"}

// OutputFormats that Display.OutputFormat accepts
var OutputFormats = []string{"text", "json", "csv", "markdown"}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			BaseURL:           catalog.DefaultBaseURL,
			MediaType:         "image",
			Timeout:           Duration(30 * time.Second),
			RequestsPerSecond: 5,
			Burst:             2,
			UserAgent:         "nasalens",
		},
		Search: SearchConfig{
			DefaultQuery: "earth",
			IntentBuffer: 64,
			Pages:        1,
		},
		Display: DisplayConfig{
			Theme:        "default",
			DateLayout:   "January 02, 2006",
			OutputFormat: "text",
		},
		Log: LogConfig{
			File: "~/.cache/nasalens/nasalens.log",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return describeValidationError(err)
	}
	if err := c.validateDisplayConfig(); err != nil {
		return err
	}
	if err := c.validateCatalogConfig(); err != nil {
		return err
	}
	return nil
}

// validateDisplayConfig validates display-related configuration
func (c *Config) validateDisplayConfig() error {
	if c.Display.Theme != "" && !contains(Themes, c.Display.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of: %s)", c.Display.Theme, strings.Join(Themes, ", "))
	}
	if c.Display.OutputFormat != "" && !contains(OutputFormats, c.Display.OutputFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Display.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.Display.TimeZone != "" {
		if _, err := time.LoadLocation(c.Display.TimeZone); err != nil {
			return fmt.Errorf("invalid time zone: %s", c.Display.TimeZone)
		}
	}
	return nil
}

// validateCatalogConfig validates cross-field catalog settings
func (c *Config) validateCatalogConfig() error {
	if c.Catalog.RequestsPerSecond > 0 && c.Catalog.Burst < 1 {
		return fmt.Errorf("catalog burst must be at least 1 when requests_per_second is set")
	}
	return nil
}

// Location resolves Display.TimeZone
func (c *Config) Location() *time.Location {
	if c.Display.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CatalogClientConfig converts the catalog section for catalog.New
func (c *Config) CatalogClientConfig() *catalog.Config {
	return &catalog.Config{
		BaseURL:           c.Catalog.BaseURL,
		MediaType:         c.Catalog.MediaType,
		Timeout:           c.Catalog.Timeout.Std(),
		RequestsPerSecond: c.Catalog.RequestsPerSecond,
		Burst:             c.Catalog.Burst,
		UserAgent:         c.Catalog.UserAgent,
	}
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %v)", field, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
