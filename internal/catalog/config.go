package catalog

import (
	"net/url"
	"time"
)

// DefaultBaseURL is the public NASA Image and Video Library API
const DefaultBaseURL = "https://images-api.nasa.gov/"

// Config holds catalog client settings
type Config struct {
	// BaseURL is the API root; /search is appended to it
	BaseURL string `json:"base_url"`

	// MediaType restricts results, the library also serves video and audio
	MediaType string `json:"media_type"`

	// Timeout for one HTTP request, zero means none
	Timeout time.Duration `json:"timeout"`

	// RequestsPerSecond paces outgoing requests, zero disables pacing
	RequestsPerSecond float64 `json:"requests_per_second"`

	// Burst is the number of requests allowed at once when paced
	Burst int `json:"burst"`

	// UserAgent sent with every request
	UserAgent string `json:"user_agent"`
}

// DefaultConfig returns the settings for the public API
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		MediaType:         "image",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
		UserAgent:         "nasalens",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewError(ErrTypeConfiguration, "base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return NewErrorWithCause(ErrTypeConfiguration, "invalid base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewError(ErrTypeConfiguration, "base URL must use http or https")
	}
	if c.MediaType == "" {
		return NewError(ErrTypeConfiguration, "media type is required")
	}
	if c.Timeout < 0 {
		return NewError(ErrTypeConfiguration, "timeout must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return NewError(ErrTypeConfiguration, "requests per second must not be negative")
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return NewError(ErrTypeConfiguration, "burst must be at least 1 when pacing is enabled")
	}
	return nil
}
