package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/aligner/resilience"
	"github.com/kbukum/aligner/security"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 32 << 20
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL   string              `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration       `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string              `yaml:"user_agent" mapstructure:"user_agent"`
	Headers   map[string]string   `yaml:"headers" mapstructure:"headers"`
	TLS       *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
	// MaxResponseBytes caps how much of a response body is read. Larger
	// bodies fail with ErrCodeResponseTooLarge.
	MaxResponseBytes int64 `yaml:"max_response_bytes" mapstructure:"max_response_bytes"`

	// Auth is only sent to the BaseURL host. Requests to absolute URLs on
	// other hosts go out without credentials unless Request.Auth is set.

	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
	// Retry re-sends requests that fail with a retryable *Error. Nil disables it.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
			return fmt.Errorf("httpclient: invalid base_url %q: %w", c.BaseURL, err)
		}
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}

// DefaultRetryConfig returns a retry policy that only retries errors this
// package classifies as retryable.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
