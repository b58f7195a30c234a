package replicate

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/security"
)

const (
	defaultBaseURL      = "https://api.replicate.com"
	defaultModel        = "victor-upmeet/whisperx"
	defaultPollInterval = time.Second
	defaultHTTPTimeout  = 2 * time.Minute
	defaultBatchSize    = 64
)

// Config configures the Replicate WhisperX provider.
type Config struct {
	// APIToken authenticates against the Replicate API. Without it the
	// provider reports itself unavailable.
	APIToken string `yaml:"api_token" mapstructure:"api_token"`
	// Model is "<owner>/<name>" of a WhisperX deployment.
	Model string `yaml:"model" mapstructure:"model"`
	// Version pins a model version. When set, predictions are created via
	// /v1/predictions instead of the model endpoint.
	Version      string        `yaml:"version" mapstructure:"version"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	// HTTPTimeout bounds each individual API request.
	HTTPTimeout time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	BatchSize   int           `yaml:"batch_size" mapstructure:"batch_size"`
	// TLS is for self-hosted Cog deployments behind a private CA.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
}

// Validate checks the configuration. A missing token is not an error here;
// it surfaces as NotConfigured when a call is made.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("replicate: invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.Version == "" && c.Model == "" {
		return fmt.Errorf("replicate: model or version is required")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("replicate: %w", err)
	}
	return nil
}

// DecodeConfig reads a Config from a raw provider configuration section.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	if err := forcedalign.DecodeConfig(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("replicate: %w", err)
	}
	return cfg, nil
}
