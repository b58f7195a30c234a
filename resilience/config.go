package resilience

import (
	"fmt"
	"time"
)

// Config holds the resilience settings for one upstream as they appear in
// the service configuration file.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`

	FailureThreshold int           `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`

	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxWait       time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// DefaultConfig returns settings suited to remote inference APIs: a few
// slow retries, a breaker that trips after repeated outages and a small
// concurrency cap.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		MaxAttempts:      3,
		InitialBackoff:   time.Second,
		MaxBackoff:       15 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
		MaxConcurrent:    4,
		MaxWait:          30 * time.Second,
	}
}

// ApplyDefaults fills zero fields from DefaultConfig. Enabled is left alone.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = d.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = d.MaxConcurrent
	}
	if c.MaxWait < 0 {
		c.MaxWait = 0
	}
}

// Validate checks the settings after defaults have been applied.
func (c *Config) Validate() error {
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("resilience: max_backoff %s is shorter than initial_backoff %s", c.MaxBackoff, c.InitialBackoff)
	}
	return nil
}

// RetryConfig converts the settings into a RetryConfig.
func (c Config) RetryConfig() RetryConfig {
	r := DefaultRetryConfig()
	r.MaxAttempts = c.MaxAttempts
	r.InitialBackoff = c.InitialBackoff
	r.MaxBackoff = c.MaxBackoff
	return r
}

// CircuitBreakerConfig converts the settings into a CircuitBreakerConfig.
func (c Config) CircuitBreakerConfig(name string) CircuitBreakerConfig {
	cb := DefaultCircuitBreakerConfig(name)
	cb.MaxFailures = c.FailureThreshold
	cb.Timeout = c.OpenTimeout
	return cb
}

// BulkheadConfig converts the settings into a BulkheadConfig.
func (c Config) BulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{Name: name, MaxConcurrent: c.MaxConcurrent, MaxWait: c.MaxWait}
}
