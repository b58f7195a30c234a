package main

import (
	"fmt"
	"time"

	"github.com/kbukum/aligner/alignment"
	"github.com/kbukum/aligner/auth"
	"github.com/kbukum/aligner/config"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/forcedalign/replicate"
	"github.com/kbukum/aligner/forcedalign/whisperx"
	"github.com/kbukum/aligner/observability"
	"github.com/kbukum/aligner/redis"
	"github.com/kbukum/aligner/resilience"
	"github.com/kbukum/aligner/server"
	"github.com/kbukum/aligner/version"
)

const serviceName = "alignment-service"

const defaultProviderTimeout = 10 * time.Minute

// envAliases keeps the environment contract of earlier deployments.
var envAliases = map[string]string{
	"PORT":                 "server.port",
	replicate.TokenSetting: "provider.replicate.api_token",
}

// AppConfig is the configuration of the alignment service.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Alignment     alignment.Policy     `yaml:"alignment" mapstructure:"alignment"`
	Provider      ProviderConfig       `yaml:"provider" mapstructure:"provider"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ProviderConfig selects and configures the forced-alignment backend.
// Provider sections stay raw; each factory decodes its own.
type ProviderConfig struct {
	Name       string                  `yaml:"name" mapstructure:"name"`
	Timeout    time.Duration           `yaml:"timeout" mapstructure:"timeout"`
	Replicate  map[string]any          `yaml:"replicate" mapstructure:"replicate"`
	WhisperX   map[string]any          `yaml:"whisperx" mapstructure:"whisperx"`
	Cache      forcedalign.CacheConfig `yaml:"cache" mapstructure:"cache"`
	Resilience resilience.Config       `yaml:"resilience" mapstructure:"resilience"`
}

// Section returns the raw configuration of the selected provider.
func (p ProviderConfig) Section() map[string]any {
	switch p.Name {
	case replicate.ProviderName:
		return p.Replicate
	case whisperx.ProviderName:
		return p.WhisperX
	default:
		return nil
	}
}

// defaultConfig returns the values a missing key falls back to. Thresholds
// are seeded here because zero is a valid setting for them.
func defaultConfig() AppConfig {
	return AppConfig{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		Alignment:     alignment.DefaultPolicy(),
		Provider: ProviderConfig{
			Name:       replicate.ProviderName,
			Resilience: resilience.DefaultConfig(),
		},
	}
}

// ApplyDefaults fills unset fields of every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.Server.ApplyDefaults()
	c.Alignment.ApplyDefaults()
	if c.Provider.Name == "" {
		c.Provider.Name = replicate.ProviderName
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = defaultProviderTimeout
	}
	c.Provider.Cache.ApplyDefaults()
	c.Provider.Resilience.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Alignment.Validate(); err != nil {
		return err
	}
	if c.Provider.Name != replicate.ProviderName && c.Provider.Name != whisperx.ProviderName {
		return fmt.Errorf("provider.name must be %q or %q (got: %q)", replicate.ProviderName, whisperx.ProviderName, c.Provider.Name)
	}
	if err := c.Provider.Resilience.Validate(); err != nil {
		return fmt.Errorf("provider.%w", err)
	}
	if c.Provider.Cache.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("provider.cache.enabled requires redis.enabled")
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
