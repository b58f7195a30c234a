package logger

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// ApplyEnv lets LOG_LEVEL override the configured level and DEBUG=1|true|yes
// force debug logging.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Level = strings.ToLower(v)
	}
	if IsDebugEnv(os.Getenv("DEBUG")) {
		c.Level = "debug"
	}
}

// IsDebugEnv reports whether a DEBUG environment value enables debug mode.
func IsDebugEnv(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", BooleanTrue, "yes":
		return true
	}
	return false
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	if !slices.Contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console", FormatPretty}
	if !slices.Contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}
