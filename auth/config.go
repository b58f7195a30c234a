package auth

import (
	"errors"
	"fmt"

	"github.com/kbukum/aligner/auth/jwt"
)

// Config controls API authentication. It is disabled by default so the
// service keeps the open contract of earlier deployments.
type Config struct {
	Enabled bool       `yaml:"enabled" mapstructure:"enabled"`
	JWT     jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a one-line summary for startup logs.
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("JWT(%s) issuer=%q", c.JWT.Method, c.JWT.Issuer)
}

// NewValidator builds the validator for an enabled config.
func (c *Config) NewValidator() (TokenValidator, error) {
	if !c.Enabled {
		return nil, errors.New("auth: disabled")
	}
	svc, err := jwt.NewService(&c.JWT, jwt.NewClaims)
	if err != nil {
		return nil, err
	}
	return TokenValidatorFunc(svc.ValidatorFunc()), nil
}
