package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// minSecretLen is the shortest accepted HMAC secret, in bytes.
const minSecretLen = 32

// Config configures the token service.
type Config struct {
	// Secret is the shared HMAC key.
	Secret string        `yaml:"secret" mapstructure:"secret"`
	Method SigningMethod `yaml:"method" mapstructure:"method"`
	// Issuer and Audience are checked on parse and set on generate when
	// non-empty.
	Issuer   string   `yaml:"issuer" mapstructure:"issuer"`
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// AccessTokenTTL is the lifetime of generated tokens.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl"`
	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.signingMethod() == nil {
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	if len(c.Secret) < minSecretLen {
		return errors.New("jwt: secret must be at least 32 bytes")
	}
	if c.AccessTokenTTL < 0 {
		return errors.New("jwt: access_token_ttl must not be negative")
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS256:
		return gojwt.SigningMethodHS256
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	}
	return nil
}
