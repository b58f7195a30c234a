// Package jwt provides a JWT token service generic over the claims type.
//
//	svc, err := jwt.NewService(cfg, jwt.NewClaims)
//	token, err := svc.Generate(&jwt.Claims{Client: "transcriber"})
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims identifies an API client.
type Claims struct {
	gojwt.RegisteredClaims
	// Client is a human-readable client name for logs.
	Client string `json:"client,omitempty"`
}

// NewClaims returns empty Claims for parsing.
func NewClaims() *Claims { return &Claims{} }

// SetDefaults fills the registered time, issuer and audience claims that
// are not set yet.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}

// defaultSetter is implemented by claims that accept standard defaults.
type defaultSetter interface {
	SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string)
}

// Service generates and parses tokens with claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// NewService creates a Service. newEmpty returns a zero T for parsing.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service[T]{cfg: *cfg, newEmpty: newEmpty, now: time.Now}, nil
}

// Generate signs claims. Claims implementing SetDefaults get iat, exp, iss
// and aud filled from the config first.
func (s *Service[T]) Generate(claims T) (string, error) {
	if d, ok := any(claims).(defaultSetter); ok {
		d.SetDefaults(s.now(), s.cfg.AccessTokenTTL, s.cfg.Issuer, s.cfg.Audience)
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and the configured issuer and
// audience, and returns the claims.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	token, err := gojwt.ParseWithClaims(tokenString, s.newEmpty(), s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	parsed, ok := token.Claims.(T)
	if !ok || !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	return parsed, nil
}

// ValidatorFunc adapts Parse to a claims-agnostic validator.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		return s.Parse(token)
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.cfg.Leeway))
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
