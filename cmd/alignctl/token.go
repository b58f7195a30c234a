package main

import (
	"fmt"
	"time"

	"github.com/kbukum/aligner/auth/jwt"
)

// TokenCmd issues an HMAC-signed JWT accepted by the service when auth is
// enabled with the same secret, issuer and audience.
type TokenCmd struct {
	Client   string        `arg:"" help:"Client name recorded in the token."`
	Secret   string        `env:"AUTH_JWT_SECRET" required:"" help:"Signing secret, at least 32 bytes."`
	Method   string        `default:"HS256" enum:"HS256,HS384,HS512" help:"Signing method (${enum})."`
	Issuer   string        `env:"AUTH_JWT_ISSUER" default:"alignment-service" help:"Token issuer."`
	Audience []string      `env:"AUTH_JWT_AUDIENCE" help:"Token audience."`
	TTL      time.Duration `default:"24h" help:"Token lifetime."`
}

func (c *TokenCmd) Run(_ *Globals) error {
	svc, err := jwt.NewService(&jwt.Config{
		Secret:         c.Secret,
		Method:         jwt.SigningMethod(c.Method),
		Issuer:         c.Issuer,
		Audience:       c.Audience,
		AccessTokenTTL: c.TTL,
	}, jwt.NewClaims)
	if err != nil {
		return err
	}
	claims := jwt.NewClaims()
	claims.Subject = c.Client
	claims.Client = c.Client
	token, err := svc.Generate(claims)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
