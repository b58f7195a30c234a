package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, cfg Config) *Service[*Claims] {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = testSecret
	}
	svc, err := NewService(&cfg, NewClaims)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGenerateAndParse(t *testing.T) {
	svc := newTestService(t, Config{Issuer: "aligner", Audience: []string{"align-api"}})
	token, err := svc.Generate(&Claims{Client: "transcriber"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Client != "transcriber" || claims.Issuer != "aligner" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) != time.Hour {
		t.Errorf("expected a 1h lifetime, got iat=%v exp=%v", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestParse_Rejects(t *testing.T) {
	svc := newTestService(t, Config{Issuer: "aligner"})

	expired := newTestService(t, Config{Issuer: "aligner"})
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expired.Generate(&Claims{})

	otherIssuer := newTestService(t, Config{Issuer: "someone-else"})
	otherIssuerToken, _ := otherIssuer.Generate(&Claims{})

	otherKey := newTestService(t, Config{Issuer: "aligner", Secret: strings.Repeat("x", 32)})
	otherKeyToken, _ := otherKey.Generate(&Claims{})

	noExp, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "aligner"},
	}).SignedString([]byte(testSecret))

	hs512 := newTestService(t, Config{Issuer: "aligner", Method: HS512})
	hs512Token, _ := hs512.Generate(&Claims{})

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expiredToken},
		{"wrong issuer", otherIssuerToken},
		{"wrong key", otherKeyToken},
		{"no expiry", noExp},
		{"other algorithm", hs512Token},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Parse(tt.token); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: testSecret, Method: HS384}, false},
		{"short secret", Config{Secret: "short", Method: HS256}, true},
		{"rsa not supported", Config{Secret: testSecret, Method: "RS256"}, true},
		{"negative ttl", Config{Secret: testSecret, Method: HS256, AccessTokenTTL: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatorFunc(t *testing.T) {
	svc := newTestService(t, Config{})
	token, _ := svc.Generate(&Claims{Client: "ui"})
	got, err := svc.ValidatorFunc()(token)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	if c, ok := got.(*Claims); !ok || c.Client != "ui" {
		t.Errorf("unexpected claims %#v", got)
	}
}
