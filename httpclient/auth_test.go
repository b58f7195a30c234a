package httpclient

import (
	"net/http"
	"testing"
)

func TestAuthConfig_Apply(t *testing.T) {
	tests := []struct {
		name   string
		auth   *AuthConfig
		header string
		want   string
	}{
		{"bearer", BearerAuth("r8_token"), "Authorization", "Bearer r8_token"},
		{"api key default header", APIKeyAuth("k", ""), "X-API-Key", "k"},
		{"api key custom header", APIKeyAuth("k", "X-Token"), "X-Token", "k"},
		{"nil", nil, "Authorization", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			tt.auth.apply(req)
			if got := req.Header.Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
