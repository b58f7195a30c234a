package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/aligner/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rr.Body)
	}
	return rr.Code, body
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, len(statuses))
		for i, s := range statuses {
			out[i] = component.Health{Name: string(s), Status: s}
		}
		return out
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checker", nil, http.StatusOK, StatusOK},
		{"all healthy", checker(component.StatusHealthy, component.StatusHealthy), http.StatusOK, StatusOK},
		{"cache degraded", checker(component.StatusHealthy, component.StatusDegraded), http.StatusOK, StatusDegraded},
		{"server down", checker(component.StatusDegraded, component.StatusUnhealthy), http.StatusServiceUnavailable, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, Health(Config{ServiceName: "aligner", Checker: tt.checker}))
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestHealth_Extras(t *testing.T) {
	cfg := Config{
		ServiceName: "aligner",
		Extras: []HealthExtra{
			func(context.Context) (string, any) { return "replicate_configured", false },
		},
	}
	_, body := serve(t, Health(cfg))
	if v, ok := body["replicate_configured"]; !ok || v != false {
		t.Errorf("replicate_configured = %v (present=%v)", v, ok)
	}
}

func TestReadiness(t *testing.T) {
	code, body := serve(t, Readiness("aligner", checker(component.StatusDegraded)))
	if code != http.StatusOK || body["status"] != "ready" {
		t.Errorf("degraded: code=%d status=%v", code, body["status"])
	}

	code, body = serve(t, Readiness("aligner", checker(component.StatusUnhealthy)))
	if code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
		t.Errorf("unhealthy: code=%d status=%v", code, body["status"])
	}
}

func TestLivenessAndInfo(t *testing.T) {
	code, body := serve(t, Liveness("aligner"))
	if code != http.StatusOK || body["status"] != "alive" || body["service"] != "aligner" {
		t.Errorf("liveness: code=%d body=%v", code, body)
	}
	if started, _ := body["started_at"].(string); started != startTime.UTC().Format(time.RFC3339) {
		t.Errorf("started_at = %v", body["started_at"])
	}

	r := gin.New()
	r.GET("/alive", Liveness("aligner"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/alive", http.NoBody))
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}

	code, body = serve(t, Info("aligner"))
	if code != http.StatusOK || body["build"] == nil || body["uptime"] == nil {
		t.Errorf("info: code=%d body=%v", code, body)
	}
}

func TestMetrics(t *testing.T) {
	stats := map[string]StatsFunc{
		"alignment": func() any { return map[string]int{"requests": 3} },
	}
	code, body := serve(t, Metrics(stats))
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	alignment, ok := body["alignment"].(map[string]any)
	if !ok || alignment["requests"] != float64(3) {
		t.Errorf("alignment = %v", body["alignment"])
	}
	if _, ok := body["memory"]; !ok {
		t.Error("memory section missing")
	}
}
