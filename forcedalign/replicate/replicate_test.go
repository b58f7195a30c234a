package replicate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/logger"
)

const whisperXOutput = `{"detected_language":"en","segments":[{"start":0.1,"end":0.9,"words":[
	{"word":"hello","start":0.1,"end":0.4,"score":0.95},
	{"word":"world","start":0.5,"end":0.9,"score":0.9}]}]}`

// fakeReplicate serves a scripted sequence of prediction states.
type fakeReplicate struct {
	mu        sync.Mutex
	states    []string
	output    string
	polls     int
	cancelled bool
	created   map[string]any
	headers   http.Header
	createURL string
}

func (f *fakeReplicate) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
			f.cancelled = true
			_, _ = w.Write([]byte(`{"id":"p1","status":"canceled"}`))
		case r.Method == http.MethodPost:
			f.createURL = r.URL.Path
			f.headers = r.Header.Clone()
			if err := json.NewDecoder(r.Body).Decode(&f.created); err != nil {
				t.Errorf("decode create body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(f.state(0))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/predictions/p1":
			f.polls++
			_, _ = w.Write(f.state(f.polls))
		case r.Method == http.MethodGet && r.URL.Path == "/files/output.json":
			_, _ = w.Write([]byte(whisperXOutput))
		default:
			http.NotFound(w, r)
		}
	}
}

func (f *fakeReplicate) state(i int) []byte {
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	pred := map[string]any{"id": "p1", "status": f.states[i]}
	switch f.states[i] {
	case statusSucceeded:
		pred["output"] = json.RawMessage(f.output)
	case statusFailed:
		pred["error"] = "CUDA out of memory"
	}
	data, _ := json.Marshal(pred)
	return data
}

func newTestProvider(t *testing.T, fake *fakeReplicate, cfg Config) *Provider {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	if cfg.APIToken == "" {
		cfg.APIToken = "r8_test"
	}
	cfg.PollInterval = 5 * time.Millisecond
	p, err := New(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestExecute_SucceedsInCreateCall(t *testing.T) {
	fake := &fakeReplicate{states: []string{statusSucceeded}, output: whisperXOutput}
	p := newTestProvider(t, fake, Config{})

	resp, err := p.Execute(context.Background(), forcedalign.Request{Audio: []byte("RIFF....WAVEfmt "), Language: "en"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Words) != 2 || resp.Words[1].Text != "world" || resp.Words[1].EndMs != 900 {
		t.Errorf("unexpected words %+v", resp.Words)
	}
	if resp.Language != "en" {
		t.Errorf("language = %q", resp.Language)
	}

	if fake.createURL != "/v1/models/victor-upmeet/whisperx/predictions" {
		t.Errorf("create path = %q", fake.createURL)
	}
	if got := fake.headers.Get("Prefer"); got != "wait" {
		t.Errorf("Prefer = %q", got)
	}
	if got := fake.headers.Get("Authorization"); got != "Bearer r8_test" {
		t.Errorf("Authorization = %q", got)
	}
	input, _ := fake.created["input"].(map[string]any)
	if input["language"] != "en" || input["align_output"] != true {
		t.Errorf("unexpected input %v", input)
	}
	if uri, _ := input["audio_file"].(string); !strings.HasPrefix(uri, "data:") {
		t.Errorf("audio_file should be a data URI, got %.20q", uri)
	}
	if fake.polls != 0 {
		t.Errorf("expected no polling, got %d polls", fake.polls)
	}
}

func TestExecute_PollsUntilTerminal(t *testing.T) {
	fake := &fakeReplicate{
		states: []string{statusStarting, statusProcessing, statusSucceeded},
	}
	p := newTestProvider(t, fake, Config{Version: "abc123"})
	fake.output = `"` + p.cfg.BaseURL + `/files/output.json"`

	resp, err := p.Execute(context.Background(), forcedalign.Request{Audio: []byte("x")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Words) != 2 {
		t.Errorf("expected 2 words from the output file, got %+v", resp.Words)
	}
	if fake.polls != 2 {
		t.Errorf("polls = %d, want 2", fake.polls)
	}
	if fake.createURL != "/v1/predictions" || fake.created["version"] != "abc123" {
		t.Errorf("pinned version should use /v1/predictions, got %q %v", fake.createURL, fake.created["version"])
	}
}

func TestExecute_FailedPrediction(t *testing.T) {
	fake := &fakeReplicate{states: []string{statusProcessing, statusFailed}}
	p := newTestProvider(t, fake, Config{})

	_, err := p.Execute(context.Background(), forcedalign.Request{Audio: []byte("x")})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProviderFailure {
		t.Fatalf("expected ProviderFailure, got %v", err)
	}
	if !strings.Contains(appErr.Cause.Error(), "CUDA out of memory") {
		t.Errorf("cause should carry the prediction error, got %v", appErr.Cause)
	}
	if appErr.Details["prediction_id"] != "p1" {
		t.Errorf("details = %v", appErr.Details)
	}
	if appErr.Retryable {
		t.Error("a failed prediction must not be retried")
	}
}

func TestExecute_OutputURLOnOtherHostGetsNoToken(t *testing.T) {
	var gotAuth atomic.Value
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(whisperXOutput))
	}))
	defer files.Close()

	fake := &fakeReplicate{states: []string{statusSucceeded}, output: `"` + files.URL + `/out.json"`}
	p := newTestProvider(t, fake, Config{APIToken: "r8_secret"})

	resp, err := p.Execute(context.Background(), forcedalign.Request{Audio: []byte("x")})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(resp.Words) != 2 {
		t.Errorf("expected 2 words, got %+v", resp.Words)
	}
	if got := gotAuth.Load(); got != "" {
		t.Errorf("output host received Authorization %q", got)
	}
	if got := fake.headers.Get("Authorization"); got != "Bearer r8_secret" {
		t.Errorf("API Authorization = %q", got)
	}
}

func TestOutput_RejectsPlainHTTPForHTTPSAPI(t *testing.T) {
	p, err := New(Config{APIToken: "t"}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.output(context.Background(), json.RawMessage(`"http://files.example.com/out.json"`))
	if err == nil || !strings.Contains(err.Error(), "plain http") {
		t.Fatalf("expected plain http output url to be refused, got %v", err)
	}
	if got, err := p.output(context.Background(), json.RawMessage(`{"segments":[]}`)); err != nil || string(got) != `{"segments":[]}` {
		t.Errorf("inline output = %s, %v", got, err)
	}
}

func TestExecute_ContextCancelCancelsPrediction(t *testing.T) {
	fake := &fakeReplicate{states: []string{statusProcessing}}
	p := newTestProvider(t, fake, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := p.Execute(ctx, forcedalign.Request{Audio: []byte("x")})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusGatewayTimeout {
		t.Fatalf("expected ProviderTimeout, got %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !fake.cancelled {
		t.Error("prediction should have been cancelled")
	}
}

func TestExecute_MissingToken(t *testing.T) {
	p, err := New(Config{}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.IsAvailable(context.Background()) {
		t.Error("provider without token must not be available")
	}
	_, err = p.Execute(context.Background(), forcedalign.Request{Audio: []byte("x")})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeNotConfigured {
		t.Fatalf("expected NotConfigured, got %v", err)
	}
}

func TestExecute_HTTPErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
		wantReason    any
	}{
		{"unauthorized", http.StatusUnauthorized, false, "unauthorized"},
		{"unprocessable", http.StatusUnprocessableEntity, false, nil},
		{"rate limited", http.StatusTooManyRequests, true, nil},
		{"server error", http.StatusInternalServerError, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			}))
			defer srv.Close()

			p, err := New(Config{APIToken: "t", BaseURL: srv.URL}, WithLogger(logger.Nop()))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = p.Execute(context.Background(), forcedalign.Request{Audio: []byte("x")})
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeProviderFailure {
				t.Fatalf("expected ProviderFailure, got %v", err)
			}
			if appErr.Retryable != tt.wantRetryable {
				t.Errorf("retryable = %v, want %v", appErr.Retryable, tt.wantRetryable)
			}
			if appErr.Details["upstream_status"] != tt.status {
				t.Errorf("upstream_status = %v", appErr.Details["upstream_status"])
			}
			if appErr.Details["reason"] != tt.wantReason {
				t.Errorf("reason = %v, want %v", appErr.Details["reason"], tt.wantReason)
			}
		})
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory(WithLogger(logger.Nop()))(map[string]any{
		"api_token":     "tok",
		"model":         "owner/whisperx",
		"poll_interval": "250ms",
		"batch_size":    "16",
	})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	rp := p.(*Provider)
	if rp.cfg.PollInterval != 250*time.Millisecond || rp.cfg.BatchSize != 16 || rp.cfg.Model != "owner/whisperx" {
		t.Errorf("unexpected config %+v", rp.cfg)
	}
	if rp.cfg.BaseURL != defaultBaseURL {
		t.Errorf("defaults not applied: %+v", rp.cfg)
	}

	if _, err := Factory()(map[string]any{"base_url": "::not a url"}); err == nil {
		t.Error("expected invalid base_url to fail")
	}
}
