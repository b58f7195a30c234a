package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kbukum/aligner/alignment"
	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/provider"
)

// wavHeader is the first bytes of a RIFF/WAVE file.
var wavHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00\x01\x00\x44\xac\x00\x00\x88\x58\x01\x00\x02\x00\x10\x00data\x00\x00\x00\x00")

var wavBase64 = base64.StdEncoding.EncodeToString(wavHeader)

func words(specs ...any) []alignment.AlignedWord {
	out := make([]alignment.AlignedWord, 0, len(specs)/3)
	for i := 0; i+2 < len(specs); i += 3 {
		out = append(out, alignment.AlignedWord{
			Text:       specs[i].(string),
			StartMs:    int64(specs[i+1].(int)),
			EndMs:      int64(specs[i+2].(int)),
			Confidence: 0.9,
		})
	}
	return out
}

func fixedProvider(resp *forcedalign.Response, err error) (forcedalign.Provider, *atomic.Int32) {
	var calls atomic.Int32
	return provider.Func("replicate", func(context.Context, forcedalign.Request) (*forcedalign.Response, error) {
		calls.Add(1)
		return resp, err
	}), &calls
}

func newService(t *testing.T, p forcedalign.Provider, opts ...Option) *Service {
	t.Helper()
	a, err := alignment.New(alignment.DefaultPolicy())
	if err != nil {
		t.Fatalf("alignment.New: %v", err)
	}
	return New(p, a, opts...)
}

func validRequest() AlignRequest {
	return AlignRequest{
		AudioBase64: wavBase64,
		Segments: []SegmentInput{
			{SpeakerID: "A", Text: "Hello there.", StartMs: 0, EndMs: 1500},
			{SpeakerID: "B", Text: "General Kenobi!", StartMs: 1400, EndMs: 3000},
		},
	}
}

func TestAlign_CorrectsTimestamps(t *testing.T) {
	p, _ := fixedProvider(&forcedalign.Response{Words: words(
		"hello", 120, 480,
		"there", 500, 900,
		"general", 1600, 2100,
		"kenobi", 2150, 2700,
	)}, nil)
	svc := newService(t, p)

	resp, err := svc.Align(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(resp.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(resp.Segments))
	}
	first, second := resp.Segments[0], resp.Segments[1]
	if first.StartMs != 120 || first.EndMs != 900 {
		t.Errorf("first = [%d,%d], want [120,900]", first.StartMs, first.EndMs)
	}
	if second.StartMs != 1600 || second.EndMs != 2700 {
		t.Errorf("second = [%d,%d], want [1600,2700]", second.StartMs, second.EndMs)
	}
	if first.SpeakerID != "A" || second.Text != "General Kenobi!" {
		t.Errorf("speaker and text must be copied verbatim: %+v", resp.Segments)
	}
	if resp.AverageConfidence < 0.8 {
		t.Errorf("average confidence = %v, want >= 0.8", resp.AverageConfidence)
	}

	stats := svc.Stats()
	if stats.Requests != 1 || stats.Matched != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAlign_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AlignRequest)
		field  string
	}{
		{"no segments", func(r *AlignRequest) { r.Segments = nil }, "segments"},
		{"empty segments", func(r *AlignRequest) { r.Segments = []SegmentInput{} }, "segments"},
		{"no audio", func(r *AlignRequest) { r.AudioBase64 = "" }, "audio_base64"},
		{"negative start", func(r *AlignRequest) { r.Segments[0].StartMs = -1 }, "segments[0].startMs"},
		{"end before start", func(r *AlignRequest) { r.Segments[1].EndMs = 1000 }, "segments[1].endMs"},
		{"invalid utf8", func(r *AlignRequest) { r.Segments[0].Text = "bad \xff" }, "segments[0].text"},
		{"not base64", func(r *AlignRequest) { r.AudioBase64 = "%%%not base64%%%" }, "audio_base64"},
		{"bad language tag", func(r *AlignRequest) { r.Language = "English!" }, "language"},
		{"not audio", func(r *AlignRequest) {
			r.AudioBase64 = base64.StdEncoding.EncodeToString([]byte("just some plain text"))
		}, "audio_base64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, calls := fixedProvider(&forcedalign.Response{Words: words("hello", 0, 100)}, nil)
			svc := newService(t, p)

			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Align(context.Background(), req)

			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if appErr.HTTPStatus != http.StatusBadRequest {
				t.Errorf("status = %d", appErr.HTTPStatus)
			}
			if !strings.Contains(detailFields(appErr), tt.field) {
				t.Errorf("details %v do not mention %q", appErr.Details, tt.field)
			}
			if calls.Load() != 0 {
				t.Error("provider must not be called for invalid input")
			}
			if svc.Stats().Rejected != 1 {
				t.Errorf("rejected = %d, want 1", svc.Stats().Rejected)
			}
		})
	}
}

// detailFields flattens the error details so field paths can be searched.
func detailFields(e *apperrors.AppError) string {
	return fmt.Sprint(e.Details)
}

func TestAlign_DataURIAudio(t *testing.T) {
	p, calls := fixedProvider(&forcedalign.Response{Words: words("hello", 0, 100, "there", 100, 200)}, nil)
	svc := newService(t, p)

	req := validRequest()
	req.AudioBase64 = "data:audio/wav;base64," + strings.TrimRight(wavBase64, "=")
	if _, err := svc.Align(context.Background(), req); err != nil {
		t.Fatalf("Align: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestAlign_ProviderErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		resp       *forcedalign.Response
		wantStatus int
		wantReason any
	}{
		{"plain error", errors.New("boom"), nil, http.StatusBadGateway, nil},
		{"deadline", context.DeadlineExceeded, nil, http.StatusGatewayTimeout, "timeout"},
		{"app error passes through", apperrors.NotConfigured("REPLICATE_API_TOKEN"), nil, http.StatusInternalServerError, nil},
		{"empty stream", nil, &forcedalign.Response{}, http.StatusBadGateway, "empty_word_stream"},
		{"nil response", nil, nil, http.StatusBadGateway, "empty_word_stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := fixedProvider(tt.resp, tt.err)
			svc := newService(t, p)

			resp, err := svc.Align(context.Background(), validRequest())
			if resp != nil {
				t.Fatalf("no partial result on failure, got %+v", resp)
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
			if tt.wantReason != nil && appErr.Details["reason"] != tt.wantReason {
				t.Errorf("reason = %v, want %v", appErr.Details["reason"], tt.wantReason)
			}
			if svc.Stats().Failed != 1 {
				t.Errorf("failed = %d, want 1", svc.Stats().Failed)
			}
		})
	}
}

func TestAlign_CancelledContextIsTimeout(t *testing.T) {
	p := provider.Func("replicate", func(ctx context.Context, _ forcedalign.Request) (*forcedalign.Response, error) {
		<-ctx.Done()
		return nil, errors.New("request aborted")
	})
	svc := newService(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Align(ctx, validRequest())
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Details["reason"] != "timeout" {
		t.Fatalf("expected ProviderTimeout, got %v", err)
	}
}

func TestAlign_CachedResponseCounted(t *testing.T) {
	p, _ := fixedProvider(&forcedalign.Response{Words: words("hello", 0, 100, "there", 100, 200), Cached: true}, nil)
	svc := newService(t, p)

	if _, err := svc.Align(context.Background(), validRequest()); err != nil {
		t.Fatalf("Align: %v", err)
	}
	if svc.Stats().CacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", svc.Stats().CacheHits)
	}
}

func TestAlign_DebugLogsSegments(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "aligner", &buf)
	p, _ := fixedProvider(&forcedalign.Response{Words: words("hello", 0, 100, "there", 100, 200)}, nil)
	svc := newService(t, p, WithLogger(log))

	if _, err := svc.Align(context.Background(), validRequest()); err != nil {
		t.Fatalf("Align: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"segment aligned"`, `"alignment complete"`, `"reason":"stream_exhausted"`, `"low":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
