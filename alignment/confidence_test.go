package alignment

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		similarity float64
		matched    int
		expected   int
		want       float64
	}{
		{"perfect", 1, 3, 3, 1},
		{"partial coverage", 0.9, 2, 4, 0.45},
		{"coverage capped at one", 0.9, 5, 4, 0.9},
		{"nothing matched", 1, 0, 3, 0},
		{"no expected tokens", 1, 1, 0, 0},
		{"clamped", 1.5, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.similarity, tt.matched, tt.expected); !approx(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverageConfidence(t *testing.T) {
	if got := AverageConfidence(nil); got != 0 {
		t.Errorf("expected 0 for no segments, got %v", got)
	}

	segs := []AlignedSegment{{Confidence: 1}, {Confidence: 0.5}, {Confidence: 0}}
	if got := AverageConfidence(segs); !approx(got, 0.5) {
		t.Errorf("expected 0.5, got %v", got)
	}
}

func TestPolicy_Band(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		confidence float64
		want       string
	}{
		{1, "high"},
		{0.8, "high"},
		{0.7999, "medium"},
		{0.5, "medium"},
		{0.4999, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := p.Band(tt.confidence); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{"default", func(*Policy) {}, false},
		{"accept above one", func(p *Policy) { p.AcceptThreshold = 1.1 }, true},
		{"good below zero", func(p *Policy) { p.GoodThreshold = -0.1 }, true},
		{"unmatched above one", func(p *Policy) { p.UnmatchedConfidence = 2 }, true},
		{"factor below one", func(p *Policy) { p.WindowFactor = 0.5 }, true},
		{"negative slack", func(p *Policy) { p.WindowSlack = -1 }, true},
		{"zero thresholds", func(p *Policy) { p.AcceptThreshold = 0; p.GoodThreshold = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolicy_ApplyDefaults(t *testing.T) {
	p := Policy{AcceptThreshold: 0.6}
	p.ApplyDefaults()

	if p.WindowFactor != DefaultWindowFactor {
		t.Errorf("expected window factor %v, got %v", DefaultWindowFactor, p.WindowFactor)
	}
	if p.WindowSlack != DefaultWindowSlack {
		t.Errorf("expected window slack %d, got %d", DefaultWindowSlack, p.WindowSlack)
	}
	if p.AcceptThreshold != 0.6 {
		t.Errorf("accept threshold should be untouched, got %v", p.AcceptThreshold)
	}
}
