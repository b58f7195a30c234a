package alignment

import "fmt"

// Policy holds the tunable constants of the aligner.
type Policy struct {
	// AcceptThreshold is the minimum similarity for a candidate run to be
	// accepted as a segment's match.
	AcceptThreshold float64 `yaml:"accept_threshold" mapstructure:"accept_threshold"`
	// GoodThreshold marks a "good" match in reports. It does not gate matching.
	GoodThreshold float64 `yaml:"good_threshold" mapstructure:"good_threshold"`
	// UnmatchedConfidence is the confidence given to unmatched segments and
	// the ceiling applied to segments collapsed by the monotonicity repair.
	UnmatchedConfidence float64 `yaml:"unmatched_confidence" mapstructure:"unmatched_confidence"`
	// WindowFactor and WindowSlack bound the search window to
	// max(WindowFactor*n, n+WindowSlack) tokens for a segment of n tokens.
	WindowFactor float64 `yaml:"window_factor" mapstructure:"window_factor"`
	WindowSlack  int     `yaml:"window_slack" mapstructure:"window_slack"`
}

// Default policy values.
const (
	DefaultAcceptThreshold     = 0.5
	DefaultGoodThreshold       = 0.8
	DefaultUnmatchedConfidence = 0.0
	DefaultWindowFactor        = 2.0
	DefaultWindowSlack         = 10
)

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		AcceptThreshold:     DefaultAcceptThreshold,
		GoodThreshold:       DefaultGoodThreshold,
		UnmatchedConfidence: DefaultUnmatchedConfidence,
		WindowFactor:        DefaultWindowFactor,
		WindowSlack:         DefaultWindowSlack,
	}
}

// ApplyDefaults fills zero-valued window settings. Thresholds are left alone
// because zero is a meaningful value for them.
func (p *Policy) ApplyDefaults() {
	if p.WindowFactor == 0 {
		p.WindowFactor = DefaultWindowFactor
	}
	if p.WindowSlack == 0 {
		p.WindowSlack = DefaultWindowSlack
	}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	if p.AcceptThreshold < 0 || p.AcceptThreshold > 1 {
		return fmt.Errorf("alignment: accept_threshold must be in [0,1], got %v", p.AcceptThreshold)
	}
	if p.GoodThreshold < 0 || p.GoodThreshold > 1 {
		return fmt.Errorf("alignment: good_threshold must be in [0,1], got %v", p.GoodThreshold)
	}
	if p.UnmatchedConfidence < 0 || p.UnmatchedConfidence > 1 {
		return fmt.Errorf("alignment: unmatched_confidence must be in [0,1], got %v", p.UnmatchedConfidence)
	}
	if p.WindowFactor < 1 {
		return fmt.Errorf("alignment: window_factor must be >= 1, got %v", p.WindowFactor)
	}
	if p.WindowSlack < 0 {
		return fmt.Errorf("alignment: window_slack must be >= 0, got %d", p.WindowSlack)
	}
	return nil
}
