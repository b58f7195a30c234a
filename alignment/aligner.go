package alignment

import "math"

// Aligner matches rough segments to a forced-alignment word stream.
// It holds no per-call state and is safe for concurrent use.
type Aligner struct {
	policy   Policy
	observer Observer
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithObserver sets the diagnostics sink. A nil observer disables diagnostics.
func WithObserver(o Observer) Option {
	return func(a *Aligner) {
		a.observer = o
	}
}

// New creates an Aligner for the given policy.
func New(policy Policy, opts ...Option) (*Aligner, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	a := &Aligner{policy: policy}
	for _, opt := range opts {
		opt(a)
	}
	if a.observer == nil {
		a.observer = nopObserver{}
	}
	return a, nil
}

// Align aligns segments using the default policy.
func Align(segments []RoughSegment, words []AlignedWord) Result {
	a, _ := New(DefaultPolicy())
	return a.Align(segments, words)
}

// Policy returns the policy the aligner was built with.
func (a *Aligner) Policy() Policy { return a.policy }

// With returns a copy of the aligner reporting to o instead.
func (a *Aligner) With(o Observer) *Aligner {
	c := *a
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
	return &c
}

// Align returns one AlignedSegment per input segment, in input order.
//
// Segments are matched greedily against a cursor that only moves forward.
// An accepted match moves the cursor past its last token; an unmatched
// segment keeps its original timing and leaves the cursor where it was.
func (a *Aligner) Align(segments []RoughSegment, words []AlignedWord) Result {
	stream := tokenize(words)
	out := make([]AlignedSegment, len(segments))
	summary := Summary{Segments: len(segments), Words: len(words)}

	cursor := 0
	backlog := 0 // tokens of segments left unmatched since the last match
	for i, seg := range segments {
		out[i] = AlignedSegment{
			SpeakerID:  seg.SpeakerID,
			Text:       seg.Text,
			StartMs:    seg.StartMs,
			EndMs:      seg.EndMs,
			Confidence: a.policy.UnmatchedConfidence,
		}

		toks := Normalize(seg.Text)
		if len(toks) == 0 {
			a.unmatched(i, out[i], ReasonEmptyText, 0)
			summary.Unmatched++
			continue
		}
		if cursor >= len(stream) {
			a.unmatched(i, out[i], ReasonStreamExhausted, 0)
			summary.Unmatched++
			continue
		}

		end := min(cursor+a.windowSize(len(toks))+backlog, len(stream))
		run, ok := bestRun(toks, stream[cursor:end])
		if !ok || run.similarity < a.policy.AcceptThreshold {
			backlog += len(toks)
			a.unmatched(i, out[i], ReasonBelowThreshold, run.similarity)
			summary.Unmatched++
			continue
		}

		run.start += cursor
		run.end += cursor
		first, last := stream[run.start].word, stream[run.end-1].word
		out[i].StartMs = words[first].StartMs
		out[i].EndMs = max(words[last].EndMs, out[i].StartMs)
		out[i].Confidence = Score(run.similarity, run.size(), len(toks))

		cursor = run.end
		backlog = 0
		summary.Matched++
		a.observer.Observe(Event{
			Kind:       EventMatched,
			Index:      i,
			StartMs:    out[i].StartMs,
			EndMs:      out[i].EndMs,
			Confidence: out[i].Confidence,
			Similarity: run.similarity,
			Coverage:   min(1, float64(run.size())/float64(len(toks))),
			FirstWord:  first,
			LastWord:   last,
		})
	}

	summary.Repaired = a.enforceMonotonic(out)
	summary.Distribution = a.policy.distribution(out)

	return Result{
		Segments:          out,
		AverageConfidence: AverageConfidence(out),
		Summary:           summary,
	}
}

// windowSize bounds how many tokens past the cursor a segment of n tokens
// may search.
func (a *Aligner) windowSize(n int) int {
	byFactor := int(math.Ceil(a.policy.WindowFactor * float64(n)))
	return max(byFactor, n+a.policy.WindowSlack)
}

func (a *Aligner) unmatched(i int, s AlignedSegment, reason string, similarity float64) {
	a.observer.Observe(Event{
		Kind:       EventUnmatched,
		Index:      i,
		StartMs:    s.StartMs,
		EndMs:      s.EndMs,
		Confidence: s.Confidence,
		Similarity: similarity,
		FirstWord:  -1,
		LastWord:   -1,
		Reason:     reason,
	})
}
