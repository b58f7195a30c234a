package alignment

// enforceMonotonic walks the segments in order and clamps each start to the
// end of the previous segment. A segment whose clamped start passes its end
// collapses to zero width and its confidence is capped at the unmatched
// value. Returns the number of segments that were changed.
func (a *Aligner) enforceMonotonic(segments []AlignedSegment) int {
	repaired := 0
	var previousEnd int64
	for i := range segments {
		s := &segments[i]
		before := *s

		if i > 0 && s.StartMs < previousEnd {
			s.StartMs = previousEnd
		}
		if s.StartMs > s.EndMs {
			s.EndMs = s.StartMs
			s.Confidence = min(s.Confidence, a.policy.UnmatchedConfidence)
		}
		previousEnd = s.EndMs

		if *s != before {
			repaired++
			a.observer.Observe(Event{
				Kind:          EventRepaired,
				Index:         i,
				StartMs:       s.StartMs,
				EndMs:         s.EndMs,
				Confidence:    s.Confidence,
				OriginalStart: before.StartMs,
				OriginalEnd:   before.EndMs,
			})
		}
	}
	return repaired
}
