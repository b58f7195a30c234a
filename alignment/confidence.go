package alignment

// Score combines the similarity of a matched run with its coverage of the
// segment: similarity * min(1, matched/expected). A segment with no expected
// tokens scores 0.
func Score(similarity float64, matched, expected int) float64 {
	if expected <= 0 || matched <= 0 {
		return 0
	}
	coverage := min(1, float64(matched)/float64(expected))
	return clamp01(similarity * coverage)
}

// AverageConfidence returns the arithmetic mean of the segment confidences,
// or 0 when there are none.
func AverageConfidence(segments []AlignedSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range segments {
		sum += s.Confidence
	}
	return sum / float64(len(segments))
}

// Band classifies a confidence against the policy's reporting thresholds.
func (p Policy) Band(confidence float64) string {
	switch {
	case confidence >= p.GoodThreshold:
		return "high"
	case confidence >= p.AcceptThreshold:
		return "medium"
	default:
		return "low"
	}
}

func (p Policy) distribution(segments []AlignedSegment) Distribution {
	var d Distribution
	for _, s := range segments {
		switch p.Band(s.Confidence) {
		case "high":
			d.High++
		case "medium":
			d.Medium++
		default:
			d.Low++
		}
	}
	return d
}
