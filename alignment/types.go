package alignment

// RoughSegment is a transcript chunk with speaker attribution and approximate
// timing, as produced by an upstream transcription pass.
type RoughSegment struct {
	SpeakerID string `json:"speakerId"`
	Text      string `json:"text"`
	StartMs   int64  `json:"startMs"`
	EndMs     int64  `json:"endMs"`
}

// AlignedWord is a single word with precise timing from a forced-alignment
// provider. Confidence is the provider's acoustic score in [0,1].
type AlignedWord struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Confidence float64 `json:"confidence"`
}

// AlignedSegment is a RoughSegment with corrected timestamps and a
// confidence score. SpeakerID and Text are copied verbatim.
type AlignedSegment struct {
	SpeakerID  string  `json:"speakerId"`
	Text       string  `json:"text"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Confidence float64 `json:"confidence"`
}

// Result is the output of one alignment call.
type Result struct {
	// Segments has the same length and order as the input segments.
	Segments []AlignedSegment `json:"segments"`
	// AverageConfidence is the mean of the per-segment confidences.
	AverageConfidence float64 `json:"average_confidence"`
	// Summary holds counts for reporting. It is not part of the wire response.
	Summary Summary `json:"-"`
}

// Summary aggregates per-segment outcomes of an alignment call.
type Summary struct {
	Segments  int `json:"segments"`
	Words     int `json:"words"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Repaired  int `json:"repaired"`
	// Distribution buckets segments by the policy's reporting thresholds.
	Distribution Distribution `json:"distribution"`
}

// Distribution counts segments per confidence band.
type Distribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// span is a contiguous run of word tokens [start, end) accepted for a segment.
type span struct {
	start, end int
	similarity float64
}

func (s span) size() int { return s.end - s.start }
