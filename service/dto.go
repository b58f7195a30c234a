package service

import "github.com/kbukum/aligner/alignment"

// SegmentInput is one transcript segment in an align request.
type SegmentInput struct {
	SpeakerID string `json:"speakerId"`
	Text      string `json:"text" validate:"utf8"`
	StartMs   int64  `json:"startMs" validate:"gte=0"`
	EndMs     int64  `json:"endMs" validate:"gtefield=StartMs"`
}

// AlignRequest is the body of POST /align.
type AlignRequest struct {
	// AudioBase64 is the audio file, standard base64. A data URI prefix is
	// accepted and ignored.
	AudioBase64 string         `json:"audio_base64" validate:"required"`
	Segments    []SegmentInput `json:"segments" validate:"required,min=1,dive"`
	// Language is passed to the provider. Empty means auto-detect.
	Language string `json:"language,omitempty" validate:"omitempty,max=16"`
}

// AlignResponse is the body returned by POST /align.
type AlignResponse struct {
	Segments          []alignment.AlignedSegment `json:"segments"`
	AverageConfidence float64                    `json:"average_confidence"`
}

func (r AlignRequest) roughSegments() []alignment.RoughSegment {
	out := make([]alignment.RoughSegment, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = alignment.RoughSegment{
			SpeakerID: s.SpeakerID,
			Text:      s.Text,
			StartMs:   s.StartMs,
			EndMs:     s.EndMs,
		}
	}
	return out
}
