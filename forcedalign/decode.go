package forcedalign

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kbukum/aligner/alignment"
)

var msPerSecond = decimal.NewFromInt(1000)

// whisperXOutput is the JSON document written by whisperx and returned by
// its hosted variants.
type whisperXOutput struct {
	Segments         []whisperXSegment `json:"segments"`
	WordSegments     []whisperXWord    `json:"word_segments"`
	DetectedLanguage string            `json:"detected_language"`
	Language         string            `json:"language"`
}

type whisperXSegment struct {
	Start decimal.NullDecimal `json:"start"`
	End   decimal.NullDecimal `json:"end"`
	Text  string              `json:"text"`
	Words []whisperXWord      `json:"words"`
}

// whisperXWord has nullable timings: whisperx leaves start and end out for
// tokens it could not align, typically numerals.
type whisperXWord struct {
	Word  string              `json:"word"`
	Start decimal.NullDecimal `json:"start"`
	End   decimal.NullDecimal `json:"end"`
	Score decimal.NullDecimal `json:"score"`
}

// DecodeWhisperX converts whisperx JSON output into a time-ordered word
// stream. Words nested in segments are preferred; the top-level
// word_segments list is used when no segment carries words.
//
// Seconds are converted to milliseconds exactly and rounded half away from
// zero. A word without a start takes its segment's start when it is the
// first word of that segment, otherwise the previous word's end; a word
// without an end gets its start.
// Timings that run backwards are clamped forward so the stream is monotonic.
func DecodeWhisperX(data []byte) (*Response, error) {
	var out whisperXOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode whisperx output: %w", err)
	}

	lang := out.DetectedLanguage
	if lang == "" {
		lang = out.Language
	}
	resp := &Response{Language: lang}

	var prevEnd int64
	// appendWord reports whether w was kept; blank words are dropped.
	appendWord := func(w whisperXWord, segStart decimal.NullDecimal) bool {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			return false
		}
		start := prevEnd
		switch {
		case w.Start.Valid:
			start = toMs(w.Start.Decimal)
		case segStart.Valid:
			start = toMs(segStart.Decimal)
		}
		end := start
		if w.End.Valid {
			end = toMs(w.End.Decimal)
		}
		if start < prevEnd {
			start = prevEnd
		}
		if end < start {
			end = start
		}
		resp.Words = append(resp.Words, alignment.AlignedWord{
			Text:       text,
			StartMs:    start,
			EndMs:      end,
			Confidence: score(w.Score),
		})
		prevEnd = end
		return true
	}

	nested := false
	for _, seg := range out.Segments {
		segStart := seg.Start
		for _, w := range seg.Words {
			nested = true
			if appendWord(w, segStart) {
				segStart = decimal.NullDecimal{}
			}
		}
	}
	if !nested {
		for _, w := range out.WordSegments {
			appendWord(w, decimal.NullDecimal{})
		}
	}

	if n := len(resp.Words); n > 0 {
		resp.Duration = time.Duration(resp.Words[n-1].EndMs) * time.Millisecond
	}
	return resp, nil
}

func toMs(seconds decimal.Decimal) int64 {
	ms := seconds.Mul(msPerSecond).Round(0).IntPart()
	if ms < 0 {
		return 0
	}
	return ms
}

func score(s decimal.NullDecimal) float64 {
	if !s.Valid {
		return 0
	}
	f := s.Decimal.InexactFloat64()
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
