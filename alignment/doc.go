// Package alignment reconciles rough transcript segments with a word-level
// timestamp stream produced by a forced-alignment model.
//
// The engine is pure and synchronous: it takes the segments in transcript
// order and the provider's words in time order, and returns one corrected
// segment per input segment together with a confidence score.
//
// # Pipeline
//
//   - Normalize canonicalizes segment and word text into comparable tokens.
//   - The aligner walks the segments with a single monotonic cursor over the
//     flattened word tokens and picks, inside a bounded window, the run of
//     tokens with the best edit-distance similarity.
//   - Confidence is similarity times coverage, or the unmatched floor.
//   - The monotonicity pass clamps overlaps so the output never runs backwards.
//
// # Usage
//
//	a, err := alignment.New(alignment.DefaultPolicy(), alignment.WithObserver(obs))
//	if err != nil {
//	    return err
//	}
//	result := a.Align(segments, words)
//	fmt.Println(result.AverageConfidence)
//
// The aligner is a greedy single pass, not a global optimum over the whole
// stream. Segments that cannot be located keep their original timestamps and
// are reported through the Observer instead of failing the call.
package alignment
