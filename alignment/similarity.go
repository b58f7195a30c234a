package alignment

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minPartialSimilarity is the character similarity below which two differing
// tokens are treated as unrelated. Above it, near spellings ("colour" and
// "color") earn partial credit.
const minPartialSimilarity = 0.5

const epsilon = 1e-9

// tokenSimilarity returns a character-level similarity in [0,1].
func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	s := 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
	if s < minPartialSimilarity {
		return 0
	}
	return s
}

// bestRun scores every run window[i:j] against the segment tokens with a
// token-level edit distance and returns the run with the highest similarity.
//
// The distance matrix has a free first row so a run may begin at any window
// position. Substitutions cost 1-tokenSimilarity; a missing or an extra
// token costs 1. Each cell carries the column its run started at, which is
// enough to recover [i, j) without a full traceback.
func bestRun(seg []string, window []token) (span, bool) {
	n := len(seg)
	prevDist := make([]float64, n+1)
	prevOrigin := make([]int, n+1)
	curDist := make([]float64, n+1)
	curOrigin := make([]int, n+1)

	for r := range prevDist {
		prevDist[r] = float64(r)
	}

	var best span
	found := false
	for c := 1; c <= len(window); c++ {
		curDist[0], curOrigin[0] = 0, c
		for r := 1; r <= n; r++ {
			d := prevDist[r-1] + 1 - tokenSimilarity(seg[r-1], window[c-1].text)
			o := prevOrigin[r-1]
			if v := curDist[r-1] + 1; v < d-epsilon {
				d, o = v, curOrigin[r-1]
			}
			if v := prevDist[r] + 1; v < d-epsilon {
				d, o = v, prevOrigin[r]
			}
			curDist[r], curOrigin[r] = d, o
		}

		if m := c - curOrigin[n]; m > 0 {
			cand := span{start: curOrigin[n], end: c, similarity: clamp01(1 - curDist[n]/float64(max(n, m)))}
			if !found || better(cand, best, n) {
				best, found = cand, true
			}
		}

		prevDist, curDist = curDist, prevDist
		prevOrigin, curOrigin = curOrigin, prevOrigin
	}
	return best, found
}

// better reports whether a should replace b as the best run for a segment of
// n tokens. Ties go to the length closest to n, then to the earlier run.
func better(a, b span, n int) bool {
	if a.similarity > b.similarity+epsilon {
		return true
	}
	if a.similarity < b.similarity-epsilon {
		return false
	}
	return absInt(a.size()-n) < absInt(b.size()-n)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
