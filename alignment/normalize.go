package alignment

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes text into comparison tokens.
//
// Diacritics are stripped, case is folded, apostrophes are dropped so that
// contractions stay one token, and every other non-alphanumeric rune acts as
// a separator. Empty or punctuation-only text yields no tokens.
func Normalize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Transformers and casers keep internal state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, text)
	if err != nil {
		plain = text
	}
	folded := cases.Fold().String(plain)

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range folded {
		switch {
		case isApostrophe(r):
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func isApostrophe(r rune) bool {
	switch r {
	case '\'', '’', '‘', 'ʼ', '`':
		return true
	}
	return false
}

// token is one normalized unit of the provider word stream.
type token struct {
	text string
	word int // index into the word slice the token came from
}

// tokenize flattens words into a token stream. Words that normalize to
// nothing (pure punctuation, noise markers) contribute no tokens.
func tokenize(words []AlignedWord) []token {
	stream := make([]token, 0, len(words))
	for i, w := range words {
		for _, t := range Normalize(w.Text) {
			stream = append(stream, token{text: t, word: i})
		}
	}
	return stream
}
