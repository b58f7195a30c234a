package alignment

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation and case", "Hello, World!", []string{"hello", "world"}},
		{"whitespace collapsed", "  the \t quick\n\nfox  ", []string{"the", "quick", "fox"}},
		{"contraction kept whole", "Don't STOP", []string{"dont", "stop"}},
		{"curly apostrophe", "it’s", []string{"its"}},
		{"diacritics stripped", "Café déjà-vu", []string{"cafe", "deja", "vu"}},
		{"hyphen and slash split", "twenty-five / 25", []string{"twenty", "five", "25"}},
		{"fullwidth compatibility", "ＡＢＣ", []string{"abc"}},
		{"digits kept", "Room 101.", []string{"room", "101"}},
		{"empty", "", nil},
		{"whitespace only", "   \n\t", nil},
		{"punctuation only", "...!? --", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "Ça va? Oui, ça va très bien!"
	first := Normalize(in)
	for i := 0; i < 10; i++ {
		if got := Normalize(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestTokenize_SkipsEmptyWordsAndSplitsCompounds(t *testing.T) {
	words := []AlignedWord{
		{Text: "Twenty-five", StartMs: 0, EndMs: 500},
		{Text: ",", StartMs: 500, EndMs: 500},
		{Text: "dollars.", StartMs: 500, EndMs: 900},
	}

	got := tokenize(words)
	want := []token{
		{text: "twenty", word: 0},
		{text: "five", word: 0},
		{text: "dollars", word: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize() = %+v, want %+v", got, want)
	}
}

func TestTokenSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"fox", "fox", 1},
		{"colour", "color", 1 - 1.0/6},
		{"hello", "1", 0},
		{"cat", "dog", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := tokenSimilarity(tt.a, tt.b); !approx(got, tt.want) {
				t.Errorf("tokenSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
