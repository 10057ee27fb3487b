// Package vectorize turns raw document text into per-feature occurrence
// counts over a features.Catalog.
package vectorize

import (
	"regexp"

	"github.com/jacklau/authorship/internal/features"
)

// wordPattern matches maximal runs of word characters: Unicode letters,
// Unicode numbers and underscore.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Document is a labeled raw text.
type Document struct {
	Label string
	Text  string
}

// Vector holds one non-negative count per catalog feature, in catalog order.
type Vector []int

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, n := range v {
		if n != 0 {
			return false
		}
	}
	return true
}

// Tokenize splits text into word-character runs. Punctuation and whitespace
// are separators and never appear in the output, so an apostrophe splits
// "don't" into "don" and "t".
func Tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// Vectorize counts how many tokens of doc exactly equal each catalog feature.
// Matching is case-sensitive. Features that cannot be a word-character run,
// such as "," or "don't", always count zero.
func Vectorize(doc Document, catalog *features.Catalog) Vector {
	freq := make(map[string]int)
	for _, tok := range Tokenize(doc.Text) {
		freq[tok]++
	}

	vec := make(Vector, catalog.Len())
	for i := range vec {
		vec[i] = freq[catalog.Token(i)]
	}
	return vec
}
