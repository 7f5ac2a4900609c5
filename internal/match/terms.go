// Package match decides whether a needle phrase plausibly occurs in a
// haystack, by exact containment or key-term overlap.
package match

import "regexp"

// keyTermPattern tokenizes normalized text into maximal digit sequences
// (optionally with one decimal point) or word-character runs. The numeric
// alternative is listed first so "12.8" is kept whole.
var keyTermPattern = regexp.MustCompile(`\d+(?:\.\d+)?|\w+`)

// Stopwords are common words that carry no anchoring value when matching.
// All of them are long enough to pass the word-length filter.
var Stopwords = map[string]bool{
	"this": true,
	"that": true,
	"with": true,
	"from": true,
	"have": true,
	"been": true,
	"were": true,
	"said": true,
}

// KeyTerms extracts matching anchors from normalized text: every numeric
// token, plus every word of at least minWordLen characters that is not in
// stopwords. Duplicates are dropped; first-occurrence order is kept.
func KeyTerms(text string, stopwords map[string]bool, minWordLen int) []string {
	tokens := keyTermPattern.FindAllString(text, -1)
	seen := make(map[string]bool)
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isNumeric(tok) {
			if len(tok) < minWordLen || stopwords[tok] {
				continue
			}
		}
		if !seen[tok] {
			terms = append(terms, tok)
			seen[tok] = true
		}
	}
	return terms
}

// isNumeric reports whether a token came from the numeric alternative of
// keyTermPattern. Numeric tokens always start with a digit; word tokens
// starting with a digit are impossible because the numeric alternative
// matches first.
func isNumeric(tok string) bool {
	return tok[0] >= '0' && tok[0] <= '9'
}
