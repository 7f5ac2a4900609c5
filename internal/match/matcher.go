package match

import (
	"strings"

	"github.com/hyperjump/shirushi/internal/normalize"
)

// Matcher applies the fuzzy phrase-presence test.
type Matcher struct {
	config *Config
}

// NewMatcher creates a Matcher with the given config. A nil config uses
// defaults.
func NewMatcher(config *Config) *Matcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &Matcher{config: config}
}

// Matches reports whether needle plausibly occurs in haystack. Both inputs
// are normalized. Substring containment matches immediately; otherwise the
// needle's key terms are compared against the haystack's, and the match
// succeeds when the hit ratio reaches MinTermRatio or the hit count reaches
// MinAbsoluteMatches. An empty or key-term-free needle never matches.
func (m *Matcher) Matches(haystack, needle string) bool {
	h := normalize.Normalize(haystack)
	n := normalize.Normalize(needle)
	if n == "" {
		return false
	}
	if strings.Contains(h, n) {
		return true
	}

	needleTerms := KeyTerms(n, Stopwords, m.config.MinWordLength)
	if len(needleTerms) == 0 {
		return false
	}
	haystackTerms := KeyTerms(h, Stopwords, m.config.MinWordLength)

	matched := 0
	for _, term := range needleTerms {
		if hasCounterpart(term, haystackTerms) {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(needleTerms))
	return ratio >= m.config.MinTermRatio || matched >= m.config.MinAbsoluteMatches
}

// hasCounterpart reports whether any haystack term contains term or is
// contained by it. Bidirectional containment tolerates truncation and
// pluralization-like noise without an edit-distance pass.
func hasCounterpart(term string, haystackTerms []string) bool {
	for _, ht := range haystackTerms {
		if strings.Contains(ht, term) || strings.Contains(term, ht) {
			return true
		}
	}
	return false
}
