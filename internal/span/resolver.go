// Package span locates a phrase inside a page's concatenated fragment buffer
// and maps the located character range back onto fragments.
package span

import (
	"math"
	"strings"

	"github.com/hyperjump/shirushi/internal/fragment"
	"github.com/hyperjump/shirushi/internal/match"
	"github.com/hyperjump/shirushi/internal/normalize"
)

// Stopwords is the reduced stoplist used during span resolution. It is
// smaller than the matcher's: at this point the page already matched, so
// weaker anchors are acceptable.
var Stopwords = map[string]bool{
	"this": true,
	"that": true,
	"with": true,
	"from": true,
}

// Resolver finds the character span of a phrase within a fragment index.
type Resolver struct {
	config *Config
}

// NewResolver creates a Resolver with the given config. A nil config uses
// defaults.
func NewResolver(config *Config) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	return &Resolver{config: config}
}

// Resolve locates phrase inside the index buffer and returns the fragment
// indices its span touches. The exact pass looks for the normalized phrase
// as a substring of the normalized buffer; when that fails, the partial pass
// looks for a cluster of the phrase's key terms. Normalized offsets are
// translated back to buffer offsets with a uniform length-ratio scale. The
// second return value is false when no span could be resolved or the
// translated span touches no fragment.
func (r *Resolver) Resolve(phrase string, idx *fragment.Index) ([]int, bool) {
	normBuffer := normalize.Normalize(idx.Text)
	normPhrase := normalize.Normalize(phrase)
	if normBuffer == "" || normPhrase == "" {
		return nil, false
	}

	start, length, ok := exactSpan(normPhrase, normBuffer)
	if !ok {
		start, length, ok = r.partialSpan(normPhrase, normBuffer)
	}
	if !ok {
		return nil, false
	}

	origStart, origEnd := scaleSpan(start, start+length, len(idx.Text), len(normBuffer))
	touched := idx.FragmentsInRange(origStart, origEnd)
	if len(touched) == 0 {
		return nil, false
	}
	return touched, true
}

// exactSpan returns the offset and length of normPhrase inside normBuffer.
func exactSpan(normPhrase, normBuffer string) (int, int, bool) {
	pos := strings.Index(normBuffer, normPhrase)
	if pos < 0 {
		return 0, 0, false
	}
	return pos, len(normPhrase), true
}

// partialSpan falls back to key-term clustering: each phrase term's first
// buffer occurrence is a candidate; a window around the candidate is scored
// by how many of the phrase's terms it contains; the first candidate meeting
// MinWindowRatio (at least one term) wins. The resulting span starts at the
// candidate and runs MaxSpanLength normalized characters.
func (r *Resolver) partialSpan(normPhrase, normBuffer string) (int, int, bool) {
	terms := match.KeyTerms(normPhrase, Stopwords, r.config.MinWordLength)
	if len(terms) == 0 {
		return 0, 0, false
	}
	required := math.Max(1, r.config.MinWindowRatio*float64(len(terms)))

	for _, term := range terms {
		pos := strings.Index(normBuffer, term)
		if pos < 0 {
			continue
		}
		wStart := pos - r.config.ContextBefore
		if wStart < 0 {
			wStart = 0
		}
		wEnd := pos + r.config.ContextAfter
		if wEnd > len(normBuffer) {
			wEnd = len(normBuffer)
		}
		window := normBuffer[wStart:wEnd]

		hits := 0
		for _, t := range terms {
			if strings.Contains(window, t) {
				hits++
			}
		}
		if float64(hits) >= required {
			length := r.config.MaxSpanLength
			if remaining := len(normBuffer) - pos; remaining < length {
				length = remaining
			}
			return pos, length, true
		}
	}
	return 0, 0, false
}

// scaleSpan translates normalized offsets back to original-buffer offsets
// using the uniform ratio originalLen/normalizedLen, applied to each offset
// independently. Normalization does not remove characters uniformly, so the
// translated span drifts where removals cluster, bounded by the number of
// characters removed before the match.
func scaleSpan(normStart, normEnd, origLen, normLen int) (int, int) {
	if normLen == 0 {
		return 0, 0
	}
	scale := float64(origLen) / float64(normLen)
	start := int(float64(normStart) * scale)
	end := int(float64(normEnd) * scale)
	if start > origLen {
		start = origLen
	}
	if end > origLen {
		end = origLen
	}
	if end < start {
		end = start
	}
	return start, end
}
