// Package fragment assembles a page's positioned text fragments into one
// searchable buffer while recording which fragment produced each byte.
package fragment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/shirushi/internal/models"
)

// Index is the concatenation of a page's fragment texts plus a byte-level
// owner table mapping every buffer position back to the producing fragment.
type Index struct {
	// Text is the concatenated buffer, including synthetic separators.
	Text string

	owners []int
}

// BuildIndex walks fragments in extraction order, appending each fragment's
// text to the buffer. Between two consecutive non-empty texts, when neither
// the trailing rune already in the buffer nor the leading rune of the next
// fragment is whitespace, a single synthetic space is inserted and attributed
// to the preceding fragment. This approximates reading-order word separation
// for layouts that do not embed inter-fragment spaces.
func BuildIndex(fragments []models.TextFragment) *Index {
	total := 0
	for _, f := range fragments {
		total += len(f.Text) + 1
	}

	var b strings.Builder
	b.Grow(total)
	owners := make([]int, 0, total)

	lastRune := utf8.RuneError
	for i, f := range fragments {
		if f.Text == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(f.Text)
		if b.Len() > 0 && !unicode.IsSpace(lastRune) && !unicode.IsSpace(first) {
			b.WriteByte(' ')
			owners = append(owners, owners[len(owners)-1])
		}
		b.WriteString(f.Text)
		for j := 0; j < len(f.Text); j++ {
			owners = append(owners, i)
		}
		lastRune, _ = utf8.DecodeLastRuneInString(f.Text)
	}

	return &Index{Text: b.String(), owners: owners}
}

// Owner returns the fragment index that produced buffer byte pos, or -1 when
// pos is out of range.
func (idx *Index) Owner(pos int) int {
	if pos < 0 || pos >= len(idx.owners) {
		return -1
	}
	return idx.owners[pos]
}

// FragmentsInRange returns the distinct fragment indices touched by the byte
// span [start, end), in ascending order. An empty or out-of-range span
// returns nil.
func (idx *Index) FragmentsInRange(start, end int) []int {
	if start < 0 {
		start = 0
	}
	if end > len(idx.owners) {
		end = len(idx.owners)
	}
	if start >= end {
		return nil
	}
	var touched []int
	// The owner table is nondecreasing (fragments are appended in order and
	// separators inherit the previous owner), so a change check suffices.
	for pos := start; pos < end; pos++ {
		owner := idx.owners[pos]
		if len(touched) == 0 || touched[len(touched)-1] != owner {
			touched = append(touched, owner)
		}
	}
	return touched
}
