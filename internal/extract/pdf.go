package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/shirushi/internal/models"
)

// extractPDF maps each PDF page onto a PageContent with real positions.
// Text runs are grouped into lines by Y proximity, then concatenated into
// word fragments while the horizontal gap stays small relative to the font
// size, so fragments land at word granularity instead of per glyph run.
// Unreadable pages stay in the output as empty placeholders to keep page
// indexes aligned with the document.
func (e *Extractor) extractPDF(content []byte) ([]*models.PageContent, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	pages := make([]*models.PageContent, 0, numPages)
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			pages = append(pages, finishPage(i, nil))
			continue
		}
		pages = append(pages, finishPage(i, e.pageFragments(page.Content().Text)))
	}
	return pages, nil
}

// pageFragments turns raw text runs into line-ordered word fragments.
func (e *Extractor) pageFragments(texts []pdf.Text) []models.TextFragment {
	runs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.S == "\n" {
			continue
		}
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil
	}

	var frags []models.TextFragment
	for _, line := range e.groupIntoLines(runs) {
		frags = append(frags, e.mergeLineRuns(line)...)
	}
	return frags
}

// groupIntoLines buckets runs whose Y coordinates sit within PDFRowTolerance
// of an existing bucket. Lines come back in reading order, highest Y first,
// with each line's runs sorted left to right.
func (e *Extractor) groupIntoLines(runs []pdf.Text) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		runs       []pdf.Text
	}
	var buckets []bucket
	for _, t := range runs {
		found := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-e.config.PDFRowTolerance && t.Y <= buckets[i].yMax+e.config.PDFRowTolerance {
				buckets[i].runs = append(buckets[i].runs, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, runs: []pdf.Text{t}})
		}
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].yMax > buckets[j].yMax })
	lines := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		sort.Slice(b.runs, func(x, y int) bool { return b.runs[x].X < b.runs[y].X })
		lines[i] = b.runs
	}
	return lines
}

// mergeLineRuns concatenates consecutive runs on one line while the gap to
// the previous run's right edge stays within the word-gap threshold; a wider
// gap starts a new fragment.
func (e *Extractor) mergeLineRuns(line []pdf.Text) []models.TextFragment {
	var frags []models.TextFragment
	var (
		text        strings.Builder
		x, y, right float64
		fontSize    float64
	)
	flush := func() {
		if text.Len() == 0 {
			return
		}
		w := right - x
		if w <= 0 {
			w = float64(utf8.RuneCountInString(text.String())) * e.config.CharWidth
		}
		frags = append(frags, models.TextFragment{
			Text: text.String(),
			X:    x,
			Y:    y,
			W:    w,
			H:    e.fragmentHeight(fontSize),
		})
		text.Reset()
	}

	for _, t := range line {
		if text.Len() > 0 && t.X-right > e.wordGap(t.FontSize) {
			flush()
		}
		if text.Len() == 0 {
			x, y, fontSize = t.X, t.Y, t.FontSize
			right = t.X + t.W
			text.WriteString(t.S)
			continue
		}
		if t.FontSize > fontSize {
			fontSize = t.FontSize
		}
		if t.Y < y {
			y = t.Y
		}
		if r := t.X + t.W; r > right {
			right = r
		}
		text.WriteString(t.S)
	}
	flush()
	return frags
}

// wordGap is the widest horizontal gap that still joins two runs into one
// fragment.
func (e *Extractor) wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = e.config.DefaultFragmentHeight
	}
	return fontSize * e.config.PDFWordGapFactor
}

// fragmentHeight substitutes the configured default when the source reports
// no size.
func (e *Extractor) fragmentHeight(fontSize float64) float64 {
	if fontSize <= 0 {
		return e.config.DefaultFragmentHeight
	}
	return fontSize
}
