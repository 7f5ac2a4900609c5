package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/shirushi/internal/models"
)

// extractPlain paginates UTF-8 text by line count. Invalid UTF-8 sequences
// are replaced with the replacement character before pagination.
func (e *Extractor) extractPlain(content []byte) ([]*models.PageContent, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return e.paginateText(text), nil
}

// paginateText lays lines onto synthetic pages, LinesPerPage per page. The
// output always holds at least one page so even an empty document has a
// scannable index zero.
func (e *Extractor) paginateText(text string) []*models.PageContent {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var pages []*models.PageContent
	for start := 0; start < len(lines); start += e.config.LinesPerPage {
		end := start + e.config.LinesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, finishPage(len(pages), e.lineFragments(lines[start:end])))
	}
	return pages
}

// lineFragments positions lines on a single page, first line at the top
// margin, descending by LineHeight. Blank lines advance the cursor but emit
// nothing; widths are monospace estimates.
func (e *Extractor) lineFragments(lines []string) []models.TextFragment {
	var frags []models.TextFragment
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		frags = append(frags, models.TextFragment{
			Text: line,
			X:    e.config.MarginLeft,
			Y:    e.config.PageHeight - e.config.MarginTop - float64(i)*e.config.LineHeight,
			W:    float64(utf8.RuneCountInString(line)) * e.config.CharWidth,
			H:    e.config.DefaultFragmentHeight,
		})
	}
	return frags
}
