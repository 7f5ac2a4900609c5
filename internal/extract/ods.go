package extract

import (
	"regexp"

	"github.com/hyperjump/shirushi/internal/models"
)

// tableStart marks sheet boundaries in OpenDocument spreadsheet content
// without matching table:table-row or table:table-cell.
var tableStart = regexp.MustCompile(`<table:table[\s>]`)

// extractODS maps each sheet onto one page. ODS is a ZIP containing
// content.xml (OpenDocument); every cell paragraph becomes its own line, so
// positions are line-shaped rather than grid-shaped.
func (e *Extractor) extractODS(content []byte) ([]*models.PageContent, error) {
	s, err := readODFContent(content, "ODS")
	if err != nil {
		return nil, err
	}

	chunks := tableStart.Split(s, -1)
	if len(chunks) < 2 {
		// No sheet markers; treat the whole document as one page.
		return []*models.PageContent{finishPage(0, e.lineFragments(odfLines(s)))}, nil
	}

	pages := make([]*models.PageContent, 0, len(chunks)-1)
	for _, chunk := range chunks[1:] {
		pages = append(pages, finishPage(len(pages), e.lineFragments(odfLines(chunk))))
	}
	return pages, nil
}
