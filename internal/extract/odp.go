package extract

import (
	"regexp"

	"github.com/hyperjump/shirushi/internal/models"
)

// drawPageStart marks slide boundaries in OpenDocument presentation content.
// The character class keeps it from matching longer element names such as
// draw:page-thumbnail.
var drawPageStart = regexp.MustCompile(`<draw:page[\s>]`)

// extractODP maps each draw:page onto one page. ODP is a ZIP containing
// content.xml (OpenDocument); paragraphs and headings inside a slide become
// lines on its page.
func (e *Extractor) extractODP(content []byte) ([]*models.PageContent, error) {
	s, err := readODFContent(content, "ODP")
	if err != nil {
		return nil, err
	}

	chunks := drawPageStart.Split(s, -1)
	if len(chunks) < 2 {
		// No slide markers; treat the whole document as one page.
		return []*models.PageContent{finishPage(0, e.lineFragments(odfLines(s)))}, nil
	}

	pages := make([]*models.PageContent, 0, len(chunks)-1)
	for _, chunk := range chunks[1:] {
		pages = append(pages, finishPage(len(pages), e.lineFragments(odfLines(chunk))))
	}
	return pages, nil
}
