package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/hyperjump/shirushi/internal/models"
)

// slidePathRe matches slide XML files inside a .pptx zip and captures the
// slide number.
var slidePathRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// atTag matches <a:t>text</a:t> or <a:t xml:space="preserve">text</a:t> (and any other attributes).
var atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

// extractPPTX maps each slide onto one page. PPTX is a ZIP containing
// ppt/slides/slideN.xml (Office Open XML); zip entries carry no ordering
// guarantee, so slides are visited in numeric order. Text nodes
// (<a:t>...</a:t>) join per paragraph, one paragraph per line.
func (e *Extractor) extractPPTX(content []byte) ([]*models.PageContent, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract PPTX: not a zip: %w", err)
	}

	type slide struct {
		num  int
		name string
	}
	var slides []slide
	for _, f := range zr.File {
		m := slidePathRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slide{num: num, name: f.Name})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	pages := make([]*models.PageContent, 0, len(slides))
	for _, s := range slides {
		slideXML, err := readZipFile(zr, s.name)
		if err != nil {
			return nil, fmt.Errorf("extract PPTX: %w", err)
		}
		lines := paragraphLines(string(slideXML), "</a:p>", atTag)
		pages = append(pages, finishPage(len(pages), e.lineFragments(lines)))
	}
	return pages, nil
}
