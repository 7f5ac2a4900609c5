package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/shirushi/internal/models"
)

// odfContentPath is the path to the main content inside an OpenDocument zip.
const odfContentPath = "content.xml"

// odfParaEnd marks paragraph and heading boundaries in OpenDocument content.
var odfParaEnd = regexp.MustCompile(`</text:(?:p|h)>`)

// readODFContent unpacks content.xml from an OpenDocument archive.
func readODFContent(content []byte, format string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract %s: not a zip: %w", format, err)
	}
	contentXML, err := readZipFile(zr, odfContentPath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}
	if contentXML == nil {
		return "", fmt.Errorf("extract %s: %s not found", format, odfContentPath)
	}
	return string(contentXML), nil
}

// extractODT paginates an OpenDocument text file. The document carries no
// page markers, so paragraphs flow onto synthetic pages the way plain text
// does.
func (e *Extractor) extractODT(content []byte) ([]*models.PageContent, error) {
	s, err := readODFContent(content, "ODT")
	if err != nil {
		return nil, err
	}
	return e.paginateText(strings.Join(odfLines(s), "\n")), nil
}

// odfLines renders OpenDocument XML into one line per paragraph or heading.
// Inline markup (text:span and friends) is stripped in place rather than
// matched, so text nested in styled spans survives.
func odfLines(xml string) []string {
	var lines []string
	for _, chunk := range odfParaEnd.Split(xml, -1) {
		text := xmlEntities.Replace(tagStrip.ReplaceAllString(chunk, ""))
		if text = strings.TrimSpace(text); text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}
