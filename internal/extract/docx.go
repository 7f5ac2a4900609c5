package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/shirushi/internal/models"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

// docxMainContentType is the content type for the main document in DOCX files.
const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t> (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// partNameRe extracts PartName from Override elements in [Content_Types].xml.
var partNameRe = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)

// partNameRe2 handles the case where ContentType appears before PartName.
var partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)

// findDocxMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findDocxMainDocumentPath(zr *zip.Reader) string {
	content, err := readZipFile(zr, contentTypesPath)
	if err != nil || content == nil {
		return ""
	}
	// Try both attribute orders
	if matches := partNameRe.FindStringSubmatch(string(content)); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	if matches := partNameRe2.FindStringSubmatch(string(content)); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	return ""
}

// extractDOCX extracts paragraph text from .docx bytes and paginates it.
// DOCX is a ZIP containing word/document.xml (OOXML). We take every
// <w:t>...</w:t> text node so content survives regardless of paragraph/run
// attributes, and treat each </w:p> as a line break. We do not use lu4p/cat
// because its regex only matches <w:p>(.*)</w:p> without attributes, so
// real-world docs (e.g. <w:p w:rsidR="...">) yield empty.
func (e *Extractor) extractDOCX(content []byte) ([]*models.PageContent, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract DOCX: not a zip: %w", err)
	}

	docPath := findDocxMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}

	docXML, err := readZipFile(zr, docPath)
	if err != nil {
		return nil, fmt.Errorf("extract DOCX: %w", err)
	}
	if docXML == nil {
		return nil, fmt.Errorf("extract DOCX: %s not found", docPath)
	}

	lines := paragraphLines(string(docXML), "</w:p>", wtTag)
	return e.paginateText(strings.Join(lines, "\n")), nil
}
