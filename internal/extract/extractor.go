// Package extract produces positioned page content from document files.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/shirushi/internal/fragment"
	"github.com/hyperjump/shirushi/internal/models"
)

// Extractor extracts pages of positioned text fragments from document files.
type Extractor struct {
	config *Config
}

// NewExtractor returns an Extractor with the given config. A nil config uses
// defaults.
func NewExtractor(config *Config) *Extractor {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()
	return &Extractor{config: config}
}

// ExtractFile reads the file at path and returns its pages. PDF pages carry
// real positions; slide formats map one slide to one page; spreadsheets map
// one sheet to one page on a synthetic grid; text-like formats are paginated
// by line count with estimated geometry. Returns an error if the file cannot
// be read or parsed.
func (e *Extractor) ExtractFile(path string) ([]*models.PageContent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts pages from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Unknown extensions are
// treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) ([]*models.PageContent, error) {
	switch ext {
	case ".pdf":
		return e.extractPDF(content)
	case ".docx":
		return e.extractDOCX(content)
	case ".odt":
		return e.extractODT(content)
	case ".xlsx":
		return e.extractExcel(content)
	case ".pptx":
		return e.extractPPTX(content)
	case ".odp":
		return e.extractODP(content)
	case ".ods":
		return e.extractODS(content)
	case ".md", ".markdown":
		return e.extractMarkdown(content)
	case ".txt", ".rst", ".rtf", "":
		return e.extractPlain(content)
	default:
		// Unknown extension: treat as plain text
		return e.extractPlain(content)
	}
}

// finishPage assigns the page index and derives the advisory full text from
// the fragments with the same separator policy the engine uses internally.
func finishPage(index int, frags []models.TextFragment) *models.PageContent {
	return &models.PageContent{
		PageIndex: index,
		FullText:  fragment.BuildIndex(frags).Text,
		Fragments: frags,
	}
}
