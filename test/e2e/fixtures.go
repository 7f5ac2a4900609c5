// Package e2e exercises the full open-and-find pipeline over real files;
// this file builds minimal binary files for the supported types.
package e2e

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions is the list of file extensions used in the
// file-based tests. Covers plain text (.txt, .md, .rst), OOXML
// (.docx, .xlsx, .pptx) and OpenDocument (.odp, .ods). The extractor also
// supports .pdf, .odt and .rtf; a minimal PDF with extractable positioned
// text is not generated here, and .odt/.rtf paginate the same way plain
// text does.
var SupportedFileExtensions = []string{
	".txt", ".md", ".rst",
	".docx", ".xlsx", ".pptx", ".odp", ".ods",
}

// PreservesPages reports whether the extension keeps one fixture page per
// extracted page. Slide decks and spreadsheets have real page boundaries
// (slides, sheets); flat formats flow onto synthetic pages, which for short
// fixtures means everything lands on page zero.
func PreservesPages(ext string) bool {
	switch ext {
	case ".pptx", ".odp", ".ods", ".xlsx":
		return true
	}
	return false
}

// BuildMinimalFile returns the bytes of a minimal file of the given
// extension whose pages hold the given texts. Page-preserving formats emit
// one slide, draw page or sheet per entry; flat formats join the entries
// with blank lines.
func BuildMinimalFile(ext string, pageTexts ...string) ([]byte, error) {
	switch ext {
	case ".txt", ".md", ".rst":
		return []byte(strings.Join(pageTexts, "\n\n")), nil
	case ".docx":
		return minimalDocx(pageTexts), nil
	case ".pptx":
		return minimalPptx(pageTexts), nil
	case ".odp":
		return minimalOdp(pageTexts), nil
	case ".ods":
		return minimalOds(pageTexts), nil
	case ".xlsx":
		return minimalXlsx(pageTexts)
	default:
		return nil, fmt.Errorf("no minimal file builder for %s", ext)
	}
}

func minimalDocx(texts []string) []byte {
	var body strings.Builder
	for _, text := range texts {
		body.WriteString(`<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func minimalPptx(texts []string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i, text := range texts {
		fw, _ := w.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		_, _ = fw.Write([]byte(`<p:sld xmlns:p="a" xmlns:a="b"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`))
	}
	_ = w.Close()
	return buf.Bytes()
}

func minimalOdp(texts []string) []byte {
	var body strings.Builder
	for _, text := range texts {
		body.WriteString(`<draw:page><draw:text-box><text:p>` + text + `</text:p></draw:text-box></draw:page>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("content.xml")
	_, _ = fw.Write([]byte(`<office:document><office:body>` + body.String() + `</office:body></office:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func minimalOds(texts []string) []byte {
	var body strings.Builder
	for _, text := range texts {
		body.WriteString(`<table:table><table:table-row><table:table-cell><text:p>` + text + `</text:p></table:table-cell></table:table-row></table:table>`)
	}
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("content.xml")
	_, _ = fw.Write([]byte(`<office:document><office:body>` + body.String() + `</office:body></office:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func minimalXlsx(texts []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	for i, text := range texts {
		sheet := fmt.Sprintf("Sheet%d", i+1)
		if i > 0 {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellValue(sheet, "A1", text); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
