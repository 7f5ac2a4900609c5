package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/shirushi/internal/models"
)

// extractExcel maps each sheet onto one page. Cells are positioned on a
// synthetic grid, columns GridCellWidth apart and rows GridRowHeight apart,
// descending from the top margin. Workbook geometry is not consulted, so the
// rectangles are approximate but stable.
func (e *Extractor) extractExcel(content []byte) ([]*models.PageContent, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var pages []*models.PageContent
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		pages = append(pages, finishPage(len(pages), e.gridFragments(rows)))
	}
	return pages, nil
}

// gridFragments places each non-empty cell at its grid position.
func (e *Extractor) gridFragments(rows [][]string) []models.TextFragment {
	var frags []models.TextFragment
	for r, row := range rows {
		y := e.config.PageHeight - e.config.MarginTop - float64(r)*e.config.GridRowHeight
		for c, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			frags = append(frags, models.TextFragment{
				Text: cell,
				X:    e.config.MarginLeft + float64(c)*e.config.GridCellWidth,
				Y:    y,
				W:    float64(utf8.RuneCountInString(cell)) * e.config.CharWidth,
				H:    e.config.DefaultFragmentHeight,
			})
		}
	}
	return frags
}
