package extract

// Config holds extraction layout policy. Geometry for formats that carry no
// positions (text, spreadsheets) is synthesized on a letter-sized page in
// bottom-up coordinates; the values are estimates, not measured layout. Zero
// values mean "use default".
type Config struct {
	// DefaultFragmentHeight substitutes for sources that report no height.
	DefaultFragmentHeight float64 `yaml:"default_fragment_height"` // default: 12
	// LinesPerPage is how many text lines form one synthetic page.
	LinesPerPage int `yaml:"lines_per_page"` // default: 40
	// CharWidth estimates the width of one character of synthetic text.
	CharWidth float64 `yaml:"char_width"` // default: 6
	// LineHeight is the vertical advance between synthetic lines.
	LineHeight float64 `yaml:"line_height"` // default: 16
	// PageHeight positions the first synthetic line near the page top.
	PageHeight float64 `yaml:"page_height"` // default: 792
	// MarginLeft indents synthetic fragments from the page edge.
	MarginLeft float64 `yaml:"margin_left"` // default: 72
	// MarginTop offsets the first synthetic line from the page top.
	MarginTop float64 `yaml:"margin_top"` // default: 72
	// GridCellWidth is the horizontal advance per spreadsheet column.
	GridCellWidth float64 `yaml:"grid_cell_width"` // default: 90
	// GridRowHeight is the vertical advance per spreadsheet row.
	GridRowHeight float64 `yaml:"grid_row_height"` // default: 18
	// PDFRowTolerance is the vertical distance within which PDF text runs
	// count as the same line.
	PDFRowTolerance float64 `yaml:"pdf_row_tolerance"` // default: 2
	// PDFWordGapFactor, multiplied by font size, is the widest horizontal
	// gap between runs that still concatenates them into one fragment.
	PDFWordGapFactor float64 `yaml:"pdf_word_gap_factor"` // default: 0.3
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultFragmentHeight: 12,
		LinesPerPage:          40,
		CharWidth:             6,
		LineHeight:            16,
		PageHeight:            792,
		MarginLeft:            72,
		MarginTop:             72,
		GridCellWidth:         90,
		GridRowHeight:         18,
		PDFRowTolerance:       2,
		PDFWordGapFactor:      0.3,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.DefaultFragmentHeight == 0 {
		c.DefaultFragmentHeight = defaults.DefaultFragmentHeight
	}
	if c.LinesPerPage == 0 {
		c.LinesPerPage = defaults.LinesPerPage
	}
	if c.CharWidth == 0 {
		c.CharWidth = defaults.CharWidth
	}
	if c.LineHeight == 0 {
		c.LineHeight = defaults.LineHeight
	}
	if c.PageHeight == 0 {
		c.PageHeight = defaults.PageHeight
	}
	if c.MarginLeft == 0 {
		c.MarginLeft = defaults.MarginLeft
	}
	if c.MarginTop == 0 {
		c.MarginTop = defaults.MarginTop
	}
	if c.GridCellWidth == 0 {
		c.GridCellWidth = defaults.GridCellWidth
	}
	if c.GridRowHeight == 0 {
		c.GridRowHeight = defaults.GridRowHeight
	}
	if c.PDFRowTolerance == 0 {
		c.PDFRowTolerance = defaults.PDFRowTolerance
	}
	if c.PDFWordGapFactor == 0 {
		c.PDFWordGapFactor = defaults.PDFWordGapFactor
	}
}
