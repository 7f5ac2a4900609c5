package geom

// Config holds the rectangle-merging tolerances, in page units. Zero values
// mean "use default"; tune per document-layout family.
type Config struct {
	// LineTolerance is the maximum vertical distance between two rectangle
	// origins still considered the same visual line.
	LineTolerance float64 `yaml:"line_tolerance"` // default: 5
	// GapTolerance is the widest horizontal gap between same-line rectangles
	// that still merges them.
	GapTolerance float64 `yaml:"gap_tolerance"` // default: 10
}

// DefaultConfig returns the default merging configuration.
func DefaultConfig() *Config {
	return &Config{
		LineTolerance: 5,
		GapTolerance:  10,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.LineTolerance == 0 {
		c.LineTolerance = defaults.LineTolerance
	}
	if c.GapTolerance == 0 {
		c.GapTolerance = defaults.GapTolerance
	}
}
