package span

// Config holds the span-resolution thresholds. Zero values mean "use
// default".
type Config struct {
	// ContextBefore is how many characters before a candidate term the
	// partial pass includes in its scoring window.
	ContextBefore int `yaml:"context_before"` // default: 50
	// ContextAfter is how many characters after a candidate term the partial
	// pass includes in its scoring window.
	ContextAfter int `yaml:"context_after"` // default: 100
	// MaxSpanLength caps the normalized length of a partial-pass span.
	MaxSpanLength int `yaml:"max_span_length"` // default: 100
	// MinWindowRatio is the fraction of key terms that must appear inside a
	// candidate window (at least one term always required).
	MinWindowRatio float64 `yaml:"min_window_ratio"` // default: 0.5
	// MinWordLength is the shortest non-numeric token kept as a key term.
	MinWordLength int `yaml:"min_word_length"` // default: 4
}

// DefaultConfig returns the default span-resolution configuration.
func DefaultConfig() *Config {
	return &Config{
		ContextBefore:  50,
		ContextAfter:   100,
		MaxSpanLength:  100,
		MinWindowRatio: 0.5,
		MinWordLength:  4,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.ContextBefore == 0 {
		c.ContextBefore = defaults.ContextBefore
	}
	if c.ContextAfter == 0 {
		c.ContextAfter = defaults.ContextAfter
	}
	if c.MaxSpanLength == 0 {
		c.MaxSpanLength = defaults.MaxSpanLength
	}
	if c.MinWindowRatio == 0 {
		c.MinWindowRatio = defaults.MinWindowRatio
	}
	if c.MinWordLength == 0 {
		c.MinWordLength = defaults.MinWordLength
	}
}
