package match

// Config holds the fuzzy-match thresholds. Zero values mean "use default";
// tune per document-layout family rather than editing call sites.
type Config struct {
	// MinTermRatio is the fraction of needle key terms that must have a
	// haystack counterpart for a match.
	MinTermRatio float64 `yaml:"min_term_ratio"` // default: 0.6
	// MinAbsoluteMatches accepts a match once this many needle terms hit,
	// regardless of ratio. Rescues short needles from percentage rounding.
	MinAbsoluteMatches int `yaml:"min_absolute_matches"` // default: 2
	// MinWordLength is the shortest non-numeric token kept as a key term.
	MinWordLength int `yaml:"min_word_length"` // default: 4
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() *Config {
	return &Config{
		MinTermRatio:       0.6,
		MinAbsoluteMatches: 2,
		MinWordLength:      4,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.MinTermRatio == 0 {
		c.MinTermRatio = defaults.MinTermRatio
	}
	if c.MinAbsoluteMatches == 0 {
		c.MinAbsoluteMatches = defaults.MinAbsoluteMatches
	}
	if c.MinWordLength == 0 {
		c.MinWordLength = defaults.MinWordLength
	}
}
