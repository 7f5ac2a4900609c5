package highlight

import (
	"github.com/hyperjump/shirushi/internal/geom"
	"github.com/hyperjump/shirushi/internal/match"
	"github.com/hyperjump/shirushi/internal/span"
)

// Config aggregates every policy knob of the engine so one document can tune
// matching, span resolution, merging, and the fallback geometry together.
type Config struct {
	Match       match.Config      `yaml:"match"`
	Span        span.Config       `yaml:"span"`
	Geom        geom.Config       `yaml:"geom"`
	Placeholder PlaceholderConfig `yaml:"placeholder"`
}

// PlaceholderConfig fixes where the approximate fallback rectangle is drawn
// when a page matches but no span resolves. The position assumes a roughly
// letter-sized page and will sit oddly on other layouts.
type PlaceholderConfig struct {
	X float64 `yaml:"x"` // default: 72
	Y float64 `yaml:"y"` // default: 700
	W float64 `yaml:"w"` // default: 200
	H float64 `yaml:"h"` // default: 16
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Match:       *match.DefaultConfig(),
		Span:        *span.DefaultConfig(),
		Geom:        *geom.DefaultConfig(),
		Placeholder: PlaceholderConfig{X: 72, Y: 700, W: 200, H: 16},
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	c.Match.ApplyDefaults()
	c.Span.ApplyDefaults()
	c.Geom.ApplyDefaults()

	defaults := DefaultConfig()
	if c.Placeholder.X == 0 {
		c.Placeholder.X = defaults.Placeholder.X
	}
	if c.Placeholder.Y == 0 {
		c.Placeholder.Y = defaults.Placeholder.Y
	}
	if c.Placeholder.W == 0 {
		c.Placeholder.W = defaults.Placeholder.W
	}
	if c.Placeholder.H == 0 {
		c.Placeholder.H = defaults.Placeholder.H
	}
}
