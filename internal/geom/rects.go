// Package geom turns located fragments into highlight rectangles and merges
// rectangles that share a visual line.
package geom

import (
	"math"
	"sort"

	"github.com/hyperjump/shirushi/internal/models"
)

// Builder converts fragments to rectangles and merges neighbors.
type Builder struct {
	config *Config
}

// NewBuilder creates a Builder with the given config. A nil config uses
// defaults.
func NewBuilder(config *Config) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Builder{config: config}
}

// Build maps the touched fragment indices onto rectangles using each
// fragment's stored origin and size, then merges same-line neighbors.
// Coordinates stay in the fragments' bottom-up space; axis conversion is a
// rendering concern. Indices out of range are skipped.
func (b *Builder) Build(indices []int, fragments []models.TextFragment) []models.Rect {
	ordered := make([]int, len(indices))
	copy(ordered, indices)
	sort.Ints(ordered)

	rects := make([]models.Rect, 0, len(ordered))
	for _, i := range ordered {
		if i < 0 || i >= len(fragments) {
			continue
		}
		f := fragments[i]
		rects = append(rects, models.Rect{X: f.X, Y: f.Y, W: f.W, H: f.H})
	}
	return b.Merge(rects)
}

// Merge folds rectangles that sit on the same visual line (origins within
// LineTolerance) and are horizontally adjacent or overlapping (gap at most
// GapTolerance) into their bounding union. Output is ordered by ascending y,
// then ascending x, i.e. bottom-up reading order in page coordinates.
func (b *Builder) Merge(rects []models.Rect) []models.Rect {
	if len(rects) <= 1 {
		return rects
	}

	sorted := make([]models.Rect, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	merged := make([]models.Rect, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if b.sameLine(current, next) && b.adjacent(current, next) {
			current = union(current, next)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// sameLine reports whether two rectangles belong to one visual line.
func (b *Builder) sameLine(a, r models.Rect) bool {
	return math.Abs(a.Y-r.Y) < b.config.LineTolerance
}

// adjacent reports whether next starts before current's right edge plus the
// gap tolerance. Callers guarantee next.X >= current.X via sorting.
func (b *Builder) adjacent(current, next models.Rect) bool {
	return next.X <= current.X+current.W+b.config.GapTolerance
}

// union returns the bounding rectangle: minimum origin, width to the farther
// right edge, and the larger of the two heights.
func union(a, r models.Rect) models.Rect {
	x := math.Min(a.X, r.X)
	y := math.Min(a.Y, r.Y)
	right := math.Max(a.Right(), r.Right())
	return models.Rect{X: x, Y: y, W: right - x, H: math.Max(a.H, r.H)}
}
