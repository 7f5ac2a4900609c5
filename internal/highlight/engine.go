// Package highlight implements the phrase-location engine: it maps a query
// phrase onto the page and rectangles to highlight, with layered fallback
// from exact span to key-term cluster to placeholder.
package highlight

import (
	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/fragment"
	"github.com/hyperjump/shirushi/internal/geom"
	"github.com/hyperjump/shirushi/internal/match"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/span"
)

// Engine locates phrases in extracted pages. It performs no I/O, holds no
// locks and keeps no reference to inputs or results after returning, so one
// Engine may serve concurrent calls as long as callers do not mutate shared
// page data mid-call.
type Engine struct {
	config   *Config
	locator  *Locator
	resolver *span.Resolver
	builder  *geom.Builder
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine from config, filling unset values with
// defaults. A nil config uses all defaults.
func NewEngine(config *Config, opts ...Option) *Engine {
	if config == nil {
		config = &Config{}
	}
	config.ApplyDefaults()

	e := &Engine{
		config:   config,
		locator:  NewLocator(match.NewMatcher(&config.Match)),
		resolver: span.NewResolver(&config.Span),
		builder:  geom.NewBuilder(&config.Geom),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindPhrase locates the query phrase in pages and returns a highlight for
// the first qualifying page. Returns ErrNotFound when no page plausibly
// contains the phrase. When a page qualifies but neither an exact nor a
// partial span resolves inside it, the highlight degrades to one
// fixed-position placeholder rectangle with Approximate set.
func (e *Engine) FindPhrase(query *models.PhraseQuery, pages []*models.PageContent) (*models.Highlight, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pageIndex, ok := e.locator.Locate(query.Phrase, query.PageHint, pages)
	if !ok {
		return nil, ErrNotFound
	}
	page := pages[pageIndex]

	var rects []models.Rect
	idx := fragment.BuildIndex(page.Fragments)
	if touched, resolved := e.resolver.Resolve(query.Phrase, idx); resolved {
		rects = e.builder.Build(touched, page.Fragments)
	}

	approximate := false
	if len(rects) == 0 {
		approximate = true
		rects = []models.Rect{e.placeholderRect()}
		e.logger.Debug("span unresolved, using placeholder rectangle",
			zap.String("phrase", query.Phrase),
			zap.String("highlight_id", query.ID),
			zap.Int("page_index", pageIndex))
	}

	return &models.Highlight{
		ID:          query.ID,
		Phrase:      query.Phrase,
		PageIndex:   pageIndex,
		Rects:       rects,
		Approximate: approximate,
	}, nil
}

// placeholderRect builds the fallback rectangle from config.
func (e *Engine) placeholderRect() models.Rect {
	p := e.config.Placeholder
	return models.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}
