// Package render lays out a document as styled, wrapped text lines.
//
// Each root paragraph is rendered independently into a block of lines and
// a cursor map. Blocks of paragraphs that hold neither the cursor nor part
// of the selection are memoized in a Cache keyed by paragraph identity,
// content hash and layout parameters. A cached block stores positions and
// line numbers relative to its root and is re-rooted when reused, so a
// render served from the cache is identical to a cold render.
package render

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/segment"
	"github.com/dshills/inkwell/internal/theme"
)

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// Renderer renders documents. It is safe for concurrent use; renders are
// serialized.
type Renderer struct {
	mu    sync.Mutex
	theme *theme.Theme
	tabs  *TabExpander
	cache *Cache
	log   *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t *theme.Theme) Option {
	return func(r *Renderer) {
		if t != nil {
			r.theme = t
		}
	}
}

// WithCache sets the render cache. Passing nil disables caching.
func WithCache(c *Cache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithTabWidth sets the tab width.
func WithTabWidth(w int) Option {
	return func(r *Renderer) {
		r.tabs = NewTabExpander(w)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a renderer with the default theme and a default sized cache.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		theme: theme.Default(),
		tabs:  NewTabExpander(DefaultTabWidth),
		cache: NewCache(DefaultMaxEntries),
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Cache returns the render cache, or nil when caching is disabled.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Theme returns the active theme.
func (r *Renderer) Theme() *theme.Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// SetTheme replaces the theme and drops every cached block.
func (r *Renderer) SetTheme(t *theme.Theme) {
	if t == nil {
		return
	}
	r.mu.Lock()
	r.theme = t
	r.mu.Unlock()
	if r.cache != nil {
		r.cache.Invalidate()
	}
	r.log.Debug("theme replaced", zap.String("theme", t.Name))
}

// TabWidth returns the tab width.
func (r *Renderer) TabWidth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tabs.TabWidth()
}

// SetTabWidth changes the tab width and drops every cached block, since
// the cache key does not carry it. It reports whether the width changed.
func (r *Renderer) SetTabWidth(w int) bool {
	tabs := NewTabExpander(w)
	r.mu.Lock()
	if tabs.TabWidth() == r.tabs.TabWidth() {
		r.mu.Unlock()
		return false
	}
	r.tabs = tabs
	r.mu.Unlock()
	if r.cache != nil {
		r.cache.Invalidate()
	}
	r.log.Debug("tab width changed", zap.Int("tab_width", tabs.TabWidth()))
	return true
}

// Render lays out doc. x must be the current segment index of doc.
func (r *Renderer) Render(doc *document.Document, x *segment.Index, opts Options) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{}
	width := max(opts.WrapWidth, 1)
	l := &layouter{
		theme:   r.theme,
		tabs:    r.tabs,
		x:       x,
		reveal:  x.Reveal(),
		width:   width,
		limit:   max(width-1, 1),
		padding: strings.Repeat(" ", max(opts.LeftPadding, 0)),
		sel:     opts.Selection,
	}

	var hits, misses, flushes int
	contentBase := 0
	prevChecklist := false
	emitted := false
	for i, p := range doc.Paragraphs {
		start, end := x.RootRange(i)

		var b *block
		active := r.active(opts, start, end)
		key := CacheKey{ID: p.ID, Hash: p.Hash(), Width: width, Padding: opts.LeftPadding, Reveal: x.Reveal()}
		if !active && r.cache != nil {
			if cached, ok := r.cache.get(key); ok {
				b = cached
				hits++
			}
		}
		if b == nil {
			b = l.root(p, i)
			if !active && r.cache != nil {
				misses++
				if r.cache.put(key, b) {
					flushes++
				}
			}
		}
		if len(b.lines) == 0 {
			continue
		}

		checklist := p.Type == document.TypeChecklistItem
		if emitted && !(prevChecklist && checklist) {
			res.Lines = append(res.Lines, Line{})
			res.Metrics = append(res.Metrics, LineMetric{Kind: LineBlank, Root: -1, ContentLine: -1})
		}
		emitted = true
		prevChecklist = checklist

		lineBase := len(res.Lines)
		for j, line := range b.lines {
			m := LineMetric{Kind: b.kinds[j], Root: i, ContentLine: -1, Width: line.Width()}
			if m.Kind == LineText {
				m.ContentLine = contentBase
				contentBase++
			}
			res.Lines = append(res.Lines, line)
			res.Metrics = append(res.Metrics, m)
		}
		r.place(res, b, opts, start, lineBase, res.Metrics)
	}

	if r.cache != nil {
		r.log.Debug("render",
			zap.Int("roots", len(doc.Paragraphs)),
			zap.Int("lines", len(res.Lines)),
			zap.Int("cacheHits", hits),
			zap.Int("cacheMisses", misses),
			zap.Int("cacheFlushes", flushes),
		)
	}
	return res
}

// active reports whether the root spanning segments [start, end) must be
// rendered fresh because it holds the cursor or part of the selection.
func (r *Renderer) active(opts Options, start, end int) bool {
	if opts.Cursor != nil && opts.Cursor.Segment >= start && opts.Cursor.Segment < end {
		return true
	}
	if s := opts.Selection; s != nil && s.Start.Segment < end && s.End.Segment >= start {
		return true
	}
	return false
}

// place re-roots a block's cursor map into res.
func (r *Renderer) place(res *Result, b *block, opts Options, rootStart, lineBase int, metrics []LineMetric) {
	for _, e := range b.entries {
		pos := cursor.Position{Segment: e.Position.Segment + rootStart, Offset: e.Position.Offset}
		v := e.Visual
		v.Line += lineBase
		v.ContentLine = metrics[v.Line].ContentLine
		if opts.TrackPositions {
			res.CursorMap = append(res.CursorMap, MapEntry{Position: pos, Visual: v})
		}
		if opts.Cursor != nil && res.Cursor == nil && pos == *opts.Cursor {
			vp := v
			res.Cursor = &vp
		}
	}
}

// Lookup returns the visual position of pos in a tracked result.
func (res *Result) Lookup(pos cursor.Position) (VisualPosition, bool) {
	for _, e := range res.CursorMap {
		if e.Position == pos {
			return e.Visual, true
		}
	}
	return VisualPosition{}, false
}

// PositionAt returns the cursor position nearest to the given content line
// and content column in a tracked result. Columns past the end of the line
// resolve to the line's last position.
func (res *Result) PositionAt(contentLine, contentColumn int) (cursor.Position, bool) {
	var best *MapEntry
	for i := range res.CursorMap {
		e := &res.CursorMap[i]
		if e.Visual.ContentLine != contentLine {
			continue
		}
		switch {
		case best == nil:
			best = e
		case e.Visual.ContentColumn <= contentColumn && e.Visual.ContentColumn > best.Visual.ContentColumn:
			best = e
		}
	}
	if best == nil {
		return cursor.Position{}, false
	}
	return best.Position, true
}
