package editor

import (
	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/render"
)

// Display renders a session and translates between screen coordinates and
// cursor positions using the cursor map of the last render.
type Display struct {
	session      *Session
	renderer     *render.Renderer
	pageFraction float64

	last    *render.Result
	width   int
	padding int
	height  int
	reveal  bool

	// preferred is the content column kept across vertical moves. It is
	// valid while the cursor is still at preferredAt.
	preferred   int
	preferredAt *cursor.Position
}

// NewDisplay creates a display for s.
func NewDisplay(s *Session, opts ...DisplayOption) *Display {
	d := &Display{
		session:      s,
		pageFraction: DefaultPageFraction,
		width:        80,
		height:       24,
		reveal:       s.Reveal(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.renderer == nil {
		d.renderer = render.New(render.WithLogger(s.log))
	}
	return d
}

// Renderer returns the display's renderer.
func (d *Display) Renderer() *render.Renderer {
	return d.renderer
}

// SetViewHeight sets the number of screen lines a page move is based on.
func (d *Display) SetViewHeight(h int) {
	if h > 0 {
		d.height = h
	}
}

// Render lays out the session. A nil sel uses the session's own selection.
// The cursor map is always tracked.
func (d *Display) Render(wrapWidth, leftPadding int, sel *render.Selection) *render.Result {
	s := d.session
	if d.reveal != s.Reveal() {
		d.InvalidateCache()
		d.reveal = s.Reveal()
	}
	if sel == nil {
		if own, ok := s.Selection(); ok {
			sel = &own
		}
	}
	pos := s.Position()
	d.width, d.padding = wrapWidth, leftPadding
	d.last = d.renderer.Render(s.Document(), s.Index(), render.Options{
		WrapWidth:      wrapWidth,
		LeftPadding:    leftPadding,
		Cursor:         &pos,
		Selection:      sel,
		TrackPositions: true,
	})
	return d.last
}

// Last returns the result of the most recent render, or nil.
func (d *Display) Last() *render.Result {
	return d.last
}

// InvalidateCache drops every cached paragraph rendering.
func (d *Display) InvalidateCache() {
	if c := d.renderer.Cache(); c != nil {
		c.Invalidate()
	}
}

// refresh re-renders with the last layout parameters.
func (d *Display) refresh() *render.Result {
	return d.Render(d.width, d.padding, nil)
}

// PointerAt returns the cursor pointer closest to a screen line and column
// of the last render. Blank and decoration lines resolve to the nearest
// content line below them, or above when there is none.
func (d *Display) PointerAt(line, column int) (cursor.Pointer, bool) {
	pos, ok := d.positionAt(line, column)
	if !ok {
		return cursor.Pointer{}, false
	}
	return cursor.PointerAt(d.session.Index(), pos), true
}

// MoveTo puts the cursor at a screen line and column of the last render.
func (d *Display) MoveTo(line, column int) bool {
	pos, ok := d.positionAt(line, column)
	if !ok {
		return false
	}
	d.preferredAt = nil
	return d.session.moveTo(pos, true)
}

func (d *Display) positionAt(line, column int) (cursor.Position, bool) {
	res := d.last
	if res == nil || line < 0 || line >= len(res.Metrics) {
		return cursor.Position{}, false
	}
	content := -1
	for i := line; i < len(res.Metrics) && content < 0; i++ {
		content = res.Metrics[i].ContentLine
	}
	for i := line; i >= 0 && content < 0; i-- {
		content = res.Metrics[i].ContentLine
	}
	if content < 0 {
		return cursor.Position{}, false
	}
	return res.PositionAt(content, column-d.padding)
}

// MoveVisual moves the cursor delta wrapped lines up (negative) or down,
// keeping the column it had when vertical movement started.
func (d *Display) MoveVisual(delta int) bool {
	if delta == 0 {
		return false
	}
	s := d.session
	res := d.refresh()
	if res.Cursor == nil {
		return false
	}
	cur := *res.Cursor

	col := cur.ContentColumn
	if d.preferredAt != nil && *d.preferredAt == s.Position() {
		col = d.preferred
	}
	target := max(0, min(cur.ContentLine+delta, res.ContentLines()-1))
	if target == cur.ContentLine {
		return false
	}
	pos, ok := res.PositionAt(target, col)
	if !ok {
		return false
	}
	s.moveTo(pos, true)
	d.preferred = col
	at := s.Position()
	d.preferredAt = &at
	return true
}

// MovePage moves by a page: a fraction of the view height, in direction
// dir (negative is up).
func (d *Display) MovePage(dir int) bool {
	lines := max(int(float64(d.height)*d.pageFraction), 1)
	switch {
	case dir < 0:
		return d.MoveVisual(-lines)
	case dir > 0:
		return d.MoveVisual(lines)
	default:
		return false
	}
}

// VisualLineStart moves to the first position of the cursor's wrapped line.
func (d *Display) VisualLineStart() bool {
	return d.visualLineEdge(false)
}

// VisualLineEnd moves to the last position of the cursor's wrapped line.
func (d *Display) VisualLineEnd() bool {
	return d.visualLineEdge(true)
}

func (d *Display) visualLineEdge(end bool) bool {
	res := d.refresh()
	if res.Cursor == nil {
		return false
	}
	line := res.Cursor.ContentLine
	var best *render.MapEntry
	for i := range res.CursorMap {
		e := &res.CursorMap[i]
		if e.Visual.ContentLine != line {
			continue
		}
		switch {
		case best == nil:
			best = e
		case end && e.Visual.ContentColumn >= best.Visual.ContentColumn:
			best = e
		case !end && e.Visual.ContentColumn < best.Visual.ContentColumn:
			best = e
		}
	}
	if best == nil {
		return false
	}
	d.preferredAt = nil
	return d.session.moveTo(best.Position, true)
}
