package term

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/render/core"
)

// draw renders the session and paints one frame.
func (e *Editor) draw() {
	w, h := e.screen.Size()
	rows := max(h-1, 1)
	e.display.SetViewHeight(rows)

	res := e.display.Render(e.wrapWidth(w), e.settings.LeftPadding, nil)
	e.scroll(res, rows)

	e.screen.Clear()
	for y := 0; y < rows && e.top+y < len(res.Lines); y++ {
		e.drawLine(y, w, res.Lines[e.top+y])
	}
	if h > 1 {
		e.drawStatus(h-1, w)
	}

	if c := res.Cursor; c != nil && c.Line >= e.top && c.Line < e.top+rows {
		e.screen.ShowCursor(c.Column, c.Line-e.top)
	} else {
		e.screen.HideCursor()
	}
	e.screen.Show()
}

// wrapWidth is the configured width, narrowed to fit the screen.
func (e *Editor) wrapWidth(screen int) int {
	return max(min(e.settings.WrapWidth, screen-e.settings.LeftPadding), 1)
}

// scroll keeps the cursor line inside the view and the view inside the
// document.
func (e *Editor) scroll(res *render.Result, rows int) {
	if e.follow && res.Cursor != nil {
		line := res.Cursor.Line
		if line < e.top {
			e.top = line
		}
		if line >= e.top+rows {
			e.top = line - rows + 1
		}
	}
	e.top = max(min(e.top, len(res.Lines)-rows), 0)
}

func (e *Editor) drawLine(y, width int, l render.Line) {
	x := 0
	for _, run := range l.Runs {
		x = e.drawText(x, y, width, run.Text, convertStyle(run.Style))
	}
}

// drawText paints s from column x and returns the column after it.
func (e *Editor) drawText(x, y, width int, s string, style tcell.Style) int {
	core.Graphemes(s, func(cluster string, _, w int) {
		if x >= width {
			return
		}
		runes := []rune(cluster)
		e.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(w, 1)
	})
	return x
}

func (e *Editor) drawStatus(y, width int) {
	style := tcell.StyleDefault.Reverse(true)
	for x := range width {
		e.screen.SetContent(x, y, ' ', nil, style)
	}

	left := " " + filepath.Base(e.path)
	if e.dirty {
		left += " [+]"
	}
	if e.session.Reveal() {
		left += " [reveal]"
	}
	if crumbs := e.session.Breadcrumbs(); len(crumbs) > 0 {
		left += "  " + strings.Join(crumbs, " > ")
	}
	e.drawText(0, y, width, left, style)

	if e.status != "" {
		msg := e.status + " "
		e.drawText(max(width-core.StringWidth(msg), 0), y, width, msg, style)
	}
}

// convertStyle converts a render style to a tcell style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

func convertColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
