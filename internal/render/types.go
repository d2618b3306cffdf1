package render

import (
	"strings"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/render/core"
)

// LineKind classifies a rendered line.
type LineKind uint8

// Line kinds.
const (
	// LineText holds paragraph content. Only text lines count as content lines.
	LineText LineKind = iota
	// LineBlank separates root paragraphs.
	LineBlank
	// LineDecoration is structural output such as heading rules and code fences.
	LineDecoration
)

// String returns the kind name.
func (k LineKind) String() string {
	switch k {
	case LineText:
		return "text"
	case LineBlank:
		return "blank"
	case LineDecoration:
		return "decoration"
	default:
		return "unknown"
	}
}

// Run is a span of text drawn with one style.
type Run struct {
	Text  string
	Style core.Style
}

// Line is one styled output line.
type Line struct {
	Runs []Run
}

// String returns the line's text without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Width returns the line's display width.
func (l Line) Width() int {
	w := 0
	for _, r := range l.Runs {
		w += core.StringWidth(r.Text)
	}
	return w
}

// Equal reports whether two lines have identical text and styling.
func (l Line) Equal(other Line) bool {
	if len(l.Runs) != len(other.Runs) {
		return false
	}
	for i, r := range l.Runs {
		o := other.Runs[i]
		if r.Text != o.Text || !r.Style.Equals(o.Style) {
			return false
		}
	}
	return true
}

func (l *Line) append(text string, style core.Style) {
	if text == "" {
		return
	}
	if n := len(l.Runs); n > 0 && l.Runs[n-1].Style.Equals(style) {
		l.Runs[n-1].Text += text
		return
	}
	l.Runs = append(l.Runs, Run{Text: text, Style: style})
}

// LineMetric describes one output line.
type LineMetric struct {
	Kind LineKind

	// Root is the root paragraph the line belongs to, or -1 for separators.
	Root int

	// ContentLine is the line's index among content lines, or -1.
	ContentLine int

	// Width is the display width including padding.
	Width int
}

// VisualPosition is the on-screen location of a cursor position.
type VisualPosition struct {
	Line          int
	Column        int
	ContentLine   int
	ContentColumn int
}

// MapEntry pairs a cursor position with its visual position.
type MapEntry struct {
	Position cursor.Position
	Visual   VisualPosition
}

// Selection is a half-open range of cursor positions. Start must not come
// after End.
type Selection struct {
	Start cursor.Position
	End   cursor.Position
}

// Contains reports whether p falls inside the selection.
func (s Selection) Contains(p cursor.Position) bool {
	return s.Start.Compare(p) <= 0 && p.Compare(s.End) < 0
}

// Options are the layout parameters of one render pass.
type Options struct {
	WrapWidth   int
	LeftPadding int

	// Cursor marks the active position. Its root paragraph bypasses the cache.
	Cursor *cursor.Position

	// Selection, when set, is highlighted. Roots it touches bypass the cache.
	Selection *Selection

	// TrackPositions fills Result.CursorMap for every selectable position.
	TrackPositions bool
}

// Result is the output of a render pass.
type Result struct {
	Lines   []Line
	Metrics []LineMetric

	// Cursor is the visual position of Options.Cursor, if it was rendered.
	Cursor *VisualPosition

	// CursorMap lists visual positions in document order when tracking was
	// requested.
	CursorMap []MapEntry
}

// Strings returns the text of every line.
func (r *Result) Strings() []string {
	out := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = l.String()
	}
	return out
}

// ContentLines returns the number of content lines.
func (r *Result) ContentLines() int {
	n := 0
	for _, m := range r.Metrics {
		if m.Kind == LineText {
			n++
		}
	}
	return n
}
