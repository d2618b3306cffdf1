package render

import (
	"strings"

	"github.com/dshills/inkwell/internal/render/core"
)

// prefix is the decoration drawn before a line's content.
type prefix struct {
	runs  []Run
	width int
}

func (p prefix) plus(text string, style core.Style) prefix {
	runs := make([]Run, len(p.runs), len(p.runs)+1)
	copy(runs, p.runs)
	runs = append(runs, Run{Text: text, Style: style})
	return prefix{runs: runs, width: p.width + core.StringWidth(text)}
}

// indent returns p followed by blank space as wide as text.
func (p prefix) indent(text string) prefix {
	return p.plus(strings.Repeat(" ", core.StringWidth(text)), core.DefaultStyle())
}

// placement is where a glyph, or the end of the content, landed. Columns
// include the prefix but not the left padding.
type placement struct {
	line int
	col  int
}

// wline is one wrapped line: a prefix and the glyphs committed to it.
type wline struct {
	prefix prefix
	glyphs []int
}

// lineBuilder packs fragments greedily into lines no wider than limit.
//
// Whitespace is held pending until the next word commits it. Pending
// whitespace is dropped when the line wraps and whitespace at the start of a
// line is discarded. A word that does not fit on an empty line is split at
// the limit, with at least one glyph per line.
type lineBuilder struct {
	glyphs  []glyph
	limit   int
	cont    prefix
	lines   []wline
	col     int
	content bool
	pending []int
	place   []placement
}

func newLineBuilder(glyphs []glyph, limit int, first, cont prefix) *lineBuilder {
	b := &lineBuilder{
		glyphs: glyphs,
		limit:  max(limit, 1),
		cont:   cont,
		place:  make([]placement, len(glyphs)+1),
	}
	b.newLine(first)
	return b
}

// wrap lays out all fragments and returns the lines and glyph placements.
func (b *lineBuilder) wrap(frags []fragment) ([]wline, []placement) {
	for _, f := range frags {
		switch f.class {
		case classNewline:
			b.settlePending()
			b.mark(f.from)
			b.newLine(b.cont)
		case classSpace:
			if !b.content {
				for g := f.from; g < f.to; g++ {
					b.mark(g)
				}
				continue
			}
			for g := f.from; g < f.to; g++ {
				b.pending = append(b.pending, g)
			}
		default:
			if b.content {
				if b.col+b.pendingWidth()+f.width <= b.limit {
					b.flushPending()
					for g := f.from; g < f.to; g++ {
						b.commit(g)
					}
					continue
				}
				b.dropPending()
				b.newLine(b.cont)
			}
			b.split(f)
		}
	}
	b.settlePending()
	b.place[len(b.glyphs)] = placement{line: len(b.lines) - 1, col: b.col}
	return b.lines, b.place
}

// split commits a fragment that starts on an empty line, breaking it
// wherever the next glyph would cross the limit.
func (b *lineBuilder) split(f fragment) {
	for g := f.from; g < f.to; g++ {
		if b.content && b.col+b.glyphs[g].width > b.limit {
			b.newLine(b.cont)
		}
		b.commit(g)
	}
}

func (b *lineBuilder) newLine(p prefix) {
	b.lines = append(b.lines, wline{prefix: p})
	b.col = p.width
	b.content = false
	b.pending = b.pending[:0]
}

func (b *lineBuilder) mark(g int) {
	b.place[g] = placement{line: len(b.lines) - 1, col: b.col}
}

func (b *lineBuilder) commit(g int) {
	b.mark(g)
	cur := &b.lines[len(b.lines)-1]
	cur.glyphs = append(cur.glyphs, g)
	b.col += b.glyphs[g].width
	b.content = true
}

func (b *lineBuilder) pendingWidth() int {
	w := 0
	for _, g := range b.pending {
		w += b.glyphs[g].width
	}
	return w
}

func (b *lineBuilder) flushPending() {
	for _, g := range b.pending {
		b.commit(g)
	}
	b.pending = b.pending[:0]
}

// dropPending discards pending whitespace; its glyphs sit at the line end.
func (b *lineBuilder) dropPending() {
	for _, g := range b.pending {
		b.mark(g)
	}
	b.pending = b.pending[:0]
}

// settlePending keeps as much pending whitespace as still fits, so that
// trailing spaces typed at the end of a paragraph stay visible.
func (b *lineBuilder) settlePending() {
	for i, g := range b.pending {
		if b.col+b.glyphs[g].width > b.limit {
			b.pending = b.pending[i:]
			b.dropPending()
			return
		}
		b.commit(g)
	}
	b.pending = b.pending[:0]
}

// layoutCode places glyphs without wrapping. Every newline starts a line and
// tabs advance to the next tab stop measured from the content start.
func layoutCode(glyphs []glyph, tabs *TabExpander, first, cont prefix) ([]wline, []placement, []glyph) {
	out := make([]glyph, len(glyphs))
	copy(out, glyphs)
	place := make([]placement, len(glyphs)+1)
	lines := []wline{{prefix: first}}
	col := first.width
	for g := range out {
		cur := &lines[len(lines)-1]
		place[g] = placement{line: len(lines) - 1, col: col}
		switch {
		case out[g].class == classNewline:
			lines = append(lines, wline{prefix: cont})
			col = cont.width
			continue
		case out[g].text == "\t":
			w := tabs.TabStopOffset(col - cur.prefix.width)
			out[g].text = strings.Repeat(" ", w)
			out[g].width = w
		}
		cur.glyphs = append(cur.glyphs, g)
		col += out[g].width
	}
	place[len(out)] = placement{line: len(lines) - 1, col: col}
	return lines, place, out
}
