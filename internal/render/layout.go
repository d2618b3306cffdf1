package render

import (
	"strconv"
	"strings"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render/core"
	"github.com/dshills/inkwell/internal/segment"
	"github.com/dshills/inkwell/internal/theme"
)

// Line prefixes and markers.
const (
	quoteBar         = "| "
	bulletMarker     = "• "
	checkedMarker    = "[✓] "
	uncheckedMarker  = "[ ] "
	fenceRune        = "-"
	minFenceWidth    = 4
	heading2RuleRune = "="
	heading3RuleRune = "-"
)

// block is the rendered form of one root paragraph. Positions and line
// numbers are relative to the block so that it can be cached and re-rooted.
type block struct {
	lines   []Line
	kinds   []LineKind
	entries []MapEntry
}

// layouter renders one root paragraph subtree into a block.
type layouter struct {
	theme   *theme.Theme
	tabs    *TabExpander
	x       *segment.Index
	reveal  bool
	width   int
	limit   int
	padding string
	sel     *Selection

	rootStart int
	seg       int

	out *block
}

func (l *layouter) root(p *document.Paragraph, r int) *block {
	l.rootStart, _ = l.x.RootRange(r)
	l.seg = l.rootStart
	l.out = &block{}
	l.paragraph(p, document.ParagraphPath{r}, prefix{}, prefix{})

	content := 0
	contentLine := make([]int, len(l.out.kinds))
	for i, k := range l.out.kinds {
		contentLine[i] = -1
		if k == LineText {
			contentLine[i] = content
			content++
		}
	}
	for i := range l.out.entries {
		e := &l.out.entries[i]
		e.Visual.ContentLine = contentLine[e.Visual.Line]
	}
	return l.out
}

func (l *layouter) paragraph(p *document.Paragraph, path document.ParagraphPath, first, cont prefix) {
	switch p.Type {
	case document.TypeText:
		l.content(p, path, first, cont, l.theme.Text)
	case document.TypeHeading1:
		l.content(p, path, first, cont, l.theme.Heading)
	case document.TypeHeading2, document.TypeHeading3:
		widest := l.content(p, path, first, cont, l.theme.Heading)
		rule := heading2RuleRune
		if p.Type == document.TypeHeading3 {
			rule = heading3RuleRune
		}
		l.decoration(cont, strings.Repeat(rule, max(widest, 1)), l.theme.Heading)
	case document.TypeCodeBlock:
		fence := strings.Repeat(fenceRune, max(l.width-first.width, minFenceWidth))
		l.decoration(first, fence, l.theme.Prefix)
		l.code(p, path, cont)
		l.decoration(cont, fence, l.theme.Prefix)
	case document.TypeQuote:
		if len(p.Children) == 0 {
			l.decoration(first, quoteBar, l.theme.Prefix)
			return
		}
		for i, c := range p.Children {
			f := cont
			if i == 0 {
				f = first
			}
			l.paragraph(c, path.Append(i), f.plus(quoteBar, l.theme.Prefix), cont.plus(quoteBar, l.theme.Prefix))
		}
	case document.TypeOrderedList, document.TypeUnorderedList:
		for e, entry := range p.Entries {
			marker := bulletMarker
			if p.Type == document.TypeOrderedList {
				marker = strconv.Itoa(e+1) + ". "
			}
			f := cont
			if e == 0 {
				f = first
			}
			f = f.plus(marker, l.theme.Prefix)
			body := cont.indent(marker)
			if len(entry) == 0 {
				l.decoration(f, "", l.theme.Prefix)
				continue
			}
			for i, c := range entry {
				if i == 0 {
					l.paragraph(c, path.Append(e, i), f, body)
				} else {
					l.paragraph(c, path.Append(e, i), body, body)
				}
			}
		}
	case document.TypeChecklistItem:
		marker := uncheckedMarker
		if p.Checked {
			marker = checkedMarker
		}
		body := cont.indent(marker)
		l.content(p, path, first.plus(marker, l.theme.Checklist), body, l.theme.Text)
		for i, c := range p.Children {
			l.paragraph(c, path.Append(i), body, body)
		}
	}
}

// content wraps a paragraph's own spans and returns the width of the widest
// line, excluding prefixes.
func (l *layouter) content(p *document.Paragraph, path document.ParagraphPath, first, cont prefix, base core.Style) int {
	s := l.collect(p, path, base, false)
	b := newLineBuilder(s.glyphs, l.limit, first, cont)
	lines, place := b.wrap(fragments(s.glyphs))
	l.emit(s, s.glyphs, lines, place)

	widest := 0
	for _, wl := range lines {
		w := 0
		for _, g := range wl.glyphs {
			w += s.glyphs[g].width
		}
		widest = max(widest, w)
	}
	return widest
}

// code lays out a code block's spans without wrapping.
func (l *layouter) code(p *document.Paragraph, path document.ParagraphPath, cont prefix) {
	s := l.collect(p, path, l.theme.Code, true)
	lines, place, glyphs := layoutCode(s.glyphs, l.tabs, cont, cont)
	l.emit(s, glyphs, lines, place)
}

func (l *layouter) emit(s *stream, glyphs []glyph, lines []wline, place []placement) {
	base := len(l.out.lines)
	for _, wl := range lines {
		var line Line
		for _, r := range wl.prefix.runs {
			line.append(r.Text, r.Style)
		}
		for _, g := range wl.glyphs {
			line.append(glyphs[g].text, l.styleOf(glyphs[g]))
		}
		l.push(line, LineText)
	}
	pad := len(l.padding)
	for _, ev := range s.events {
		pl := place[ev.glyph]
		l.out.entries = append(l.out.entries, MapEntry{
			Position: ev.pos,
			Visual: VisualPosition{
				Line:          base + pl.line,
				Column:        pad + pl.col,
				ContentColumn: pl.col,
			},
		})
	}
}

func (l *layouter) styleOf(g glyph) core.Style {
	if l.sel == nil {
		return g.style
	}
	abs := cursor.Position{Segment: g.pos.Segment + l.rootStart, Offset: g.pos.Offset}
	if l.sel.Contains(abs) {
		return g.style.Merge(l.theme.Selection)
	}
	return g.style
}

func (l *layouter) decoration(p prefix, text string, style core.Style) {
	var line Line
	for _, r := range p.runs {
		line.append(r.Text, r.Style)
	}
	line.append(text, style)
	l.push(line, LineDecoration)
}

// push appends a line, prepending the left padding unless the line is empty.
func (l *layouter) push(line Line, kind LineKind) {
	if l.padding != "" && line.String() != "" {
		line.Runs = append([]Run{{Text: l.padding, Style: core.DefaultStyle()}}, line.Runs...)
	}
	l.out.lines = append(l.out.lines, line)
	l.out.kinds = append(l.out.kinds, kind)
}
