package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render/core"
	"github.com/dshills/inkwell/internal/segment"
)

type glyphClass uint8

const (
	classWord glyphClass = iota
	classSpace
	classNewline
	classTag
)

// glyph is one grapheme cluster of paragraph content, or one rune of a
// reveal tag.
type glyph struct {
	text  string
	width int
	class glyphClass
	style core.Style

	// pos is the root-relative position of the glyph's first rune.
	pos cursor.Position

	// tag numbers the reveal tag a tag glyph belongs to.
	tag int
}

// event ties a root-relative cursor position to the left edge of a glyph.
// A glyph index equal to the glyph count means the end of the content.
type event struct {
	pos   cursor.Position
	glyph int
}

// stream is the glyph sequence of one paragraph's own content.
type stream struct {
	glyphs []glyph
	events []event
	tags   int
}

// fragment is a run of glyphs that wraps as a unit.
type fragment struct {
	class    glyphClass
	from, to int
	width    int
}

// collect walks p's own segments, advancing l.seg past them, and returns
// the paragraph's glyphs.
func (l *layouter) collect(p *document.Paragraph, path document.ParagraphPath, base core.Style, code bool) *stream {
	s := &stream{}
	segment.Visit(p, path, l.reveal, func(seg segment.Segment, leaf *document.Span, style document.Style, _ string) {
		abs := l.seg
		l.seg++
		rel := abs - l.rootStart
		selectable := cursor.Selectable(l.x, abs)

		if seg.Kind.IsBoundary() {
			if selectable {
				s.events = append(s.events, event{pos: cursor.Position{Segment: rel}, glyph: len(s.glyphs)})
			}
			name := seg.Style.Name()
			tag := "[" + name + ">"
			if seg.Kind == segment.KindBoundaryEnd {
				tag = "<" + name + "]"
			}
			for _, r := range tag {
				s.glyphs = append(s.glyphs, glyph{
					text:  string(r),
					width: 1,
					class: classTag,
					style: l.theme.RevealTag,
					pos:   cursor.Position{Segment: rel},
					tag:   s.tags,
				})
			}
			s.tags++
			return
		}

		text := ""
		if leaf != nil {
			text = leaf.Text
		}
		gs := base.Merge(l.theme.Inline(style))
		if code {
			gs = base
		}
		off := 0
		core.Graphemes(text, func(cluster string, runes, width int) {
			if selectable {
				for k := off; k < off+runes; k++ {
					s.events = append(s.events, event{pos: cursor.Position{Segment: rel, Offset: k}, glyph: len(s.glyphs)})
				}
			}
			g := glyph{text: cluster, width: width, class: classify(cluster), style: gs, pos: cursor.Position{Segment: rel, Offset: off}}
			if cluster == "\t" && !code {
				g.width = l.tabs.TabWidth()
				g.text = strings.Repeat(" ", g.width)
			}
			s.glyphs = append(s.glyphs, g)
			off += runes
		})
		if selectable {
			s.events = append(s.events, event{pos: cursor.Position{Segment: rel, Offset: off}, glyph: len(s.glyphs)})
		}
	})
	return s
}

func classify(cluster string) glyphClass {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case r == '\n' || r == '\r':
		return classNewline
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classWord
	}
}

// fragments groups glyphs into words, whitespace runs, newlines and tags.
// Adjacent word glyphs merge even when they come from different spans.
func fragments(glyphs []glyph) []fragment {
	var out []fragment
	for i, g := range glyphs {
		if n := len(out); n > 0 {
			last := &out[n-1]
			same := last.class == g.class && g.class != classNewline
			if g.class == classTag {
				same = same && glyphs[last.from].tag == g.tag
			}
			if same {
				last.to = i + 1
				last.width += g.width
				continue
			}
		}
		out = append(out, fragment{class: g.class, from: i, to: i + 1, width: g.width})
	}
	return out
}
