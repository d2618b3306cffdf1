package editor

import (
	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render"
)

// styleTarget is the part of one paragraph a style toggle covers.
type styleTarget struct {
	path     document.ParagraphPath
	p        *document.Paragraph
	from, to int
}

// anchorAt is a cursor position expressed as a paragraph and text offset.
type anchorAt struct {
	p      *document.Paragraph
	offset int
}

func (s *Session) anchorOf(pos cursor.Position) anchorAt {
	path := s.index.At(pos.Segment).Paragraph
	return anchorAt{p: s.doc.ParagraphAt(path), offset: cursor.ParagraphOffset(s.index, pos)}
}

func (s *Session) resolveAnchor(a anchorAt, fallback cursor.Pointer) cursor.Position {
	if path, ok := s.locate(a.p); ok {
		return cursor.AtParagraphOffset(s.index, path, a.offset)
	}
	return cursor.Repair(s.index, fallback)
}

// ToggleStyle sets style on every rune of sel, or clears it when the whole
// selection already carries it. Code blocks are left alone. link is the
// target used when style includes StyleLink. The selection is kept.
func (s *Session) ToggleStyle(sel render.Selection, style document.Style, link string) bool {
	if style == document.StyleNone {
		return false
	}
	if sel.End.Compare(sel.Start) < 0 {
		sel.Start, sel.End = sel.End, sel.Start
	}
	sel.Start = cursor.Clamp(s.index, sel.Start)
	sel.End = cursor.Clamp(s.index, sel.End)

	targets := s.styleTargets(sel)
	if len(targets) == 0 {
		return false
	}
	on := false
	for _, t := range targets {
		if !document.RangeHasStyle(t.p.Content, t.from, t.to, style) {
			on = true
			break
		}
	}

	old := s.Pointer()
	here := s.anchorOf(s.pos)
	var mark *anchorAt
	if s.anchor != nil {
		a := s.anchorOf(*s.anchor)
		mark = &a
	}

	roots := make(map[int]bool)
	for _, t := range targets {
		t.p.Content = document.ApplyStyle(t.p.Content, t.from, t.to, style, link, on)
		roots[t.path.Root()] = true
	}
	for r := 0; r < len(s.doc.Paragraphs); r++ {
		if roots[r] {
			s.update(document.ParagraphPath{r})
		}
	}

	s.pos = s.resolveAnchor(here, old)
	if mark != nil {
		a := s.resolveAnchor(*mark, old)
		s.anchor = &a
	}
	return true
}

// ToggleSelectionStyle toggles style over the session's own selection.
func (s *Session) ToggleSelectionStyle(style document.Style, link string) bool {
	sel, ok := s.Selection()
	if !ok {
		return false
	}
	return s.ToggleStyle(sel, style, link)
}

// styleTargets splits sel into per-paragraph rune ranges, skipping code
// blocks and empty ranges.
func (s *Session) styleTargets(sel render.Selection) []styleTarget {
	var out []styleTarget
	startPath := s.index.At(sel.Start.Segment).Paragraph
	endPath := s.index.At(sel.End.Segment).Paragraph
	var last document.ParagraphPath
	for i := sel.Start.Segment; i <= sel.End.Segment; i++ {
		path := s.index.At(i).Paragraph
		if last != nil && path.Equal(last) {
			continue
		}
		last = path
		p := s.doc.ParagraphAt(path)
		if p == nil || p.Type == document.TypeCodeBlock {
			continue
		}
		from, to := 0, p.RuneCount()
		if path.Equal(startPath) {
			from = cursor.ParagraphOffset(s.index, sel.Start)
		}
		if path.Equal(endPath) {
			to = cursor.ParagraphOffset(s.index, sel.End)
		}
		if from < to {
			out = append(out, styleTarget{path: path.Clone(), p: p, from: from, to: to})
		}
	}
	return out
}
