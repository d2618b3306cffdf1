package editor

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/segment"
)

// InsertChar inserts r at the cursor.
func (s *Session) InsertChar(r rune) bool {
	return s.InsertText(string(r))
}

// InsertNewline inserts a line break inside the current paragraph.
func (s *Session) InsertNewline() bool {
	return s.InsertText("\n")
}

// InsertText inserts text at the cursor and moves the cursor past it.
//
// On a text segment the text joins that leaf and takes its style. On a
// style boundary (reveal mode) it is inserted unstyled on the outer side
// of the boundary.
func (s *Session) InsertText(text string) bool {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return false
	}
	s.anchor = nil
	path, p := s.here()
	if p == nil || !p.Type.HasContent() {
		return false
	}
	n := utf8.RuneCountInString(text)
	seg := s.index.At(s.pos.Segment)

	if seg.Kind == segment.KindText {
		if leaf := document.LeafAt(p.Content, seg.Span); leaf != nil {
			old := s.Pointer()
			document.InsertIntoLeaf(leaf, s.pos.Offset, text)
			old.Offset += n
			target := cursor.Position{Segment: s.pos.Segment, Offset: s.pos.Offset + n}
			if sp, ok := s.update(path); ok {
				s.pos = cursor.Remap(s.index, old, target, sp)
			} else {
				s.pos = cursor.Repair(s.index, old)
			}
			return true
		}
	}

	off := s.offset()
	left, right := document.SplitSpans(p.Content, off)
	content := make([]*document.Span, 0, len(left)+len(right)+1)
	content = append(content, left...)
	content = append(content, document.NewText(text))
	content = append(content, right...)
	p.Content = document.Normalize(content)
	s.contentChanged(path, off+n)
	return true
}

// contentChanged splices the paragraph at path and puts the cursor at a
// paragraph offset.
func (s *Session) contentChanged(path document.ParagraphPath, offset int) {
	s.update(path)
	s.pos = cursor.AtParagraphOffset(s.index, path, offset)
}

// removeRange deletes runes [from, to) of the paragraph at path.
func (s *Session) removeRange(path document.ParagraphPath, p *document.Paragraph, from, to int) bool {
	if to <= from {
		return false
	}
	p.Content = document.RemoveRange(p.Content, from, to)
	s.contentChanged(path, from)
	return true
}

// stripBoundary removes the style of the boundary under the cursor.
func (s *Session) stripBoundary(path document.ParagraphPath, p *document.Paragraph, seg segment.Segment) bool {
	span := document.SpanAt(p.Content, seg.Span)
	if span == nil {
		return false
	}
	off := s.offset()
	span.Style = span.Style.Without(seg.Style)
	if seg.Style.Has(document.StyleLink) {
		span.Link = ""
	}
	p.Content = document.Normalize(p.Content)
	s.contentChanged(path, off)
	return true
}

// Backspace deletes the rune before the cursor. At the start of a paragraph
// the paragraph is merged into the previous one; an empty paragraph is
// removed. On a style boundary in reveal mode the style is removed instead.
func (s *Session) Backspace() bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil {
		return false
	}
	if seg := s.index.At(s.pos.Segment); seg.Kind.IsBoundary() {
		return s.stripBoundary(path, p, seg)
	}
	if off := s.offset(); off > 0 {
		return s.removeRange(path, p, off-1, off)
	}

	start, _ := s.index.ParagraphRange(path)
	if start == 0 {
		if p.IsEmpty() && s.countContent() > 1 {
			return s.removeEmpty(path)
		}
		return false
	}
	prevPath := s.index.At(start - 1).Paragraph.Clone()
	return s.merge(prevPath, path)
}

// Delete deletes the rune after the cursor. At the end of a paragraph the
// next paragraph is merged into this one.
func (s *Session) Delete() bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil {
		return false
	}
	if seg := s.index.At(s.pos.Segment); seg.Kind.IsBoundary() {
		return s.stripBoundary(path, p, seg)
	}
	if off := s.offset(); off < p.RuneCount() {
		return s.removeRange(path, p, off, off+1)
	}

	_, end := s.index.ParagraphRange(path)
	if end >= s.index.Len() {
		return false
	}
	nextPath := s.index.At(end).Paragraph.Clone()
	return s.merge(path, nextPath)
}

// DeleteWordBackward deletes back to the previous word start. At the start
// of a paragraph it behaves like Backspace.
func (s *Session) DeleteWordBackward() bool {
	path, p := s.here()
	off := s.offset()
	if p == nil || off == 0 || s.index.At(s.pos.Segment).Kind.IsBoundary() {
		return s.Backspace()
	}
	s.anchor = nil
	from := cursor.WordBoundaryBefore(s.index, s.doc, s.pos)
	return s.removeRange(path, p, from, off)
}

// DeleteWordForward deletes up to the next word start. At the end of a
// paragraph it behaves like Delete.
func (s *Session) DeleteWordForward() bool {
	path, p := s.here()
	off := s.offset()
	if p == nil || off >= p.RuneCount() || s.index.At(s.pos.Segment).Kind.IsBoundary() {
		return s.Delete()
	}
	s.anchor = nil
	to := cursor.WordBoundaryAfter(s.index, s.doc, s.pos)
	return s.removeRange(path, p, off, to)
}

// merge appends the content of the paragraph at path to the paragraph at
// into and removes it. The merged paragraph keeps into's type. Nested
// paragraphs of the removed one take its place among its siblings.
func (s *Session) merge(into, path document.ParagraphPath) bool {
	dst := s.doc.ParagraphAt(into)
	src := s.doc.ParagraphAt(path)
	if dst == nil || src == nil || !dst.Type.HasContent() || !src.Type.HasContent() {
		return s.rejected("merge", "paragraph without content")
	}
	old := s.Pointer()
	junction := dst.RuneCount()

	if !s.unlink(path, src.Children) {
		return s.rejected("merge", "paragraph has no parent slice")
	}
	content := make([]*document.Span, 0, len(dst.Content)+len(src.Content))
	content = append(content, dst.Content...)
	content = append(content, src.Content...)
	dst.Content = document.Normalize(content)
	s.rebuild("merge")
	s.placeAt(dst, junction, old)
	return true
}

// removeEmpty drops the empty paragraph at path and moves the cursor to
// the start of whatever follows it.
func (s *Session) removeEmpty(path document.ParagraphPath) bool {
	old := s.Pointer()
	if !s.unlink(path, nil) {
		return false
	}
	s.rebuild("remove empty paragraph")
	s.pos = cursor.Repair(s.index, old)
	return true
}

// unlink removes the paragraph at path from its sibling slice, putting
// replacement in its place, then prunes containers left empty.
func (s *Session) unlink(path document.ParagraphPath, replacement []*document.Paragraph) bool {
	sib, i, ok := s.doc.Siblings(path)
	if !ok {
		return false
	}
	*sib = slices.Replace(*sib, i, i+1, replacement...)
	s.prune(path)
	return true
}

// prune removes empty list entries, lists without entries and quotes
// without children, walking up from the removed paragraph at path.
func (s *Session) prune(path document.ParagraphPath) {
	parentPath, ok := s.doc.ParentPath(path)
	if !ok {
		return
	}
	parent := s.doc.ParagraphAt(parentPath)
	if parent == nil {
		return
	}
	switch {
	case parent.Type.IsList():
		e := path[len(path)-2]
		if e < len(parent.Entries) && len(parent.Entries[e]) == 0 {
			parent.Entries = slices.Delete(parent.Entries, e, e+1)
		}
		if len(parent.Entries) > 0 {
			return
		}
	case parent.Type == document.TypeQuote:
		if len(parent.Children) > 0 {
			return
		}
	default:
		return
	}
	if sib, i, ok := s.doc.Siblings(parentPath); ok {
		*sib = slices.Delete(*sib, i, i+1)
		s.prune(parentPath)
	}
}

// countContent returns the number of content paragraphs.
func (s *Session) countContent() int {
	n := 0
	s.doc.Walk(func(_ document.ParagraphPath, p *document.Paragraph) bool {
		if p.Type.HasContent() {
			n++
		}
		return true
	})
	return n
}
