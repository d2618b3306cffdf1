package cursor

import (
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/segment"
)

// Left moves one offset to the left. Crossing back from the start of a text
// segment into a text segment of the same paragraph skips the shared junction
// so that every visual position is visited once.
func Left(x *segment.Index, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	if pos.Offset > 0 {
		return Position{Segment: pos.Segment, Offset: pos.Offset - 1}, true
	}
	leaving := x.At(pos.Segment)
	for i := pos.Segment - 1; i >= 0; i-- {
		if !Selectable(x, i) {
			continue
		}
		s := x.At(i)
		off := s.Len
		if junction(leaving, s) && s.Len > 0 {
			off = s.Len - 1
		}
		return Position{Segment: i, Offset: off}, true
	}
	return pos, false
}

// Right moves one offset to the right, skipping the junction between two text
// segments of the same paragraph.
func Right(x *segment.Index, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	leaving := x.At(pos.Segment)
	if pos.Offset < leaving.Len {
		return Position{Segment: pos.Segment, Offset: pos.Offset + 1}, true
	}
	for i := pos.Segment + 1; i < x.Len(); i++ {
		if !Selectable(x, i) {
			continue
		}
		s := x.At(i)
		off := 0
		if junction(leaving, s) && s.Len > 0 {
			off = 1
		}
		return Position{Segment: i, Offset: off}, true
	}
	return pos, false
}

// junction reports whether a and b are text segments of one paragraph, so
// that the end of one and the start of the other render at the same place.
func junction(a, b segment.Segment) bool {
	return a.Kind == segment.KindText && b.Kind == segment.KindText && a.Paragraph.Equal(b.Paragraph)
}

// ParagraphStart moves to the first selectable position of the paragraph.
func ParagraphStart(x *segment.Index, pos Position) Position {
	if x.Len() == 0 {
		return pos
	}
	pos = Clamp(x, pos)
	start, end := x.ParagraphRange(x.At(pos.Segment).Paragraph)
	for i := start; i < end; i++ {
		if Selectable(x, i) {
			return Position{Segment: i}
		}
	}
	return pos
}

// ParagraphEnd moves to the last selectable position of the paragraph.
func ParagraphEnd(x *segment.Index, pos Position) Position {
	if x.Len() == 0 {
		return pos
	}
	pos = Clamp(x, pos)
	start, end := x.ParagraphRange(x.At(pos.Segment).Paragraph)
	for i := end - 1; i >= start; i-- {
		if Selectable(x, i) {
			return Position{Segment: i, Offset: x.At(i).Len}
		}
	}
	return pos
}

// DocumentStart returns the first selectable position.
func DocumentStart(x *segment.Index) Position {
	return firstSelectable(x, 0)
}

// DocumentEnd returns the last selectable position.
func DocumentEnd(x *segment.Index) Position {
	if pos, ok := lastSelectable(x, x.Len()-1); ok {
		return pos
	}
	return Position{}
}

// Up moves to the previous paragraph, keeping the text offset where possible.
func Up(x *segment.Index, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	start, _ := x.ParagraphRange(x.At(pos.Segment).Paragraph)
	target, ok := lastSelectable(x, start-1)
	if !ok {
		return pos, false
	}
	return AtParagraphOffset(x, x.At(target.Segment).Paragraph, ParagraphOffset(x, pos)), true
}

// Down moves to the next paragraph, keeping the text offset where possible.
func Down(x *segment.Index, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	_, end := x.ParagraphRange(x.At(pos.Segment).Paragraph)
	for i := end; i < x.Len(); i++ {
		if Selectable(x, i) {
			return AtParagraphOffset(x, x.At(i).Paragraph, ParagraphOffset(x, pos)), true
		}
	}
	return pos, false
}

// ParagraphOffset returns the rune offset of pos within its paragraph's text.
func ParagraphOffset(x *segment.Index, pos Position) int {
	if x.Len() == 0 {
		return 0
	}
	pos = Clamp(x, pos)
	start, _ := x.ParagraphRange(x.At(pos.Segment).Paragraph)
	n := 0
	for i := start; i < pos.Segment; i++ {
		if s := x.At(i); s.Kind == segment.KindText {
			n += s.Len
		}
	}
	if x.At(pos.Segment).Kind == segment.KindText {
		n += pos.Offset
	}
	return n
}

// ParagraphLen returns the rune length of the paragraph's text segments.
func ParagraphLen(x *segment.Index, path document.ParagraphPath) int {
	start, end := x.ParagraphRange(path)
	n := 0
	for i := start; i < end; i++ {
		if s := x.At(i); s.Kind == segment.KindText {
			n += s.Len
		}
	}
	return n
}

// AtParagraphOffset returns the position of a text offset inside a
// paragraph. At a junction the earlier segment wins. Offsets past the end
// clamp to the end of the paragraph.
func AtParagraphOffset(x *segment.Index, path document.ParagraphPath, offset int) Position {
	start, end := x.ParagraphRange(path)
	if start == end {
		return Repair(x, Pointer{Paragraph: path})
	}
	offset = max(offset, 0)
	last := -1
	for i := start; i < end; i++ {
		s := x.At(i)
		if s.Kind != segment.KindText || !Selectable(x, i) {
			continue
		}
		last = i
		if offset <= s.Len {
			return Position{Segment: i, Offset: offset}
		}
		offset -= s.Len
	}
	if last >= 0 {
		return Position{Segment: last, Offset: x.At(last).Len}
	}
	return EnsureSelectable(x, Position{Segment: start})
}
