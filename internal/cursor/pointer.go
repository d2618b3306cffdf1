// Package cursor implements logical cursor positions over a segment index.
//
// A Pointer names a position by paragraph path, span path, segment kind and
// offset, so it survives index rebuilds. A Position names the same thing by
// segment index and offset, which is what motion arithmetic works on.
// Resolve converts one into the other; Repair binds a stale pointer to the
// nearest valid position at or before its old place in document order.
//
// Every motion function returns a selectable position: a non-empty text
// segment, the only text segment of an otherwise empty paragraph, or (in
// reveal mode) a style boundary.
package cursor

import (
	"fmt"
	"sort"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/segment"
)

// Pointer is a logical edit position.
type Pointer struct {
	Paragraph document.ParagraphPath
	Span      document.SpanPath
	Offset    int
	Kind      segment.Kind
	Style     document.Style
}

// Equal reports whether two pointers address the same position.
func (p Pointer) Equal(other Pointer) bool {
	return p.Offset == other.Offset && p.slot().SameSlot(other.slot())
}

// SameSegment reports whether two pointers address the same segment.
func (p Pointer) SameSegment(other Pointer) bool {
	return p.slot().SameSlot(other.slot())
}

// String returns a compact description for debugging.
func (p Pointer) String() string {
	if p.Kind.IsBoundary() {
		return fmt.Sprintf("%s/%s:%s(%s)", p.Paragraph, p.Span, p.Kind, p.Style.Name())
	}
	return fmt.Sprintf("%s/%s@%d", p.Paragraph, p.Span, p.Offset)
}

func (p Pointer) slot() segment.Segment {
	return segment.Segment{Paragraph: p.Paragraph, Span: p.Span, Kind: p.Kind, Style: p.Style}
}

// Position is a pointer resolved against a specific index.
type Position struct {
	Segment int
	Offset  int
}

// Compare orders positions by segment then offset.
func (p Position) Compare(other Position) int {
	switch {
	case p.Segment < other.Segment:
		return -1
	case p.Segment > other.Segment:
		return 1
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// PointerAt converts a position into a pointer.
func PointerAt(x *segment.Index, pos Position) Pointer {
	if x.Len() == 0 {
		return Pointer{}
	}
	pos = Clamp(x, pos)
	s := x.At(pos.Segment)
	return Pointer{
		Paragraph: s.Paragraph.Clone(),
		Span:      s.Span.Clone(),
		Offset:    pos.Offset,
		Kind:      s.Kind,
		Style:     s.Style,
	}
}

// Resolve finds the segment named by p. The offset is clamped to the segment.
func Resolve(x *segment.Index, p Pointer) (Position, bool) {
	i, ok := x.Find(p.slot())
	if !ok {
		return Position{}, false
	}
	return Clamp(x, Position{Segment: i, Offset: p.Offset}), true
}

// Clamp keeps a position inside the index and its offset inside the segment.
func Clamp(x *segment.Index, pos Position) Position {
	if x.Len() == 0 {
		return Position{}
	}
	pos.Segment = max(0, min(pos.Segment, x.Len()-1))
	pos.Offset = max(0, min(pos.Offset, x.At(pos.Segment).Len))
	return pos
}

// Repair resolves p, falling back to the nearest selectable position at or
// before p's place in document order. It never fails on a non-empty index.
func Repair(x *segment.Index, p Pointer) Position {
	if x.Len() == 0 {
		return Position{}
	}
	if pos, ok := Resolve(x, p); ok {
		return EnsureSelectable(x, pos)
	}

	if p.Paragraph.Root() >= 0 && p.Paragraph.Root() < x.RootCount() {
		start, end := x.ParagraphRange(p.Paragraph)
		if start < end {
			best := -1
			for i := start; i < end; i++ {
				s := x.At(i)
				if s.Kind == segment.KindText && s.Span.Compare(p.Span) <= 0 {
					best = i
				}
			}
			if best < 0 {
				return EnsureSelectable(x, Position{Segment: start})
			}
			return EnsureSelectable(x, Clamp(x, Position{Segment: best, Offset: p.Offset}))
		}
	}

	segs := x.Segments()
	i := sort.Search(len(segs), func(i int) bool {
		return segs[i].Paragraph.Compare(p.Paragraph) > 0
	})
	if i == 0 {
		return firstSelectable(x, 0)
	}
	return EnsureSelectable(x, Position{Segment: i - 1, Offset: segs[i-1].Len})
}

// Selectable reports whether the cursor may rest on segment i.
func Selectable(x *segment.Index, i int) bool {
	if i < 0 || i >= x.Len() {
		return false
	}
	s := x.At(i)
	if s.Kind.IsBoundary() {
		return x.Reveal()
	}
	if s.Len > 0 {
		return true
	}
	// An empty text segment is a stop only when it stands in for an empty
	// paragraph: it is the paragraph's first text segment and no text
	// segment of the paragraph has content.
	start, end := x.ParagraphRange(s.Paragraph)
	first := -1
	for j := start; j < end; j++ {
		t := x.At(j)
		if t.Kind != segment.KindText {
			continue
		}
		if t.Len > 0 {
			return false
		}
		if first < 0 {
			first = j
		}
	}
	return first == i
}

// EnsureSelectable returns pos if it is selectable, otherwise the nearest
// selectable position before it, otherwise the nearest after it.
func EnsureSelectable(x *segment.Index, pos Position) Position {
	if x.Len() == 0 {
		return Position{}
	}
	pos = Clamp(x, pos)
	if Selectable(x, pos.Segment) {
		return pos
	}
	for i := pos.Segment - 1; i >= 0; i-- {
		if Selectable(x, i) {
			return Position{Segment: i, Offset: x.At(i).Len}
		}
	}
	return firstSelectable(x, pos.Segment+1)
}

// firstSelectable scans forward from segment i. It falls back to the first
// segment when nothing is selectable.
func firstSelectable(x *segment.Index, i int) Position {
	for ; i < x.Len(); i++ {
		if Selectable(x, i) {
			return Position{Segment: i}
		}
	}
	return Position{}
}

// lastSelectable scans backward from segment i and lands at the segment end.
func lastSelectable(x *segment.Index, i int) (Position, bool) {
	for ; i >= 0; i-- {
		if Selectable(x, i) {
			return Position{Segment: i, Offset: x.At(i).Len}, true
		}
	}
	return Position{}, false
}

// Remap re-resolves a position after an incremental splice. Positions before
// the splice are unchanged, positions after it shift by the length delta and
// positions inside it map to the same slot in the new range, or to the same
// relative segment when the slot disappeared.
func Remap(x *segment.Index, old Pointer, pos Position, sp segment.Splice) Position {
	switch {
	case pos.Segment < sp.Start:
		return EnsureSelectable(x, pos)
	case pos.Segment >= sp.OldEnd:
		return EnsureSelectable(x, Position{Segment: pos.Segment + sp.Delta(), Offset: pos.Offset})
	}
	for i := sp.Start; i < sp.NewEnd; i++ {
		if x.At(i).SameSlot(old.slot()) {
			return EnsureSelectable(x, Clamp(x, Position{Segment: i, Offset: pos.Offset}))
		}
	}
	if sp.NewEnd == sp.Start {
		return Repair(x, old)
	}
	rel := min(pos.Segment-sp.Start, sp.NewEnd-sp.Start-1)
	return EnsureSelectable(x, Clamp(x, Position{Segment: sp.Start + rel, Offset: pos.Offset}))
}
