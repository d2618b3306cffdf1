// Package segment maintains the flat, ordered list of cursor-addressable
// units derived from a document tree.
//
// Every leaf span contributes one Text segment whose length is the leaf's
// rune count. A content paragraph without spans contributes a zero-length
// placeholder so that it stays reachable. In reveal mode, each styled span is
// bracketed by zero-length BoundaryStart and BoundaryEnd segments, one per
// style flag.
//
// The Index supports a full rebuild and an incremental splice of one
// paragraph subtree. Splicing locates the subtree's range through a Fenwick
// tree of per-root segment counts plus a binary search over the (pre-order
// sorted) paragraph paths, so the lookup is logarithmic in document size.
//
// An Index is not safe for concurrent use.
package segment

import (
	"fmt"

	"github.com/dshills/inkwell/internal/document"
)

// Kind distinguishes text segments from style boundary markers.
type Kind uint8

// Segment kinds.
const (
	KindText Kind = iota
	KindBoundaryStart
	KindBoundaryEnd
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBoundaryStart:
		return "start"
	case KindBoundaryEnd:
		return "end"
	default:
		return "unknown"
	}
}

// IsBoundary reports whether the kind is a style boundary.
func (k Kind) IsBoundary() bool {
	return k == KindBoundaryStart || k == KindBoundaryEnd
}

// Segment is one addressable unit. Offsets within it run from 0 to Len
// inclusive.
type Segment struct {
	Paragraph document.ParagraphPath
	Span      document.SpanPath
	Len       int
	Kind      Kind

	// Style is the boundary's style flag; zero for text segments.
	Style document.Style
}

// Equal reports whether two segments are identical.
func (s Segment) Equal(other Segment) bool {
	return s.Len == other.Len &&
		s.Kind == other.Kind &&
		s.Style == other.Style &&
		s.Paragraph.Equal(other.Paragraph) &&
		s.Span.Equal(other.Span)
}

// SameSlot reports whether two segments address the same span and kind,
// ignoring length.
func (s Segment) SameSlot(other Segment) bool {
	return s.Kind == other.Kind &&
		s.Style == other.Style &&
		s.Paragraph.Equal(other.Paragraph) &&
		s.Span.Equal(other.Span)
}

// String returns a compact description for debugging.
func (s Segment) String() string {
	if s.Kind.IsBoundary() {
		return fmt.Sprintf("%s/%s %s(%s)", s.Paragraph, s.Span, s.Kind, s.Style.Name())
	}
	return fmt.Sprintf("%s/%s text[%d]", s.Paragraph, s.Span, s.Len)
}
