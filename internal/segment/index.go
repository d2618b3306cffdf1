package segment

import (
	"sort"

	"github.com/dshills/inkwell/internal/document"
)

// Index is the ordered list of all segments of a document.
type Index struct {
	segs   []Segment
	roots  fenwick
	reveal bool
}

// Splice describes an incremental replacement: the old range
// [Start, OldEnd) was replaced by [Start, NewEnd).
type Splice struct {
	Start  int
	OldEnd int
	NewEnd int
}

// Delta returns the change in segment count.
func (s Splice) Delta() int {
	return (s.NewEnd - s.Start) - (s.OldEnd - s.Start)
}

// Build creates an index for doc.
func Build(doc *document.Document, reveal bool) *Index {
	x := &Index{reveal: reveal}
	x.Rebuild(doc)
	return x
}

// Rebuild recomputes the whole index from doc.
func (x *Index) Rebuild(doc *document.Document) {
	x.segs = x.segs[:0]
	counts := make([]int, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		before := len(x.segs)
		appendSubtree(&x.segs, p, document.ParagraphPath{i}, x.reveal)
		counts[i] = len(x.segs) - before
	}
	x.roots = newFenwick(counts)
}

// SetReveal switches reveal mode and rebuilds.
func (x *Index) SetReveal(doc *document.Document, reveal bool) {
	x.reveal = reveal
	x.Rebuild(doc)
}

// Reveal reports whether boundary segments are emitted.
func (x *Index) Reveal() bool {
	return x.reveal
}

// Len returns the number of segments.
func (x *Index) Len() int {
	return len(x.segs)
}

// At returns the segment at position i.
func (x *Index) At(i int) Segment {
	return x.segs[i]
}

// Segments returns the backing slice. Callers must not modify it.
func (x *Index) Segments() []Segment {
	return x.segs
}

// RootCount returns the number of root paragraphs the index covers.
func (x *Index) RootCount() int {
	return x.roots.len()
}

// RootRange returns the segment range of root paragraph r.
func (x *Index) RootRange(r int) (start, end int) {
	if r < 0 || r >= x.roots.len() {
		return len(x.segs), len(x.segs)
	}
	return x.roots.span(r)
}

// Range returns the segment range [start, end) covered by the subtree at
// path. An empty range gives the insertion point.
func (x *Index) Range(path document.ParagraphPath) (start, end int) {
	lo, hi := x.RootRange(path.Root())
	if len(path) == 1 {
		return lo, hi
	}
	window := x.segs[lo:hi]
	start = lo + sort.Search(len(window), func(i int) bool {
		return window[i].Paragraph.Compare(path) >= 0
	})
	end = lo + sort.Search(len(window), func(i int) bool {
		p := window[i].Paragraph
		return p.Compare(path) > 0 && !p.HasPrefix(path)
	})
	return start, end
}

// ParagraphRange returns the range of segments owned by the paragraph at path
// itself, excluding descendants.
func (x *Index) ParagraphRange(path document.ParagraphPath) (start, end int) {
	start, hi := x.Range(path)
	window := x.segs[start:hi]
	end = start + sort.Search(len(window), func(i int) bool {
		return !window[i].Paragraph.Equal(path)
	})
	return start, end
}

// Update rebuilds the segments of the subtree at path and splices them in
// place. The subtree's position in document order must be unchanged.
func (x *Index) Update(doc *document.Document, path document.ParagraphPath) (Splice, bool) {
	p := doc.ParagraphAt(path)
	if p == nil || path.Root() >= x.roots.len() {
		return Splice{}, false
	}
	start, end := x.Range(path)
	fresh := BuildSubtree(p, path, x.reveal)

	delta := len(fresh) - (end - start)
	switch {
	case delta > 0:
		x.segs = append(x.segs, make([]Segment, delta)...)
		copy(x.segs[end+delta:], x.segs[end:len(x.segs)-delta])
	case delta < 0:
		copy(x.segs[end+delta:], x.segs[end:])
		x.segs = x.segs[:len(x.segs)+delta]
	}
	copy(x.segs[start:], fresh)
	if delta != 0 {
		x.roots.add(path.Root(), delta)
	}
	return Splice{Start: start, OldEnd: end, NewEnd: start + len(fresh)}, true
}

// Find returns the position of the segment matching slot, if present.
func (x *Index) Find(slot Segment) (int, bool) {
	if slot.Paragraph.Root() < 0 || slot.Paragraph.Root() >= x.roots.len() {
		return 0, false
	}
	start, end := x.ParagraphRange(slot.Paragraph)
	for i := start; i < end; i++ {
		if x.segs[i].SameSlot(slot) {
			return i, true
		}
	}
	return 0, false
}

// Equal reports whether two indexes hold the same segments.
func (x *Index) Equal(other *Index) bool {
	if x.Len() != other.Len() || x.reveal != other.reveal {
		return false
	}
	for i := range x.segs {
		if !x.segs[i].Equal(other.segs[i]) {
			return false
		}
	}
	return true
}
