package document

import (
	"strconv"
	"strings"
)

// ParagraphPath locates a paragraph: the root index followed by one index per
// quote or checklist step and two indices (entry, paragraph) per list step.
type ParagraphPath []int

// Root returns the root paragraph index, or -1 for an empty path.
func (p ParagraphPath) Root() int {
	if len(p) == 0 {
		return -1
	}
	return p[0]
}

// Compare orders paths in document pre-order: -1, 0 or 1.
// A path sorts before every path it prefixes.
func (p ParagraphPath) Compare(other ParagraphPath) int {
	return compareInts(p, other)
}

// Equal reports whether both paths address the same paragraph.
func (p ParagraphPath) Equal(other ParagraphPath) bool {
	return compareInts(p, other) == 0
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p ParagraphPath) HasPrefix(prefix ParagraphPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, v := range prefix {
		if p[i] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p ParagraphPath) Clone() ParagraphPath {
	if p == nil {
		return nil
	}
	return append(ParagraphPath(nil), p...)
}

// Append returns a new path extended by the given indices.
func (p ParagraphPath) Append(idx ...int) ParagraphPath {
	out := make(ParagraphPath, 0, len(p)+len(idx))
	out = append(out, p...)
	return append(out, idx...)
}

// WithRoot returns a copy whose root index is replaced.
func (p ParagraphPath) WithRoot(root int) ParagraphPath {
	out := p.Clone()
	if len(out) > 0 {
		out[0] = root
	}
	return out
}

// String returns the path as dot-separated indices.
func (p ParagraphPath) String() string {
	return joinInts(p)
}

// SpanPath locates a span inside a paragraph's content by child indices.
type SpanPath []int

// Compare orders span paths in pre-order.
func (s SpanPath) Compare(other SpanPath) int {
	return compareInts(s, other)
}

// Equal reports whether both paths address the same span.
func (s SpanPath) Equal(other SpanPath) bool {
	return compareInts(s, other) == 0
}

// HasPrefix reports whether prefix addresses s or an ancestor of it.
func (s SpanPath) HasPrefix(prefix SpanPath) bool {
	return ParagraphPath(s).HasPrefix(ParagraphPath(prefix))
}

// Clone returns an independent copy.
func (s SpanPath) Clone() SpanPath {
	if s == nil {
		return nil
	}
	return append(SpanPath(nil), s...)
}

// Append returns a new path extended by the given indices.
func (s SpanPath) Append(idx ...int) SpanPath {
	out := make(SpanPath, 0, len(s)+len(idx))
	out = append(out, s...)
	return append(out, idx...)
}

// String returns the path as dot-separated indices.
func (s SpanPath) String() string {
	return joinInts(s)
}

func compareInts(a, b []int) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
