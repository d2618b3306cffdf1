package document

import "unicode/utf8"

// SpanAt returns the span addressed by path, or nil.
func SpanAt(spans []*Span, path SpanPath) *Span {
	if len(path) == 0 {
		return nil
	}
	var cur *Span
	level := spans
	for _, i := range path {
		if i < 0 || i >= len(level) {
			return nil
		}
		cur = level[i]
		level = cur.Children
	}
	return cur
}

// LeafAt returns the leaf addressed by path, or nil if path is missing or
// addresses a composite.
func LeafAt(spans []*Span, path SpanPath) *Span {
	s := SpanAt(spans, path)
	if s == nil || !s.IsLeaf() {
		return nil
	}
	return s
}

// VisitLeaves calls fn for every leaf in pre-order with its effective style
// and link target.
func VisitLeaves(spans []*Span, fn func(path SpanPath, leaf *Span, style Style, link string)) {
	visitLeaves(spans, nil, StyleNone, "", fn)
}

func visitLeaves(spans []*Span, prefix SpanPath, inherited Style, link string, fn func(SpanPath, *Span, Style, string)) {
	for i, s := range spans {
		path := prefix.Append(i)
		style := inherited | s.Style
		l := link
		if s.Link != "" {
			l = s.Link
		}
		if s.IsLeaf() {
			fn(path, s, style, l)
			continue
		}
		visitLeaves(s.Children, path, style, l, fn)
	}
}

// InsertIntoLeaf inserts text at a rune offset of a leaf. Offsets past the
// end append.
func InsertIntoLeaf(leaf *Span, offset int, text string) {
	i := byteIndex(leaf.Text, offset)
	leaf.Text = leaf.Text[:i] + text + leaf.Text[i:]
}

// RemoveFromLeaf removes the rune at offset and returns it.
func RemoveFromLeaf(leaf *Span, offset int) (rune, bool) {
	if offset < 0 {
		return 0, false
	}
	i := byteIndex(leaf.Text, offset)
	if i >= len(leaf.Text) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(leaf.Text[i:])
	leaf.Text = leaf.Text[:i] + leaf.Text[i+size:]
	return r, true
}

// SplitSpans splits a span list at a content rune offset. Composites that
// straddle the offset appear on both sides with the same style.
func SplitSpans(spans []*Span, at int) (left, right []*Span) {
	for _, s := range spans {
		n := s.RuneCount()
		switch {
		case at >= n:
			left = append(left, s)
			at -= n
		case at <= 0:
			right = append(right, s)
		default:
			l, r := splitSpan(s, at)
			left = append(left, l)
			right = append(right, r)
			at = 0
		}
	}
	return left, right
}

func splitSpan(s *Span, at int) (*Span, *Span) {
	if s.IsLeaf() {
		i := byteIndex(s.Text, at)
		return &Span{Style: s.Style, Link: s.Link, Text: s.Text[:i]},
			&Span{Style: s.Style, Link: s.Link, Text: s.Text[i:]}
	}
	l, r := SplitSpans(s.Children, at)
	return &Span{Style: s.Style, Link: s.Link, Children: l},
		&Span{Style: s.Style, Link: s.Link, Children: r}
}

// RemoveRange deletes content runes in [from, to) and returns the new,
// normalized span list.
func RemoveRange(spans []*Span, from, to int) []*Span {
	if to <= from {
		return spans
	}
	left, rest := SplitSpans(spans, from)
	_, right := SplitSpans(rest, to-from)
	return Normalize(append(left, right...))
}

// RangeHasStyle reports whether every rune in [from, to) carries style.
// An empty range never has a style.
func RangeHasStyle(spans []*Span, from, to int, style Style) bool {
	if to <= from {
		return false
	}
	pos := 0
	all := true
	VisitLeaves(spans, func(_ SpanPath, leaf *Span, eff Style, _ string) {
		n := utf8.RuneCountInString(leaf.Text)
		start, end := pos, pos+n
		pos = end
		if end <= from || start >= to || n == 0 {
			return
		}
		if !eff.Has(style) {
			all = false
		}
	})
	return all
}

// ApplyStyle sets or clears style on the content runes in [from, to) and
// returns the new, normalized span list. Setting wraps the range in a
// composite so styles stay properly nested; clearing strips the flag from
// every span inside the range.
func ApplyStyle(spans []*Span, from, to int, style Style, link string, on bool) []*Span {
	if to <= from {
		return spans
	}
	left, rest := SplitSpans(spans, from)
	mid, right := SplitSpans(rest, to-from)
	if on {
		wrapper := &Span{Style: style, Children: mid}
		if style.Has(StyleLink) {
			wrapper.Link = link
		}
		mid = []*Span{wrapper}
	} else {
		for _, s := range mid {
			stripStyle(s, style)
		}
	}
	out := make([]*Span, 0, len(left)+len(mid)+len(right))
	out = append(out, left...)
	out = append(out, mid...)
	out = append(out, right...)
	return Normalize(out)
}

func stripStyle(s *Span, style Style) {
	s.Style = s.Style.Without(style)
	if style.Has(StyleLink) {
		s.Link = ""
	}
	for _, c := range s.Children {
		stripStyle(c, style)
	}
}

// Normalize returns the canonical form of a span list:
//
//   - empty leaves and empty composites are dropped
//   - flags already set on an ancestor are removed from descendants
//   - unstyled composites are flattened into their parent
//   - single-child composites are folded into the child
//   - adjacent siblings with equal style and link are merged
//
// A list that normalizes to nothing becomes a single empty leaf so the
// paragraph stays addressable.
func Normalize(spans []*Span) []*Span {
	out := normalize(spans, StyleNone)
	if len(out) == 0 {
		return []*Span{NewText("")}
	}
	return out
}

func normalize(spans []*Span, inherited Style) []*Span {
	out := make([]*Span, 0, len(spans))
	for _, s := range spans {
		style := s.Style.Without(inherited)
		link := s.Link
		if !style.Has(StyleLink) {
			link = ""
		}
		if s.IsLeaf() {
			if s.Text == "" {
				continue
			}
			out = appendMerged(out, &Span{Style: style, Link: link, Text: s.Text})
			continue
		}
		children := normalize(s.Children, inherited|style)
		switch {
		case len(children) == 0:
			continue
		case style == StyleNone:
			for _, c := range children {
				out = appendMerged(out, c)
			}
		case len(children) == 1:
			c := children[0]
			folded := &Span{Style: c.Style | style, Link: c.Link, Text: c.Text, Children: c.Children}
			if style.Has(StyleLink) {
				folded.Link = link
			}
			out = appendMerged(out, folded)
		default:
			out = appendMerged(out, &Span{Style: style, Link: link, Children: children})
		}
	}
	return out
}

func appendMerged(out []*Span, s *Span) []*Span {
	if len(out) == 0 {
		return append(out, s)
	}
	last := out[len(out)-1]
	if last.Style != s.Style || last.Link != s.Link || last.IsLeaf() != s.IsLeaf() {
		return append(out, s)
	}
	if s.IsLeaf() {
		out[len(out)-1] = &Span{Style: last.Style, Link: last.Link, Text: last.Text + s.Text}
		return out
	}
	merged := append(append([]*Span(nil), last.Children...), s.Children...)
	out[len(out)-1] = &Span{Style: last.Style, Link: last.Link, Children: normalize(merged, StyleNone)}
	return out
}

// byteIndex converts a rune offset into a byte index, clamped to len(s).
func byteIndex(s string, runeOffset int) int {
	if runeOffset <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runeOffset {
			return i
		}
		n++
	}
	return len(s)
}
