package segment

import (
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/document"
)

// Visitor receives segments in document order. For text segments leaf is the
// originating leaf and style/link its effective formatting; for boundary
// segments leaf is nil.
type Visitor func(seg Segment, leaf *document.Span, style document.Style, link string)

// Visit walks one paragraph's own content (not its children) and reports its
// segments. Build and the renderer both go through Visit so that they agree
// on segment order.
func Visit(p *document.Paragraph, path document.ParagraphPath, reveal bool, fn Visitor) {
	if !p.Type.HasContent() {
		return
	}
	if len(p.Content) == 0 {
		fn(Segment{Paragraph: path, Span: document.SpanPath{0}, Kind: KindText}, nil, document.StyleNone, "")
		return
	}
	visitSpans(p.Content, path, nil, document.StyleNone, "", reveal, fn)
}

func visitSpans(spans []*document.Span, path document.ParagraphPath, prefix document.SpanPath,
	inherited document.Style, link string, reveal bool, fn Visitor) {
	for i, s := range spans {
		sp := prefix.Append(i)
		style := inherited | s.Style
		l := link
		if s.Link != "" {
			l = s.Link
		}
		flags := s.Style.Flags()
		if reveal {
			for _, f := range flags {
				fn(Segment{Paragraph: path, Span: sp, Kind: KindBoundaryStart, Style: f}, nil, style, l)
			}
		}
		if s.IsLeaf() {
			fn(Segment{
				Paragraph: path,
				Span:      sp,
				Len:       utf8.RuneCountInString(s.Text),
				Kind:      KindText,
			}, s, style, l)
		} else {
			visitSpans(s.Children, path, sp, style, l, reveal, fn)
		}
		if reveal {
			for j := len(flags) - 1; j >= 0; j-- {
				fn(Segment{Paragraph: path, Span: sp, Kind: KindBoundaryEnd, Style: flags[j]}, nil, style, l)
			}
		}
	}
}

// BuildSubtree returns the segments of p and all of its descendants.
func BuildSubtree(p *document.Paragraph, path document.ParagraphPath, reveal bool) []Segment {
	var out []Segment
	appendSubtree(&out, p, path, reveal)
	return out
}

func appendSubtree(out *[]Segment, p *document.Paragraph, path document.ParagraphPath, reveal bool) {
	document.WalkParagraph(p, path, func(pp document.ParagraphPath, para *document.Paragraph) bool {
		Visit(para, pp, reveal, func(seg Segment, _ *document.Span, _ document.Style, _ string) {
			*out = append(*out, seg)
		})
		return true
	})
}
