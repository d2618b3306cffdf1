package editor

import (
	"github.com/dshills/inkwell/internal/document"
)

// label returns the breadcrumb name of a paragraph type.
func label(t document.ParagraphType) string {
	switch t {
	case document.TypeText:
		return "Text"
	case document.TypeHeading1:
		return "Heading 1"
	case document.TypeHeading2:
		return "Heading 2"
	case document.TypeHeading3:
		return "Heading 3"
	case document.TypeQuote:
		return "Quote"
	case document.TypeCodeBlock:
		return "Code Block"
	case document.TypeOrderedList:
		return "Ordered List"
	case document.TypeUnorderedList:
		return "Unordered List"
	case document.TypeChecklistItem:
		return "Checklist"
	default:
		return "Unknown"
	}
}

// Breadcrumbs describes where the cursor is: one label per enclosing
// paragraph, then one per styled span around the cursor. A Text paragraph
// that is the only child of its quote or list entry is not labelled.
func (s *Session) Breadcrumbs() []string {
	pointer := s.Pointer()
	path := pointer.Paragraph
	if len(path) == 0 {
		return nil
	}

	var labels []string
	for n := 1; n <= len(path); {
		cur := path[:n]
		p := s.doc.ParagraphAt(cur)
		if p == nil {
			return labels
		}
		if !s.soleText(cur, p) {
			labels = append(labels, label(p.Type))
		}
		if n == len(path) {
			labels = append(labels, spanLabels(p.Content, pointer.Span)...)
			break
		}
		if p.Type.IsList() {
			n += 2
		} else {
			n++
		}
	}
	return labels
}

// soleText reports whether p is a Text paragraph that is the only paragraph
// of its quote or list entry.
func (s *Session) soleText(path document.ParagraphPath, p *document.Paragraph) bool {
	if p.Type != document.TypeText || len(path) == 1 {
		return false
	}
	_, parent := s.parentOf(path)
	switch {
	case parent == nil:
		return false
	case parent.Type.IsList():
		return len(parent.Entries[path[len(path)-2]]) == 1
	case parent.Type == document.TypeQuote:
		return len(parent.Children) == 1
	default:
		return false
	}
}

// spanLabels names the styles of every span along a span path.
func spanLabels(spans []*document.Span, path document.SpanPath) []string {
	var out []string
	level := spans
	for _, i := range path {
		if i < 0 || i >= len(level) {
			break
		}
		sp := level[i]
		for _, f := range sp.Style.Flags() {
			out = append(out, f.Name())
		}
		level = sp.Children
	}
	return out
}
