package document

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// ParagraphType identifies the kind of a paragraph.
type ParagraphType uint8

// Paragraph types.
const (
	TypeText ParagraphType = iota
	TypeHeading1
	TypeHeading2
	TypeHeading3
	TypeQuote
	TypeCodeBlock
	TypeOrderedList
	TypeUnorderedList
	TypeChecklistItem
)

// String returns the display name of the type.
func (t ParagraphType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeHeading1:
		return "Heading 1"
	case TypeHeading2:
		return "Heading 2"
	case TypeHeading3:
		return "Heading 3"
	case TypeQuote:
		return "Quote"
	case TypeCodeBlock:
		return "Code"
	case TypeOrderedList:
		return "Numbered List"
	case TypeUnorderedList:
		return "Bullet List"
	case TypeChecklistItem:
		return "Checklist"
	default:
		return "Unknown"
	}
}

// IsList reports whether the type owns entries.
func (t ParagraphType) IsList() bool {
	return t == TypeOrderedList || t == TypeUnorderedList
}

// IsHeading reports whether the type is a heading.
func (t ParagraphType) IsHeading() bool {
	return t == TypeHeading1 || t == TypeHeading2 || t == TypeHeading3
}

// HasContent reports whether paragraphs of this type own inline content.
func (t ParagraphType) HasContent() bool {
	switch t {
	case TypeText, TypeHeading1, TypeHeading2, TypeHeading3, TypeCodeBlock, TypeChecklistItem:
		return true
	default:
		return false
	}
}

// HasChildren reports whether paragraphs of this type own child paragraphs.
func (t ParagraphType) HasChildren() bool {
	return t == TypeQuote || t == TypeChecklistItem
}

// Level returns the heading level (1-3), or 0 for non-headings.
func (t ParagraphType) Level() int {
	switch t {
	case TypeHeading1:
		return 1
	case TypeHeading2:
		return 2
	case TypeHeading3:
		return 3
	default:
		return 0
	}
}

// HeadingType returns the heading type for a level, clamped to 1-3.
func HeadingType(level int) ParagraphType {
	switch {
	case level <= 1:
		return TypeHeading1
	case level == 2:
		return TypeHeading2
	default:
		return TypeHeading3
	}
}

// ID identifies a paragraph independently of its position.
type ID uint64

var lastID atomic.Uint64

// NewID returns a fresh paragraph ID. IDs increase monotonically.
func NewID() ID {
	return ID(lastID.Add(1))
}

// Paragraph is a node of the document tree.
type Paragraph struct {
	ID      ID
	Type    ParagraphType
	Checked bool

	// Content is the inline span tree for content-bearing types.
	Content []*Span

	// Children holds nested paragraphs of quotes and checklist items.
	Children []*Paragraph

	// Entries holds list entries. Each entry is a run of paragraphs,
	// the first of which is the entry's item text.
	Entries [][]*Paragraph
}

// NewParagraph creates an empty paragraph of the given type with a fresh ID.
func NewParagraph(t ParagraphType) *Paragraph {
	p := &Paragraph{ID: NewID(), Type: t}
	if t.HasContent() {
		p.Content = []*Span{NewText("")}
	}
	return p
}

// NewTextParagraph creates a Text paragraph holding a single plain leaf.
func NewTextParagraph(text string) *Paragraph {
	return &Paragraph{ID: NewID(), Type: TypeText, Content: []*Span{NewText(text)}}
}

// NewContentParagraph creates a content paragraph of type t with the given spans.
func NewContentParagraph(t ParagraphType, spans ...*Span) *Paragraph {
	p := &Paragraph{ID: NewID(), Type: t, Content: spans}
	if len(p.Content) == 0 {
		p.Content = []*Span{NewText("")}
	}
	return p
}

// NewList creates a list of type t whose entries each hold one paragraph.
func NewList(t ParagraphType, items ...*Paragraph) *Paragraph {
	p := &Paragraph{ID: NewID(), Type: t}
	for _, item := range items {
		p.Entries = append(p.Entries, []*Paragraph{item})
	}
	return p
}

// NewQuote creates a quote holding the given children.
func NewQuote(children ...*Paragraph) *Paragraph {
	return &Paragraph{ID: NewID(), Type: TypeQuote, Children: children}
}

// NewChecklistItem creates a checklist item with plain text.
func NewChecklistItem(text string, checked bool, children ...*Paragraph) *Paragraph {
	return &Paragraph{
		ID:       NewID(),
		Type:     TypeChecklistItem,
		Checked:  checked,
		Content:  []*Span{NewText(text)},
		Children: children,
	}
}

// Level returns the heading level, or 0.
func (p *Paragraph) Level() int {
	return p.Type.Level()
}

// RuneCount returns the number of runes of inline content.
func (p *Paragraph) RuneCount() int {
	n := 0
	for _, s := range p.Content {
		n += s.RuneCount()
	}
	return n
}

// Text returns the inline content as plain text.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, s := range p.Content {
		s.writeText(&b)
	}
	return b.String()
}

// IsEmpty reports whether the paragraph has no text and no nested paragraphs.
func (p *Paragraph) IsEmpty() bool {
	if p.RuneCount() > 0 {
		return false
	}
	if len(p.Children) > 0 {
		return false
	}
	for _, e := range p.Entries {
		if len(e) > 0 {
			return false
		}
	}
	return true
}

// Span is a node of the inline formatting tree.
type Span struct {
	Style Style

	// Link is the link target when Style has StyleLink.
	Link string

	// Text is the literal text of a leaf span.
	Text string

	// Children makes the span a composite when non-empty.
	Children []*Span
}

// NewText creates an unstyled leaf.
func NewText(text string) *Span {
	return &Span{Text: text}
}

// NewStyled creates a styled leaf.
func NewStyled(style Style, text string) *Span {
	return &Span{Style: style, Text: text}
}

// NewLink creates a link leaf.
func NewLink(target, text string) *Span {
	return &Span{Style: StyleLink, Link: target, Text: text}
}

// NewComposite creates a styled composite span.
func NewComposite(style Style, children ...*Span) *Span {
	return &Span{Style: style, Children: children}
}

// IsLeaf reports whether the span carries text rather than children.
func (s *Span) IsLeaf() bool {
	return len(s.Children) == 0
}

// RuneCount returns the number of runes below the span.
func (s *Span) RuneCount() int {
	if s.IsLeaf() {
		return utf8.RuneCountInString(s.Text)
	}
	n := 0
	for _, c := range s.Children {
		n += c.RuneCount()
	}
	return n
}

// PlainText returns the concatenated text below the span.
func (s *Span) PlainText() string {
	var b strings.Builder
	s.writeText(&b)
	return b.String()
}

func (s *Span) writeText(b *strings.Builder) {
	if s.IsLeaf() {
		b.WriteString(s.Text)
		return
	}
	for _, c := range s.Children {
		c.writeText(b)
	}
}
