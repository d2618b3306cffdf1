package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dshills/inkwell/internal/document"
)

// ParseMarkdown reads GitHub flavored Markdown.
//
// Lists whose items all start with a task box become checklist items.
// Inline <u> and <mark> tags set Underline and Highlight. Thematic breaks
// and HTML blocks are dropped; table cells become Text paragraphs.
func ParseMarkdown(r io.Reader) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(src))
	p := &mdParser{src: src}
	return finish(p.blocks(root)), nil
}

type mdParser struct {
	src []byte

	// extra holds styles opened by inline HTML tags.
	extra document.Style
}

func (p *mdParser) blocks(parent ast.Node) []*document.Paragraph {
	var out []*document.Paragraph
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, p.block(n)...)
	}
	return out
}

func (p *mdParser) block(n ast.Node) []*document.Paragraph {
	switch node := n.(type) {
	case *ast.Heading:
		return one(document.NewContentParagraph(document.HeadingType(node.Level), p.inline(node)...))
	case *ast.Paragraph, *ast.TextBlock:
		return one(document.NewContentParagraph(document.TypeText, p.inline(node)...))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return one(document.NewContentParagraph(document.TypeCodeBlock, document.NewText(nfc(p.lines(n)))))
	case *ast.Blockquote:
		return one(document.NewQuote(p.blocks(node)...))
	case *ast.List:
		if isTaskList(node) {
			return p.checklist(node)
		}
		typ := document.TypeUnorderedList
		if node.IsOrdered() {
			typ = document.TypeOrderedList
		}
		list := &document.Paragraph{ID: document.NewID(), Type: typ}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			list.Entries = append(list.Entries, p.blocks(item))
		}
		return one(list)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return nil
	default:
		if n.Type() == ast.TypeInline {
			return nil
		}
		if hasInlineChildren(n) {
			return one(document.NewContentParagraph(document.TypeText, p.inline(n)...))
		}
		return p.blocks(n)
	}
}

func hasInlineChildren(n ast.Node) bool {
	c := n.FirstChild()
	return c != nil && c.Type() == ast.TypeInline
}

func (p *mdParser) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(p.src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// taskBox returns the task box opening a list item, or nil.
func taskBox(item ast.Node) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}

func isTaskList(list *ast.List) bool {
	if list.ChildCount() == 0 {
		return false
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if taskBox(item) == nil {
			return false
		}
	}
	return true
}

func (p *mdParser) checklist(list *ast.List) []*document.Paragraph {
	var out []*document.Paragraph
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		box := taskBox(item)
		first := item.FirstChild()
		content := trimLeadingSpace(p.inline(first))
		cl := document.NewContentParagraph(document.TypeChecklistItem, content...)
		cl.Checked = box.IsChecked
		for n := first.NextSibling(); n != nil; n = n.NextSibling() {
			cl.Children = append(cl.Children, p.block(n)...)
		}
		out = append(out, cl)
	}
	return out
}

// trimLeadingSpace drops the space that separates a task box from its text.
func trimLeadingSpace(spans []*document.Span) []*document.Span {
	for len(spans) > 0 {
		s := spans[0]
		if !s.IsLeaf() {
			s.Children = trimLeadingSpace(s.Children)
			return spans
		}
		s.Text = strings.TrimPrefix(s.Text, " ")
		if s.Text != "" {
			return spans
		}
		spans = spans[1:]
	}
	return spans
}

func (p *mdParser) inline(parent ast.Node) []*document.Span {
	p.extra = document.StyleNone
	return trimTrailingSpace(p.inlineChildren(parent))
}

// trimTrailingSpace drops line-break whitespace left after the last line.
func trimTrailingSpace(spans []*document.Span) []*document.Span {
	for len(spans) > 0 {
		last := spans[len(spans)-1]
		if !last.IsLeaf() {
			last.Children = trimTrailingSpace(last.Children)
			return spans
		}
		last.Text = strings.TrimRight(last.Text, " \n")
		if last.Text != "" {
			return spans
		}
		spans = spans[:len(spans)-1]
	}
	return spans
}

func (p *mdParser) inlineChildren(parent ast.Node) []*document.Span {
	var out []*document.Span
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, p.inlineNode(n)...)
	}
	return out
}

func (p *mdParser) leaf(s string) *document.Span {
	return document.NewStyled(p.extra, nfc(s))
}

func (p *mdParser) inlineNode(n ast.Node) []*document.Span {
	switch node := n.(type) {
	case *east.TaskCheckBox:
		return nil
	case *ast.Text:
		s := unescape(node.Value(p.src))
		var out []*document.Span
		if s != "" {
			out = append(out, p.leaf(s))
		}
		switch {
		case node.HardLineBreak():
			out = append(out, p.leaf("\n"))
		case node.SoftLineBreak():
			out = append(out, p.leaf(" "))
		}
		return out
	case *ast.String:
		if len(node.Value) == 0 {
			return nil
		}
		return []*document.Span{p.leaf(string(node.Value))}
	case *ast.CodeSpan:
		var b strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				b.Write(t.Value(p.src))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		return []*document.Span{document.NewComposite(document.StyleCode, p.leaf(b.String()))}
	case *ast.Emphasis:
		style := document.StyleItalic
		if node.Level >= 2 {
			style = document.StyleBold
		}
		return wrap(style, "", p.inlineChildren(node))
	case *east.Strikethrough:
		return wrap(document.StyleStrike, "", p.inlineChildren(node))
	case *ast.Link:
		return wrap(document.StyleLink, string(node.Destination), p.inlineChildren(node))
	case *ast.AutoLink:
		return wrap(document.StyleLink, string(node.URL(p.src)), []*document.Span{p.leaf(string(node.Label(p.src)))})
	case *ast.Image:
		return p.inlineChildren(node)
	case *ast.RawHTML:
		var b bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(p.src))
		}
		p.rawTag(strings.ToLower(strings.TrimSpace(b.String())))
		return nil
	default:
		return p.inlineChildren(n)
	}
}

// rawTag toggles the styles Markdown can only express as inline HTML.
func (p *mdParser) rawTag(tag string) {
	switch tag {
	case "<u>", "<ins>":
		p.extra = p.extra.With(document.StyleUnderline)
	case "</u>", "</ins>":
		p.extra = p.extra.Without(document.StyleUnderline)
	case "<mark>":
		p.extra = p.extra.With(document.StyleHighlight)
	case "</mark>":
		p.extra = p.extra.Without(document.StyleHighlight)
	}
}

func wrap(style document.Style, link string, children []*document.Span) []*document.Span {
	if len(children) == 0 {
		return nil
	}
	s := document.NewComposite(style, children...)
	s.Link = link
	return []*document.Span{s}
}

func unescape(b []byte) string {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}

// WriteMarkdown serializes doc as Markdown. Underline and Highlight are
// written as <u> and <mark>; empty root paragraphs are skipped.
func WriteMarkdown(w io.Writer, doc *document.Document) error {
	lines := mdBlocks(doc.Paragraphs)
	out := strings.Join(lines, "\n")
	if out != "" {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// mdBlocks renders paragraphs as lines separated by blank lines. Runs of
// checklist items form one tight list.
// Adjacent lists with the same marker family would merge when read back, so
// every other one switches to the alternate marker.
func mdBlocks(paragraphs []*document.Paragraph) []string {
	var (
		out       []string
		prev      *document.Paragraph
		alternate bool
	)
	for _, p := range paragraphs {
		sameList := prev != nil && prev.Type == document.TypeChecklistItem && p.Type == document.TypeChecklistItem
		alt := false
		switch {
		case sameList:
			alt = alternate
		case prev != nil && markerFamily(prev.Type) != 0 && markerFamily(prev.Type) == markerFamily(p.Type):
			alt = !alternate
		}
		block := mdBlock(p, alt)
		if len(block) == 0 {
			continue
		}
		if len(out) > 0 && !sameList {
			out = append(out, "")
		}
		out = append(out, block...)
		prev, alternate = p, alt
	}
	return out
}

// markerFamily groups list types whose Markdown markers continue each other.
func markerFamily(t document.ParagraphType) int {
	switch t {
	case document.TypeUnorderedList, document.TypeChecklistItem:
		return 1
	case document.TypeOrderedList:
		return 2
	default:
		return 0
	}
}

func mdBlock(p *document.Paragraph, alternate bool) []string {
	switch p.Type {
	case document.TypeText:
		if p.RuneCount() == 0 {
			return nil
		}
		return mdParagraph(p.Content)
	case document.TypeHeading1, document.TypeHeading2, document.TypeHeading3:
		marker := strings.Repeat("#", p.Level()) + " "
		return []string{marker + strings.ReplaceAll(mdSpans(p.Content), "\n", " ")}
	case document.TypeCodeBlock:
		fence := codeFence(p.Text())
		lines := []string{fence}
		if text := p.Text(); text != "" {
			lines = append(lines, strings.Split(text, "\n")...)
		}
		return append(lines, fence)
	case document.TypeQuote:
		inner := mdBlocks(p.Children)
		if len(inner) == 0 {
			return []string{">"}
		}
		return prefixLines(inner, "> ", ">")
	case document.TypeOrderedList, document.TypeUnorderedList:
		var lines []string
		bullet, delim := "- ", ". "
		if alternate {
			bullet, delim = "* ", ") "
		}
		for i, entry := range p.Entries {
			marker := bullet
			if p.Type == document.TypeOrderedList {
				marker = strconv.Itoa(i+1) + delim
			}
			body := mdBlocks(entry)
			if len(body) == 0 {
				lines = append(lines, strings.TrimRight(marker, " "))
				continue
			}
			lines = append(lines, hangLines(body, marker)...)
		}
		return lines
	case document.TypeChecklistItem:
		box := "- "
		if alternate {
			box = "* "
		}
		if p.Checked {
			box += "[x] "
		} else {
			box += "[ ] "
		}
		lines := []string{box + strings.ReplaceAll(mdSpans(p.Content), "\n", " ")}
		if children := mdBlocks(p.Children); len(children) > 0 {
			lines = append(lines, prefixLines(children, "  ", "")...)
		}
		return lines
	default:
		return nil
	}
}

// mdParagraph renders inline content, turning line breaks into hard breaks.
func mdParagraph(spans []*document.Span) []string {
	lines := strings.Split(mdSpans(spans), "\n")
	for i := range lines {
		lines[i] = escapeLineStart(lines[i])
		if i < len(lines)-1 {
			lines[i] += `\`
		}
	}
	return lines
}

// hangLines puts marker before the first line and indents the rest to the
// marker's width.
func hangLines(lines []string, marker string) []string {
	indent := strings.Repeat(" ", len(marker))
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case i == 0:
			out[i] = marker + l
		case l == "":
			out[i] = ""
		default:
			out[i] = indent + l
		}
	}
	return out
}

func prefixLines(lines []string, prefix, blank string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = blank
			continue
		}
		out[i] = prefix + l
	}
	return out
}

func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

func mdSpans(spans []*document.Span) string {
	var b strings.Builder
	for _, s := range spans {
		writeMDSpan(&b, s)
	}
	return b.String()
}

// mdOrder is the nesting order of Markdown markers, outermost first. Code
// is innermost because code spans cannot contain other markup.
var mdOrder = [...]document.Style{
	document.StyleLink,
	document.StyleBold,
	document.StyleItalic,
	document.StyleStrike,
	document.StyleUnderline,
	document.StyleHighlight,
	document.StyleCode,
}

func writeMDSpan(b *strings.Builder, s *document.Span) {
	var flags []document.Style
	for _, f := range mdOrder {
		if s.Style.Has(f) {
			flags = append(flags, f)
		}
	}
	for _, f := range flags {
		b.WriteString(mdOpen(f))
	}
	switch {
	case s.Style.Has(document.StyleCode):
		b.WriteString(codeSpan(s.PlainText()))
	case s.IsLeaf():
		b.WriteString(escapeMarkdown(s.Text))
	default:
		for _, c := range s.Children {
			writeMDSpan(b, c)
		}
	}
	for i := len(flags) - 1; i >= 0; i-- {
		b.WriteString(mdClose(flags[i], s.Link))
	}
}

func mdOpen(f document.Style) string {
	switch f {
	case document.StyleLink:
		return "["
	case document.StyleBold:
		return "**"
	case document.StyleItalic:
		return "*"
	case document.StyleStrike:
		return "~~"
	case document.StyleUnderline:
		return "<u>"
	case document.StyleHighlight:
		return "<mark>"
	default:
		return ""
	}
}

func mdClose(f document.Style, link string) string {
	switch f {
	case document.StyleLink:
		return "](" + strings.ReplaceAll(link, " ", "%20") + ")"
	case document.StyleUnderline:
		return "</u>"
	case document.StyleHighlight:
		return "</mark>"
	default:
		return mdOpen(f)
	}
}

// codeSpan wraps text in enough backticks to contain it.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	ticks := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

func escapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '~', '|', '&':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeLineStart escapes characters that would open a block construct at
// the start of a line.
func escapeLineStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '-', '+', '=':
		return `\` + line
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return line[:i] + `\` + line[i:]
	}
	return line
}
