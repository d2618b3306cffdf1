package format

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/inkwell/internal/document"
)

// checklistClass marks a <ul> whose items are checklist items.
const checklistClass = "checklist"

// ParseFTML reads an FTML document.
//
// Block elements are p, h1-h6 (h4-h6 become level 3), pre, blockquote,
// ul, ol and ul.checklist whose li elements may carry a checked attribute.
// Inline elements are b/strong, i/em, u/ins, s/del/strike, mark, code,
// a[href], span and br. Inline text outside a block becomes a Text
// paragraph. Whitespace runs that contain a line break collapse to a single
// space, or vanish at the edges of a paragraph.
func ParseFTML(r io.Reader) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse ftml: %w", err)
	}
	body := findBody(root)
	if body == nil {
		return finish(nil), nil
	}
	paragraphs, err := ftmlBlocks(childNodes(body))
	if err != nil {
		return nil, err
	}
	return finish(paragraphs), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func ftmlBlocks(nodes []*html.Node) ([]*document.Paragraph, error) {
	var (
		out    []*document.Paragraph
		inline []*html.Node
	)
	flush := func() {
		if !isBlank(inline) {
			out = append(out, document.NewContentParagraph(document.TypeText, ftmlInline(inline, true)...))
		}
		inline = nil
	}

	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			inline = append(inline, n)
		case html.ElementNode:
			if isInlineElement(n) {
				inline = append(inline, n)
				continue
			}
			flush()
			ps, err := ftmlBlock(n)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
		}
	}
	flush()
	return out, nil
}

func ftmlBlock(n *html.Node) ([]*document.Paragraph, error) {
	switch n.DataAtom {
	case atom.P:
		return one(document.NewContentParagraph(document.TypeText, ftmlInline(childNodes(n), true)...)), nil
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		return one(document.NewContentParagraph(document.HeadingType(level), ftmlInline(childNodes(n), true)...)), nil
	case atom.Pre:
		return one(document.NewContentParagraph(document.TypeCodeBlock, document.NewText(nfc(textContent(n))))), nil
	case atom.Blockquote:
		children, err := ftmlBlocks(childNodes(n))
		if err != nil {
			return nil, err
		}
		return one(document.NewQuote(children...)), nil
	case atom.Ul, atom.Ol:
		if hasClass(n, checklistClass) {
			return ftmlChecklist(n)
		}
		return ftmlList(n)
	case atom.Div, atom.Section, atom.Article, atom.Main:
		return ftmlBlocks(childNodes(n))
	case atom.Hr, atom.Script, atom.Style:
		return nil, nil
	default:
		return nil, &SyntaxError{Format: FTML, Element: n.Data, Msg: "unsupported element"}
	}
}

func one(p *document.Paragraph) []*document.Paragraph {
	return []*document.Paragraph{p}
}

func ftmlList(n *html.Node) ([]*document.Paragraph, error) {
	typ := document.TypeUnorderedList
	if n.DataAtom == atom.Ol {
		typ = document.TypeOrderedList
	}
	list := &document.Paragraph{ID: document.NewID(), Type: typ}
	items, err := listItems(n)
	if err != nil {
		return nil, err
	}
	for _, li := range items {
		entry, err := ftmlBlocks(childNodes(li))
		if err != nil {
			return nil, err
		}
		list.Entries = append(list.Entries, entry)
	}
	return one(list), nil
}

func ftmlChecklist(n *html.Node) ([]*document.Paragraph, error) {
	items, err := listItems(n)
	if err != nil {
		return nil, err
	}
	out := make([]*document.Paragraph, 0, len(items))
	for _, li := range items {
		nodes := childNodes(li)
		split := len(nodes)
		for i, c := range nodes {
			if c.Type == html.ElementNode && !isInlineElement(c) {
				split = i
				break
			}
		}
		children, err := ftmlBlocks(nodes[split:])
		if err != nil {
			return nil, err
		}
		item := document.NewContentParagraph(document.TypeChecklistItem, ftmlInline(nodes[:split], true)...)
		item.Checked = hasAttr(li, "checked")
		item.Children = children
		out = append(out, item)
	}
	return out, nil
}

func listItems(n *html.Node) ([]*html.Node, error) {
	var items []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.ElementNode && c.DataAtom == atom.Li:
			items = append(items, c)
		case c.Type == html.ElementNode:
			return nil, &SyntaxError{Format: FTML, Element: c.Data, Msg: "expected li inside " + n.Data}
		case c.Type == html.TextNode && strings.TrimSpace(c.Data) != "":
			return nil, &SyntaxError{Format: FTML, Element: n.Data, Msg: "text outside list item"}
		}
	}
	return items, nil
}

func isInlineElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.A, atom.B, atom.Strong, atom.I, atom.Em, atom.U, atom.Ins,
		atom.S, atom.Del, atom.Strike, atom.Mark, atom.Code, atom.Kbd, atom.Tt,
		atom.Span, atom.Br, atom.Sub, atom.Sup, atom.Small, atom.Img:
		return true
	default:
		return false
	}
}

func inlineStyle(n *html.Node) document.Style {
	switch n.DataAtom {
	case atom.B, atom.Strong:
		return document.StyleBold
	case atom.I, atom.Em:
		return document.StyleItalic
	case atom.U, atom.Ins:
		return document.StyleUnderline
	case atom.S, atom.Del, atom.Strike:
		return document.StyleStrike
	case atom.Mark:
		return document.StyleHighlight
	case atom.Code, atom.Kbd, atom.Tt:
		return document.StyleCode
	case atom.A:
		if attr(n, "href") != "" {
			return document.StyleLink
		}
	}
	return document.StyleNone
}

// ftmlInline converts inline nodes to spans. With trim set, line-break
// whitespace at the outer edges is dropped.
func ftmlInline(nodes []*html.Node, trim bool) []*document.Span {
	var spans []*document.Span
	for i, n := range nodes {
		switch n.Type {
		case html.TextNode:
			text := collapseBreaks(n.Data, trim && i == 0, trim && i == len(nodes)-1)
			if text != "" {
				spans = append(spans, document.NewText(nfc(text)))
			}
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Br:
				spans = append(spans, document.NewText("\n"))
				continue
			case atom.Img:
				if alt := attr(n, "alt"); alt != "" {
					spans = append(spans, document.NewText(nfc(alt)))
				}
				continue
			}
			children := ftmlInline(childNodes(n), false)
			if len(children) == 0 {
				continue
			}
			style := inlineStyle(n)
			span := document.NewComposite(style, children...)
			if style == document.StyleLink {
				span.Link = attr(n, "href")
			}
			spans = append(spans, span)
		}
	}
	return spans
}

// collapseBreaks replaces whitespace runs containing a line break with a
// single space. Such runs at a trimmed edge are removed.
func collapseBreaks(s string, trimStart, trimEnd bool) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if !isSpace(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		hasBreak := false
		for j < len(s) && isSpace(s[j]) {
			if s[j] == '\n' || s[j] == '\r' {
				hasBreak = true
			}
			j++
		}
		switch {
		case !hasBreak:
			b.WriteString(s[i:j])
		case i == 0 && trimStart, j == len(s) && trimEnd:
		default:
			b.WriteByte(' ')
		}
		i = j
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isBlank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type != html.TextNode || strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val != "false"
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// WriteFTML serializes doc as FTML. Nested blocks are indented by two
// spaces; inline content never contains raw line breaks.
func WriteFTML(w io.Writer, doc *document.Document) error {
	fw := &ftmlWriter{}
	fw.blocks(doc.Paragraphs, 0)
	_, err := io.WriteString(w, fw.b.String())
	return err
}

type ftmlWriter struct {
	b strings.Builder
}

func (fw *ftmlWriter) line(depth int, s string) {
	fw.b.WriteString(strings.Repeat("  ", depth))
	fw.b.WriteString(s)
	fw.b.WriteByte('\n')
}

func (fw *ftmlWriter) blocks(paragraphs []*document.Paragraph, depth int) {
	for i := 0; i < len(paragraphs); i++ {
		p := paragraphs[i]
		if p.Type != document.TypeChecklistItem {
			fw.block(p, depth)
			continue
		}
		fw.line(depth, `<ul class="`+checklistClass+`">`)
		for ; i < len(paragraphs) && paragraphs[i].Type == document.TypeChecklistItem; i++ {
			fw.checklistItem(paragraphs[i], depth+1)
		}
		i--
		fw.line(depth, "</ul>")
	}
}

func (fw *ftmlWriter) block(p *document.Paragraph, depth int) {
	switch p.Type {
	case document.TypeText:
		fw.line(depth, "<p>"+ftmlSpans(p.Content)+"</p>")
	case document.TypeHeading1, document.TypeHeading2, document.TypeHeading3:
		tag := fmt.Sprintf("h%d", p.Level())
		fw.line(depth, "<"+tag+">"+ftmlSpans(p.Content)+"</"+tag+">")
	case document.TypeCodeBlock:
		fw.b.WriteString(strings.Repeat("  ", depth))
		fw.b.WriteString("<pre>\n")
		fw.b.WriteString(html.EscapeString(p.Text()))
		fw.b.WriteString("</pre>\n")
	case document.TypeQuote:
		fw.line(depth, "<blockquote>")
		fw.blocks(p.Children, depth+1)
		fw.line(depth, "</blockquote>")
	case document.TypeOrderedList, document.TypeUnorderedList:
		tag := "ul"
		if p.Type == document.TypeOrderedList {
			tag = "ol"
		}
		fw.line(depth, "<"+tag+">")
		for _, entry := range p.Entries {
			if len(entry) == 1 && entry[0].Type == document.TypeText {
				fw.line(depth+1, "<li>"+ftmlSpans(entry[0].Content)+"</li>")
				continue
			}
			fw.line(depth+1, "<li>")
			fw.blocks(entry, depth+2)
			fw.line(depth+1, "</li>")
		}
		fw.line(depth, "</"+tag+">")
	case document.TypeChecklistItem:
		fw.blocks([]*document.Paragraph{p}, depth)
	}
}

func (fw *ftmlWriter) checklistItem(p *document.Paragraph, depth int) {
	open := "<li>"
	if p.Checked {
		open = "<li checked>"
	}
	if len(p.Children) == 0 {
		fw.line(depth, open+ftmlSpans(p.Content)+"</li>")
		return
	}
	// The span keeps trailing spaces of the item text apart from the
	// line break that precedes the children.
	fw.line(depth, open+"<span>"+ftmlSpans(p.Content)+"</span>")
	fw.blocks(p.Children, depth+1)
	fw.line(depth, "</li>")
}

func ftmlSpans(spans []*document.Span) string {
	var b strings.Builder
	for _, s := range spans {
		writeFTMLSpan(&b, s)
	}
	return b.String()
}

func writeFTMLSpan(b *strings.Builder, s *document.Span) {
	flags := s.Style.Flags()
	for _, f := range flags {
		if f == document.StyleLink {
			b.WriteString(`<a href="` + html.EscapeString(s.Link) + `">`)
			continue
		}
		b.WriteString("<" + ftmlTag(f) + ">")
	}
	if s.IsLeaf() {
		for i, part := range strings.Split(s.Text, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(part))
		}
	} else {
		for _, c := range s.Children {
			writeFTMLSpan(b, c)
		}
	}
	for i := len(flags) - 1; i >= 0; i-- {
		b.WriteString("</" + ftmlTag(flags[i]) + ">")
	}
}

func ftmlTag(f document.Style) string {
	switch f {
	case document.StyleBold:
		return "b"
	case document.StyleItalic:
		return "i"
	case document.StyleUnderline:
		return "u"
	case document.StyleStrike:
		return "s"
	case document.StyleHighlight:
		return "mark"
	case document.StyleCode:
		return "code"
	case document.StyleLink:
		return "a"
	default:
		return "span"
	}
}
