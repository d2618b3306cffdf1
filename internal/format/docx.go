package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dshills/inkwell/internal/document"
)

// ParseDOCX imports a Word document. Heading and list paragraph styles are
// mapped to paragraph types; bold, italic and underline runs keep their
// style. Tables, images and fields are dropped.
func ParseDOCX(r io.Reader) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var (
		out  []*document.Paragraph
		list *document.Paragraph
	)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		style := docxStyle(para)
		content := docxRuns(para)

		if typ, ok := docxListType(style); ok {
			if list == nil || list.Type != typ {
				list = &document.Paragraph{ID: document.NewID(), Type: typ}
				out = append(out, list)
			}
			list.Entries = append(list.Entries, one(document.NewContentParagraph(document.TypeText, content...)))
			continue
		}
		list = nil

		typ := document.TypeText
		if level := docxHeadingLevel(style); level > 0 {
			typ = document.HeadingType(level)
		}
		out = append(out, document.NewContentParagraph(typ, content...))
	}
	return finish(out), nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
}

func docxHeadingLevel(style string) int {
	switch style {
	case "title", "heading1":
		return 1
	case "subtitle", "heading2":
		return 2
	case "heading3", "heading4", "heading5", "heading6":
		return 3
	}
	return 0
}

func docxListType(style string) (document.ParagraphType, bool) {
	switch style {
	case "listbullet", "listparagraph":
		return document.TypeUnorderedList, true
	case "listnumber":
		return document.TypeOrderedList, true
	}
	return document.TypeText, false
}

func docxRuns(para *docx.Paragraph) []*document.Span {
	var spans []*document.Span
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var b strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
		if b.Len() == 0 {
			continue
		}
		spans = append(spans, document.NewStyled(docxRunStyle(run), nfc(b.String())))
	}
	return spans
}

func docxRunStyle(run *docx.Run) document.Style {
	props := run.RunProperties
	if props == nil {
		return document.StyleNone
	}
	style := document.StyleNone
	if props.Bold != nil {
		style = style.With(document.StyleBold)
	}
	if props.Italic != nil {
		style = style.With(document.StyleItalic)
	}
	if props.Underline != nil {
		style = style.With(document.StyleUnderline)
	}
	return style
}
