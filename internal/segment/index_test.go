package segment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/document"
)

func newTestDocument() *document.Document {
	return document.New(
		document.NewContentParagraph(document.TypeText,
			document.NewText("plain "),
			document.NewStyled(document.StyleBold, "bold"),
		),
		document.NewList(document.TypeUnorderedList,
			document.NewTextParagraph("one"),
			document.NewTextParagraph(""),
		),
		document.NewQuote(document.NewTextParagraph("quoted")),
	)
}

func TestBuild(t *testing.T) {
	x := Build(newTestDocument(), false)

	require.Equal(t, 5, x.Len())
	assert.Equal(t, Segment{Paragraph: document.ParagraphPath{0}, Span: document.SpanPath{0}, Len: 6}, x.At(0))
	assert.Equal(t, Segment{Paragraph: document.ParagraphPath{0}, Span: document.SpanPath{1}, Len: 4}, x.At(1))
	assert.Equal(t, Segment{Paragraph: document.ParagraphPath{1, 0, 0}, Span: document.SpanPath{0}, Len: 3}, x.At(2))
	assert.Equal(t, Segment{Paragraph: document.ParagraphPath{1, 1, 0}, Span: document.SpanPath{0}, Len: 0}, x.At(3))
	assert.Equal(t, Segment{Paragraph: document.ParagraphPath{2, 0}, Span: document.SpanPath{0}, Len: 6}, x.At(4))

	assert.Equal(t, 3, x.RootCount())
	start, end := x.RootRange(1)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)
}

func TestBuildReveal(t *testing.T) {
	doc := document.New(document.NewContentParagraph(document.TypeText,
		document.NewText("a"),
		document.NewComposite(document.StyleBold,
			document.NewText("b"),
			document.NewStyled(document.StyleItalic|document.StyleCode, "c"),
		),
	))
	x := Build(doc, true)

	kinds := make([]string, x.Len())
	for i, s := range x.Segments() {
		if s.Kind.IsBoundary() {
			kinds[i] = s.Kind.String() + ":" + s.Style.Name()
		} else {
			kinds[i] = s.Span.String()
		}
	}
	assert.Equal(t, []string{
		"0",
		"start:Bold",
		"1.0",
		"start:Italic",
		"start:Code",
		"1.1",
		"end:Code",
		"end:Italic",
		"end:Bold",
	}, kinds)
	for _, s := range x.Segments() {
		if s.Kind.IsBoundary() {
			assert.Zero(t, s.Len)
		}
	}
}

func TestBuildEmptyParagraphs(t *testing.T) {
	p := &document.Paragraph{ID: document.NewID(), Type: document.TypeText}
	doc := document.New(p, document.NewList(document.TypeOrderedList))
	x := Build(doc, false)

	require.Equal(t, 1, x.Len())
	assert.Equal(t, 0, x.At(0).Len)
	start, end := x.RootRange(1)
	assert.Equal(t, start, end)
}

func TestRangeNested(t *testing.T) {
	x := Build(newTestDocument(), false)

	start, end := x.Range(document.ParagraphPath{1, 1, 0})
	assert.Equal(t, 3, start)
	assert.Equal(t, 4, end)

	start, end = x.Range(document.ParagraphPath{1})
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	start, end = x.ParagraphRange(document.ParagraphPath{1})
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, end)
}

func TestUpdateSplicesSubtree(t *testing.T) {
	doc := newTestDocument()
	x := Build(doc, false)

	item := doc.ParagraphAt(document.ParagraphPath{1, 0, 0})
	item.Content = document.ApplyStyle(item.Content, 1, 2, document.StyleItalic, "", true)

	sp, ok := x.Update(doc, document.ParagraphPath{1, 0, 0})
	require.True(t, ok)
	assert.Equal(t, Splice{Start: 2, OldEnd: 3, NewEnd: 5}, sp)
	assert.Equal(t, 2, sp.Delta())
	assert.True(t, x.Equal(Build(doc, false)))

	start, end := x.RootRange(2)
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)
}

func TestUpdateRejectsMissingPath(t *testing.T) {
	doc := newTestDocument()
	x := Build(doc, false)
	_, ok := x.Update(doc, document.ParagraphPath{7})
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	x := Build(newTestDocument(), true)
	i, ok := x.Find(Segment{
		Paragraph: document.ParagraphPath{0},
		Span:      document.SpanPath{1},
		Kind:      KindBoundaryEnd,
		Style:     document.StyleBold,
	})
	require.True(t, ok)
	assert.Equal(t, KindBoundaryEnd, x.At(i).Kind)

	_, ok = x.Find(Segment{Paragraph: document.ParagraphPath{0}, Span: document.SpanPath{5}})
	assert.False(t, ok)
}

func TestRandomUpdatesMatchRebuild(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, reveal := range []bool{false, true} {
		doc := newTestDocument()
		x := Build(doc, reveal)
		for step := 0; step < 200; step++ {
			paths := doc.ContentPaths()
			path := paths[rng.Intn(len(paths))]
			p := doc.ParagraphAt(path)
			n := p.RuneCount()
			switch rng.Intn(3) {
			case 0:
				p.Content = document.Normalize(append(p.Content, document.NewText("xy")))
			case 1:
				if n > 1 {
					from := rng.Intn(n - 1)
					p.Content = document.ApplyStyle(p.Content, from, from+1, document.StyleBold,
						"", !document.RangeHasStyle(p.Content, from, from+1, document.StyleBold))
				}
			case 2:
				if n > 0 {
					from := rng.Intn(n)
					p.Content = document.RemoveRange(p.Content, from, from+1)
				}
			}
			_, ok := x.Update(doc, path)
			require.True(t, ok)
			require.True(t, x.Equal(Build(doc, reveal)), "step %d diverged", step)
		}
	}
}

func TestFenwick(t *testing.T) {
	f := newFenwick([]int{3, 0, 5, 2, 1})
	assert.Equal(t, 0, f.prefix(0))
	assert.Equal(t, 8, f.prefix(3))
	assert.Equal(t, 11, f.prefix(5))

	f.add(1, 4)
	start, end := f.span(2)
	assert.Equal(t, 7, start)
	assert.Equal(t, 12, end)
	assert.Equal(t, 15, f.prefix(5))
}
