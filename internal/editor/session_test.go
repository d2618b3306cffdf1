package editor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/segment"
)

func newTestSession(t *testing.T, paragraphs ...*document.Paragraph) *Session {
	t.Helper()
	return New(document.New(paragraphs...))
}

// requireConsistent checks that the index matches a fresh build and that
// the cursor sits on a selectable, resolvable position.
func requireConsistent(t *testing.T, s *Session) {
	t.Helper()
	fresh := segment.Build(s.Document(), s.Reveal())
	require.True(t, fresh.Equal(s.Index()), "index diverged from a full rebuild")
	pos := s.Position()
	require.True(t, cursor.Selectable(s.Index(), pos.Segment), "cursor on unselectable segment %d", pos.Segment)
	_, ok := cursor.Resolve(s.Index(), s.Pointer())
	require.True(t, ok, "cursor pointer does not resolve")
}

func texts(doc *document.Document) []string {
	var out []string
	doc.Walk(func(_ document.ParagraphPath, p *document.Paragraph) bool {
		if p.Type.HasContent() {
			out = append(out, p.Text())
		}
		return true
	})
	return out
}

func TestNewNormalizesEmptyDocument(t *testing.T) {
	s := New(nil)
	require.Len(t, s.Document().Paragraphs, 1)
	assert.Equal(t, document.TypeText, s.Document().Paragraphs[0].Type)
	assert.Equal(t, 1, s.Index().Len())
	assert.NotEmpty(t, s.ID())

	assert.False(t, s.Backspace())
	assert.False(t, s.Delete())
	assert.False(t, s.MoveLeft())
	assert.False(t, s.MoveRight())
	requireConsistent(t, s)
}

func TestNewWithoutContentParagraph(t *testing.T) {
	s := New(document.New(&document.Paragraph{ID: document.NewID(), Type: document.TypeUnorderedList}))
	require.Positive(t, s.Index().Len())
	requireConsistent(t, s)
}

func TestInsertCharScenario(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("ure"))
	require.Equal(t, cursor.Position{}, s.Position())

	require.True(t, s.InsertChar('x'))
	require.Equal(t, 1, s.Index().Len())
	seg := s.Index().At(0)
	assert.Equal(t, segment.KindText, seg.Kind)
	assert.Equal(t, 4, seg.Len)
	assert.Equal(t, "xure", s.Document().Paragraphs[0].Text())
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 1}, s.Position())
	assert.Equal(t, Stats{IncrementalUpdates: 1}, s.Stats())
	requireConsistent(t, s)
}

func TestInsertTextIntoStyledLeaf(t *testing.T) {
	s := newTestSession(t, document.NewContentParagraph(document.TypeText,
		document.NewText("a"),
		document.NewStyled(document.StyleBold, "bc"),
	))
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1, Offset: 1}))
	require.True(t, s.InsertText("XY"))

	p := s.Document().Paragraphs[0]
	assert.Equal(t, "abXYc", p.Text())
	assert.Equal(t, "bXYc", p.Content[1].Text)
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 3}, s.Position())
	requireConsistent(t, s)
}

func TestInsertOnBoundaryIsUnstyled(t *testing.T) {
	s := New(document.New(document.NewContentParagraph(document.TypeText,
		document.NewText("a"),
		document.NewStyled(document.StyleBold, "b"),
	)), WithReveal(true))
	// segments: "a", [Bold>, "b", <Bold]
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 3}))
	require.True(t, s.InsertChar('z'))

	p := s.Document().Paragraphs[0]
	assert.Equal(t, "abz", p.Text())
	require.Len(t, p.Content, 3)
	assert.Equal(t, document.StyleNone, p.Content[2].Style)
	requireConsistent(t, s)
}

func TestInsertNewline(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("ab"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 1}))
	require.True(t, s.InsertNewline())
	assert.Equal(t, "a\nb", s.Document().Paragraphs[0].Text())
	assert.Len(t, s.Document().Paragraphs, 1)
	assert.False(t, s.InsertText(""))
}

func TestBackspaceMergesHeadingIntoText(t *testing.T) {
	s := newTestSession(t,
		document.NewTextParagraph("ab"),
		document.NewContentParagraph(document.TypeHeading1, document.NewText("cd")),
	)
	require.True(t, s.MoveDown())
	require.Equal(t, cursor.Position{Segment: 1, Offset: 0}, s.Position())

	require.True(t, s.Backspace())
	doc := s.Document()
	require.Len(t, doc.Paragraphs, 1)
	assert.Equal(t, document.TypeText, doc.Paragraphs[0].Type)
	assert.Equal(t, "abcd", doc.Paragraphs[0].Text())
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 2}, s.Position())
	assert.Equal(t, Stats{FullRebuilds: 1}, s.Stats())
	requireConsistent(t, s)
}

func TestBackspaceWithinParagraph(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("abc"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 2}))
	require.True(t, s.Backspace())
	assert.Equal(t, "ac", s.Document().Paragraphs[0].Text())
	assert.Equal(t, cursor.Position{Offset: 1}, s.Position())
	assert.Equal(t, 1, s.Stats().IncrementalUpdates)
	assert.Zero(t, s.Stats().FullRebuilds)
}

func TestBackspaceRemovesLeadingEmptyParagraph(t *testing.T) {
	s := newTestSession(t, document.NewParagraph(document.TypeText), document.NewTextParagraph("x"))
	require.True(t, s.Backspace())
	assert.Equal(t, []string{"x"}, texts(s.Document()))
	assert.Equal(t, cursor.Position{}, s.Position())
	requireConsistent(t, s)
}

func TestBackspaceMergesOutOfList(t *testing.T) {
	s := newTestSession(t,
		document.NewList(document.TypeUnorderedList, document.NewTextParagraph("item")),
		document.NewTextParagraph("tail"),
	)
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1}))
	require.True(t, s.Backspace())

	doc := s.Document()
	require.Len(t, doc.Paragraphs, 1)
	assert.Equal(t, "itemtail", doc.Paragraphs[0].Entries[0][0].Text())
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 4}, s.Position())
	requireConsistent(t, s)
}

func TestBackspaceMergePrunesEmptyQuote(t *testing.T) {
	s := newTestSession(t,
		document.NewTextParagraph("a"),
		document.NewQuote(document.NewTextParagraph("b")),
	)
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1}))
	require.True(t, s.Backspace())
	require.Len(t, s.Document().Paragraphs, 1)
	assert.Equal(t, "ab", s.Document().Paragraphs[0].Text())
	requireConsistent(t, s)
}

func TestBackspaceOnBoundaryStripsStyle(t *testing.T) {
	s := New(document.New(document.NewContentParagraph(document.TypeText,
		document.NewText("a"),
		document.NewStyled(document.StyleBold, "b"),
	)), WithReveal(true))
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1}))
	require.True(t, s.Backspace())

	p := s.Document().Paragraphs[0]
	require.Len(t, p.Content, 1)
	assert.Equal(t, "ab", p.Content[0].Text)
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 1}, s.Position())
	requireConsistent(t, s)
}

func TestDeleteMergesNext(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("ab"), document.NewTextParagraph("cd"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 2}))
	require.True(t, s.Delete())
	assert.Equal(t, []string{"abcd"}, texts(s.Document()))
	assert.Equal(t, cursor.Position{Offset: 2}, s.Position())
	assert.False(t, s.MoveDown())

	require.True(t, s.MoveDocumentEnd())
	assert.False(t, s.Delete())
	requireConsistent(t, s)
}

func TestDeleteWord(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("foo bar"))
	require.True(t, s.MoveDocumentEnd())
	require.True(t, s.DeleteWordBackward())
	assert.Equal(t, "foo ", s.Document().Paragraphs[0].Text())
	assert.Equal(t, cursor.Position{Offset: 4}, s.Position())

	s = newTestSession(t, document.NewTextParagraph("foo bar"))
	require.True(t, s.DeleteWordForward())
	assert.Equal(t, "bar", s.Document().Paragraphs[0].Text())
	assert.Equal(t, cursor.Position{}, s.Position())
	requireConsistent(t, s)
}

func TestSetPositionAndPointer(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("ab"), document.NewTextParagraph("cd"))
	err := s.SetPosition(cursor.Position{Segment: 5})
	assert.True(t, errors.Is(err, ErrPositionOutOfRange))

	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1, Offset: 9}))
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 2}, s.Position())

	err = s.SetPointer(cursor.Pointer{Paragraph: document.ParagraphPath{7}, Span: document.SpanPath{0}})
	assert.True(t, errors.Is(err, ErrUnresolvedPointer))

	require.NoError(t, s.SetPointer(cursor.Pointer{Paragraph: document.ParagraphPath{0}, Span: document.SpanPath{0}, Offset: 1}))
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 1}, s.Position())
}

func TestSelection(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("abcd"))
	_, ok := s.Selection()
	assert.False(t, ok)

	require.NoError(t, s.SetPosition(cursor.Position{Offset: 3}))
	s.SetAnchor()
	require.True(t, s.MoveLeft())
	require.True(t, s.MoveLeft())
	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, render.Selection{Start: cursor.Position{Offset: 1}, End: cursor.Position{Offset: 3}}, sel)

	s.ClearSelection()
	_, ok = s.Selection()
	assert.False(t, ok)
}

func TestNavigation(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("one two"), document.NewTextParagraph("three"))
	require.True(t, s.MoveWordRight())
	assert.Equal(t, cursor.Position{Offset: 4}, s.Position())
	require.True(t, s.MoveParagraphEnd())
	assert.Equal(t, cursor.Position{Offset: 7}, s.Position())
	require.True(t, s.MoveRight())
	assert.Equal(t, cursor.Position{Segment: 1}, s.Position())
	require.True(t, s.MoveWordLeft())
	assert.Equal(t, cursor.Position{Offset: 7}, s.Position())
	require.True(t, s.MoveParagraphStart())
	require.True(t, s.MoveDocumentEnd())
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 5}, s.Position())
	require.True(t, s.MoveUp())
	assert.Equal(t, cursor.Position{Offset: 5}, s.Position())
	require.True(t, s.MoveDocumentStart())
	assert.False(t, s.MoveDocumentStart())
	assert.Zero(t, s.Stats().FullRebuilds)
}

func TestToggleReveal(t *testing.T) {
	s := newTestSession(t, document.NewContentParagraph(document.TypeText,
		document.NewText("a"),
		document.NewStyled(document.StyleItalic, "b"),
	))
	require.NoError(t, s.SetPosition(cursor.Position{Segment: 1, Offset: 1}))
	require.True(t, s.ToggleReveal())
	assert.True(t, s.Reveal())
	assert.Equal(t, 4, s.Index().Len())
	assert.Equal(t, cursor.Position{Segment: 2, Offset: 1}, s.Position())
	requireConsistent(t, s)

	require.True(t, s.ToggleReveal())
	assert.False(t, s.Reveal())
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 1}, s.Position())
	assert.Equal(t, 2, s.Stats().FullRebuilds)
}

func TestRandomEditsKeepIndexConsistent(t *testing.T) {
	build := func() *document.Document {
		return document.New(
			document.NewContentParagraph(document.TypeHeading1, document.NewText("Title")),
			document.NewContentParagraph(document.TypeText,
				document.NewText("plain "),
				document.NewComposite(document.StyleBold, document.NewText("bold "), document.NewStyled(document.StyleItalic, "both")),
				document.NewText(" end"),
			),
			document.NewList(document.TypeOrderedList,
				document.NewTextParagraph("first"),
				document.NewTextParagraph("second"),
			),
			document.NewQuote(document.NewTextParagraph("quoted"), document.NewTextParagraph("more")),
			document.NewChecklistItem("task", false, document.NewChecklistItem("sub", true)),
			document.NewContentParagraph(document.TypeCodeBlock, document.NewText("x := 1\n\ty")),
			document.NewParagraph(document.TypeText),
		)
	}

	types := []document.ParagraphType{
		document.TypeText, document.TypeHeading2, document.TypeQuote, document.TypeCodeBlock,
		document.TypeOrderedList, document.TypeUnorderedList, document.TypeChecklistItem,
	}
	styles := []document.Style{document.StyleBold, document.StyleItalic, document.StyleCode, document.StyleHighlight}

	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := New(build())
		ops := []func() bool{
			func() bool { return s.InsertChar('a' + rune(rng.Intn(26))) },
			func() bool { return s.InsertChar(' ') },
			s.Backspace,
			s.Delete,
			s.DeleteWordBackward,
			s.DeleteWordForward,
			s.InsertNewline,
			s.InsertParagraphBreak,
			s.InsertSiblingBreak,
			s.MoveLeft,
			s.MoveRight,
			s.MoveUp,
			s.MoveDown,
			s.MoveWordLeft,
			s.MoveWordRight,
			s.Indent,
			s.Outdent,
			s.ToggleChecklist,
			s.ToggleReveal,
			func() bool { return s.SetParagraphType(types[rng.Intn(len(types))]) },
			func() bool {
				s.SetAnchor()
				for n := rng.Intn(8); n > 0; n-- {
					s.MoveRight()
				}
				ok := s.ToggleSelectionStyle(styles[rng.Intn(len(styles))], "")
				s.ClearSelection()
				return ok
			},
		}
		for step := 0; step < 150; step++ {
			ops[rng.Intn(len(ops))]()
			requireConsistent(t, s)
		}
	}
}
