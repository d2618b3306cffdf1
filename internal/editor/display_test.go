package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render"
)

func TestDisplayRenderTracksCursor(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("hello world"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 8}))
	d := NewDisplay(s)

	res := d.Render(8, 2, nil)
	assert.Equal(t, []string{"  hello", "  world"}, res.Strings())
	require.NotNil(t, res.Cursor)
	assert.Equal(t, render.VisualPosition{Line: 1, Column: 4, ContentLine: 1, ContentColumn: 2}, *res.Cursor)
	assert.Same(t, res, d.Last())
}

func TestDisplayPointerAt(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("hello world"), document.NewTextParagraph("next"))
	d := NewDisplay(s)
	_, ok := d.PointerAt(0, 0)
	assert.False(t, ok, "nothing rendered yet")

	d.Render(8, 2, nil)
	p, ok := d.PointerAt(1, 5)
	require.True(t, ok)
	assert.Equal(t, document.ParagraphPath{0}, p.Paragraph)
	assert.Equal(t, 9, p.Offset)

	// The blank separator resolves to the paragraph below it.
	p, ok = d.PointerAt(2, 0)
	require.True(t, ok)
	assert.Equal(t, document.ParagraphPath{1}, p.Paragraph)
	assert.Equal(t, 0, p.Offset)

	_, ok = d.PointerAt(99, 0)
	assert.False(t, ok)

	require.True(t, d.MoveTo(1, 5))
	assert.Equal(t, cursor.Position{Offset: 9}, s.Position())
}

func TestDisplayMoveVisualWithinParagraph(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("hello world"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 3}))
	d := NewDisplay(s)
	d.Render(8, 0, nil)

	require.True(t, d.MoveVisual(1))
	assert.Equal(t, cursor.Position{Offset: 9}, s.Position())
	assert.False(t, d.MoveVisual(1))
	require.True(t, d.MoveVisual(-1))
	assert.Equal(t, cursor.Position{Offset: 3}, s.Position())
	assert.False(t, d.MoveVisual(0))
}

func TestDisplayMoveVisualKeepsPreferredColumn(t *testing.T) {
	s := newTestSession(t,
		document.NewTextParagraph("abcdef"),
		document.NewTextParagraph("ab"),
		document.NewTextParagraph("abcdef"),
	)
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 5}))
	d := NewDisplay(s)
	d.Render(80, 0, nil)

	require.True(t, d.MoveVisual(1))
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 2}, s.Position())
	require.True(t, d.MoveVisual(1))
	assert.Equal(t, cursor.Position{Segment: 2, Offset: 5}, s.Position())

	// A horizontal move resets the remembered column.
	require.True(t, s.MoveLeft())
	require.True(t, d.MoveVisual(-1))
	assert.Equal(t, cursor.Position{Segment: 1, Offset: 2}, s.Position())
	require.True(t, d.MoveVisual(-1))
	assert.Equal(t, cursor.Position{Segment: 0, Offset: 4}, s.Position())
}

func TestDisplayMovePage(t *testing.T) {
	paragraphs := make([]*document.Paragraph, 30)
	for i := range paragraphs {
		paragraphs[i] = document.NewTextParagraph("p")
	}
	s := newTestSession(t, paragraphs...)
	d := NewDisplay(s, WithPageFraction(0.9))
	d.SetViewHeight(10)
	d.Render(80, 0, nil)

	require.True(t, d.MovePage(1))
	assert.Equal(t, cursor.Position{Segment: 9}, s.Position())
	require.True(t, d.MovePage(1))
	require.True(t, d.MovePage(1))
	assert.Equal(t, cursor.Position{Segment: 27}, s.Position())
	require.True(t, d.MovePage(1))
	assert.Equal(t, cursor.Position{Segment: 29}, s.Position())
	assert.False(t, d.MovePage(1))

	require.True(t, d.MovePage(-1))
	assert.Equal(t, cursor.Position{Segment: 20}, s.Position())
	assert.False(t, d.MovePage(0))
}

func TestDisplayVisualLineEdges(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("hello world"))
	require.NoError(t, s.SetPosition(cursor.Position{Offset: 8}))
	d := NewDisplay(s)
	d.Render(8, 0, nil)

	require.True(t, d.VisualLineStart())
	assert.Equal(t, cursor.Position{Offset: 6}, s.Position())
	require.True(t, d.VisualLineEnd())
	assert.Equal(t, cursor.Position{Offset: 11}, s.Position())

	require.NoError(t, s.SetPosition(cursor.Position{Offset: 2}))
	require.True(t, d.VisualLineEnd())
	assert.Equal(t, cursor.Position{Offset: 5}, s.Position())
	require.True(t, d.VisualLineStart())
	assert.Equal(t, cursor.Position{}, s.Position())
}

func TestDisplayChecklistToggleReusesCache(t *testing.T) {
	s := newTestSession(t,
		document.NewChecklistItem("Draft", false),
		document.NewChecklistItem("Review", false),
		document.NewChecklistItem("Ship", false),
	)
	d := NewDisplay(s)
	first := d.Render(40, 0, nil)
	assert.Equal(t, []string{"[ ] Draft", "[ ] Review", "[ ] Ship"}, first.Strings())

	require.True(t, s.ToggleChecklist())
	res := d.Render(40, 0, nil)
	assert.Equal(t, []string{"[✓] Draft", "[ ] Review", "[ ] Ship"}, res.Strings())

	stats := d.Renderer().Cache().Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
}

func TestDisplayRevealToggleInvalidatesCache(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("a"), document.NewTextParagraph("b"))
	d := NewDisplay(s)
	d.Render(40, 0, nil)
	cache := d.Renderer().Cache()
	require.Equal(t, 1, cache.Len())

	require.True(t, s.ToggleReveal())
	d.Render(40, 0, nil)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, uint64(2), cache.Stats().Misses)
}

func TestDisplayUsesSessionSelection(t *testing.T) {
	s := newTestSession(t, document.NewTextParagraph("abc"), document.NewTextParagraph("def"))
	d := NewDisplay(s, WithRenderer(render.New()))
	s.SetAnchor()
	require.True(t, s.MoveDown())
	d.Render(40, 0, nil)

	// Both roots touch the selection, so neither is cached.
	assert.Equal(t, 0, d.Renderer().Cache().Len())
}
