package format

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/document"
)

// newRichDocument covers every construct of the document model in
// canonical span form.
func newRichDocument() *document.Document {
	return document.New(
		document.NewContentParagraph(document.TypeHeading1, document.NewText("Title")),
		document.NewContentParagraph(document.TypeText,
			document.NewText("Some "),
			document.NewStyled(document.StyleBold, "bold"),
			document.NewText(" and "),
			document.NewComposite(document.StyleItalic,
				document.NewText("italic "),
				document.NewStyled(document.StyleUnderline, "under"),
			),
			document.NewText(", "),
			document.NewLink("https://example.com/?a=1&b=2", "a link"),
			document.NewText(" with <tags> & \"quotes\"\nsecond line  "),
		),
		document.NewContentParagraph(document.TypeCodeBlock,
			document.NewText("func main() {\n\tfmt.Println(\"<hi>\")\n}")),
		document.NewQuote(
			document.NewTextParagraph("quoted"),
			document.NewList(document.TypeOrderedList, document.NewTextParagraph("nested")),
		),
		document.NewList(document.TypeUnorderedList,
			document.NewTextParagraph("one"),
			document.NewContentParagraph(document.TypeText,
				document.NewStyled(document.StyleStrike|document.StyleHighlight, "two")),
		),
		&document.Paragraph{
			ID:   document.NewID(),
			Type: document.TypeOrderedList,
			Entries: [][]*document.Paragraph{{
				document.NewTextParagraph("first"),
				document.NewTextParagraph("more"),
			}},
		},
		document.NewChecklistItem("task ", false, document.NewChecklistItem("sub", true)),
		document.NewChecklistItem("done", true),
		document.NewParagraph(document.TypeText),
	)
}

// hashes returns the content hash of every root paragraph.
func hashes(doc *document.Document) []uint64 {
	out := make([]uint64, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		out[i] = p.Hash()
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"notes.md", Markdown},
		{"NOTES.MARKDOWN", Markdown},
		{"a.mkd", Markdown},
		{"a.mdown", Markdown},
		{"a.mdtxt", Markdown},
		{"report.docx", DOCX},
		{"doc.ftml", FTML},
		{"doc.html", FTML},
		{"README", FTML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.path))
		})
	}
}

func TestParseName(t *testing.T) {
	f, err := ParseName("MD")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	f, err = ParseName("docx")
	require.NoError(t, err)
	assert.Equal(t, DOCX, f)
	assert.False(t, f.Writable())

	_, err = ParseName("rtf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteDOCXUnsupported(t *testing.T) {
	var b strings.Builder
	err := Write(DOCX, &b, newRichDocument())
	assert.ErrorIs(t, err, ErrWriteUnsupported)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []Format{FTML, Markdown} {
		t.Run(f.String(), func(t *testing.T) {
			path := filepath.Join(dir, "doc."+f.String())
			doc := document.New(
				document.NewContentParagraph(document.TypeHeading2, document.NewText("Plan")),
				document.NewTextParagraph("write the thing"),
			)
			require.NoError(t, WriteFile(path, f, doc))
			require.NoError(t, WriteFile(path, f, doc))

			got, err := ReadFile(path, f)
			require.NoError(t, err)
			assert.Equal(t, hashes(doc), hashes(got))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.False(t, strings.HasPrefix(e.Name(), "."), "temporary file %s left behind", e.Name())
			}
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.ftml"), FTML)
	var perr *PathError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "read", perr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "bad.ftml")
	require.NoError(t, os.WriteFile(path, []byte("<table><tr><td>x</td></tr></table>"), 0o644))
	_, err = ReadFile(path, FTML)
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "parse", perr.Op)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestParsedParagraphsGetFreshIDs(t *testing.T) {
	doc, err := ParseFTML(strings.NewReader("<p>a</p><p>b</p>"))
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs, 2)
	assert.NotZero(t, doc.Paragraphs[0].ID)
	assert.NotEqual(t, doc.Paragraphs[0].ID, doc.Paragraphs[1].ID)
}
