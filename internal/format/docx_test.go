package format

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/document"
)

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Report</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Plain </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="ListBullet"/></w:pPr><w:r><w:t>one</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="ListBullet"/></w:pPr><w:r><w:t>two</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading 2"/></w:pPr><w:r><w:rPr><w:i/></w:rPr><w:t>Next</w:t></w:r></w:p>
</w:body>
</w:document>`

func newTestDOCX(t *testing.T) []byte {
	t.Helper()
	files := []struct{ name, body string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", docxBody},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseDOCX(t *testing.T) {
	doc, err := ParseDOCX(bytes.NewReader(newTestDOCX(t)))
	require.NoError(t, err)
	require.Len(t, doc.Paragraphs, 4)

	assert.Equal(t, document.TypeHeading1, doc.Paragraphs[0].Type)
	assert.Equal(t, "Report", doc.Paragraphs[0].Text())

	text := doc.Paragraphs[1]
	assert.Equal(t, "Plain bold", text.Text())
	assert.True(t, document.RangeHasStyle(text.Content, 6, 10, document.StyleBold))
	assert.False(t, document.RangeHasStyle(text.Content, 0, 5, document.StyleBold))

	list := doc.Paragraphs[2]
	require.Equal(t, document.TypeUnorderedList, list.Type)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "two", list.Entries[1][0].Text())

	next := doc.Paragraphs[3]
	assert.Equal(t, document.TypeHeading2, next.Type)
	assert.True(t, document.RangeHasStyle(next.Content, 0, 4, document.StyleItalic))
}

func TestParseDOCXRejectsGarbage(t *testing.T) {
	_, err := ParseDOCX(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}
