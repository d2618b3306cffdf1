package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render/core"
)

func TestInline(t *testing.T) {
	th := Default()

	plain := th.Inline(document.StyleNone)
	assert.True(t, plain.IsDefault())

	bi := th.Inline(document.StyleBold | document.StyleItalic)
	assert.True(t, bi.Attributes.Has(core.AttrBold))
	assert.True(t, bi.Attributes.Has(core.AttrItalic))

	link := th.Inline(document.StyleLink)
	assert.True(t, link.Attributes.Has(core.AttrUnderline))
	assert.True(t, link.Foreground.Equals(th.Link.Foreground))

	strike := th.Inline(document.StyleStrike)
	assert.True(t, strike.Attributes.Has(core.AttrStrikethrough))
}

func TestParse(t *testing.T) {
	th, err := Parse([]byte(`
name: dusk
styles:
  heading: {fg: "#e0e0ff", bold: true}
  selection: {bg: "#445"}
`))
	require.NoError(t, err)
	assert.Equal(t, "dusk", th.Name)
	assert.Equal(t, core.ColorFromRGB(0xe0, 0xe0, 0xff), th.Heading.Foreground)
	assert.True(t, th.Heading.Attributes.Has(core.AttrBold))
	assert.Equal(t, core.ColorFromRGB(0x44, 0x44, 0x55), th.Selection.Background)
	assert.Equal(t, Default().Code, th.Code)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing name", "styles: {}"},
		{"bad color", "name: x\nstyles:\n  code: {fg: \"#zzz\"}"},
		{"unknown role", "name: x\nstyles:\n  gutter: {bold: true}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTheme))
		})
	}

	_, err := Parse([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\n"), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", th.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
