package ansi

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/render/core"
)

func TestAttributes(t *testing.T) {
	d := core.DefaultStyle()
	tests := []struct {
		name  string
		style core.Style
		want  []color.Attribute
	}{
		{"default", d, nil},
		{"bold", d.Bold(), []color.Attribute{color.Bold}},
		{"palette", d.WithForeground(core.ColorFromIndex(4)), []color.Attribute{color.FgBlue}},
		{"bright", d.WithBackground(core.ColorFromIndex(9)), []color.Attribute{color.BgHiRed}},
		{"extended", d.WithForeground(core.ColorFromIndex(200)), []color.Attribute{38, 5, 200}},
		{"rgb", d.WithBackground(core.ColorFromRGB(1, 2, 3)), []color.Attribute{48, 2, 1, 2, 3}},
		{"reverse underline", d.Underline().Reverse(), []color.Attribute{color.Underline, color.ReverseVideo}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Attributes(tt.style))
		})
	}
}

func TestLine(t *testing.T) {
	line := render.Line{Runs: []render.Run{
		{Text: "  plain ", Style: core.DefaultStyle()},
		{Text: "bold", Style: core.DefaultStyle().Bold()},
	}}

	w := New(nil, WithColor(true))
	got := w.Line(line)
	assert.True(t, strings.HasPrefix(got, "  plain \x1b[1mbold\x1b["), "%q", got)
	assert.True(t, strings.HasSuffix(got, "m"), "%q", got)

	plain := New(nil, WithColor(false))
	assert.Equal(t, "  plain bold", plain.Line(line))
}

func TestWriteLines(t *testing.T) {
	var b strings.Builder
	w := New(&b, WithColor(false))
	require.NoError(t, w.WriteResult(&render.Result{Lines: []render.Line{
		{Runs: []render.Run{{Text: "one"}}},
		{},
		{Runs: []render.Run{{Text: "two"}}},
	}}))
	assert.Equal(t, "one\n\ntwo\n", b.String())
}
