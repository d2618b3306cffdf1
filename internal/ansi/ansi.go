// Package ansi writes rendered lines as ANSI-styled text.
package ansi

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/render/core"
)

// SGR parameters for extended colors.
const (
	sgrFgExtended = 38
	sgrBgExtended = 48
	sgrPalette    = 5
	sgrTrueColor  = 2
)

// Writer renders lines with escape sequences.
type Writer struct {
	out     io.Writer
	enabled bool
	colors  map[core.Style]*color.Color
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor forces styling on or off. By default the writer follows the
// terminal detection of the color package.
func WithColor(enabled bool) Option {
	return func(w *Writer) {
		w.enabled = enabled
	}
}

// New creates a writer for out.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:     out,
		enabled: !color.NoColor,
		colors:  make(map[core.Style]*color.Color),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Line returns one line with styling applied.
func (w *Writer) Line(l render.Line) string {
	if !w.enabled {
		return l.String()
	}
	var b strings.Builder
	for _, r := range l.Runs {
		if r.Style.IsDefault() {
			b.WriteString(r.Text)
			continue
		}
		b.WriteString(w.color(r.Style).Sprint(r.Text))
	}
	return b.String()
}

// WriteLines writes every line followed by a newline.
func (w *Writer) WriteLines(lines []render.Line) error {
	bw := bufio.NewWriter(w.out)
	for _, l := range lines {
		if _, err := bw.WriteString(w.Line(l)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteResult writes the lines of a render pass.
func (w *Writer) WriteResult(res *render.Result) error {
	return w.WriteLines(res.Lines)
}

func (w *Writer) color(s core.Style) *color.Color {
	if c, ok := w.colors[s]; ok {
		return c
	}
	c := color.New(Attributes(s)...)
	c.EnableColor()
	w.colors[s] = c
	return c
}

// Attributes converts a style to SGR attributes.
func Attributes(s core.Style) []color.Attribute {
	var attrs []color.Attribute
	if s.Attributes.Has(core.AttrBold) {
		attrs = append(attrs, color.Bold)
	}
	if s.Attributes.Has(core.AttrDim) {
		attrs = append(attrs, color.Faint)
	}
	if s.Attributes.Has(core.AttrItalic) {
		attrs = append(attrs, color.Italic)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		attrs = append(attrs, color.Underline)
	}
	if s.Attributes.Has(core.AttrReverse) {
		attrs = append(attrs, color.ReverseVideo)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		attrs = append(attrs, color.CrossedOut)
	}
	attrs = append(attrs, colorAttributes(s.Foreground, color.FgBlack, color.FgHiBlack, sgrFgExtended)...)
	attrs = append(attrs, colorAttributes(s.Background, color.BgBlack, color.BgHiBlack, sgrBgExtended)...)
	return attrs
}

func colorAttributes(c core.Color, base, hiBase color.Attribute, extended int) []color.Attribute {
	switch {
	case c.IsDefault():
		return nil
	case c.Indexed && c.R < 8:
		return []color.Attribute{base + color.Attribute(c.R)}
	case c.Indexed && c.R < 16:
		return []color.Attribute{hiBase + color.Attribute(c.R-8)}
	case c.Indexed:
		return []color.Attribute{color.Attribute(extended), sgrPalette, color.Attribute(c.R)}
	default:
		return []color.Attribute{
			color.Attribute(extended), sgrTrueColor,
			color.Attribute(c.R), color.Attribute(c.G), color.Attribute(c.B),
		}
	}
}
