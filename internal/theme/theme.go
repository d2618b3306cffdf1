// Package theme maps document styles and editor roles to terminal styles.
//
// Themes are YAML files:
//
//	name: dusk
//	styles:
//	  heading:   {fg: "#e0e0ff", bold: true}
//	  selection: {bg: "#44475a"}
//	  link:      {fg: "#8be9fd", underline: true}
//
// Roles not mentioned keep their default.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render/core"
)

// ErrInvalidTheme is returned when a theme file fails validation.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme holds the terminal style of every role the renderer draws.
type Theme struct {
	Name string

	Text      core.Style
	Heading   core.Style
	Prefix    core.Style
	Checklist core.Style
	Code      core.Style
	Link      core.Style
	Highlight core.Style
	RevealTag core.Style
	Selection core.Style
}

// Default returns the built-in theme.
func Default() *Theme {
	d := core.DefaultStyle()
	return &Theme{
		Name:      "default",
		Text:      d,
		Heading:   d.Bold(),
		Prefix:    d.WithForeground(core.ColorFromIndex(8)),
		Checklist: d.WithForeground(core.ColorFromIndex(2)),
		Code:      d.WithForeground(core.ColorFromIndex(3)),
		Link:      d.WithForeground(core.ColorFromIndex(4)).Underline(),
		Highlight: d.WithBackground(core.ColorFromIndex(3)).WithForeground(core.ColorFromIndex(0)),
		RevealTag: d.WithForeground(core.ColorFromIndex(5)),
		Selection: d.Reverse(),
	}
}

// Inline returns the terminal style for an effective inline style set.
func (t *Theme) Inline(s document.Style) core.Style {
	out := t.Text
	if s.Has(document.StyleBold) {
		out = out.Bold()
	}
	if s.Has(document.StyleItalic) {
		out = out.Italic()
	}
	if s.Has(document.StyleUnderline) {
		out = out.Underline()
	}
	if s.Has(document.StyleStrike) {
		out.Attributes |= core.AttrStrikethrough
	}
	if s.Has(document.StyleCode) {
		out = out.Merge(t.Code)
	}
	if s.Has(document.StyleHighlight) {
		out = out.Merge(t.Highlight)
	}
	if s.Has(document.StyleLink) {
		out = out.Merge(t.Link)
	}
	return out
}

type styleSpec struct {
	FG            string `yaml:"fg" validate:"omitempty,hexcolor"`
	BG            string `yaml:"bg" validate:"omitempty,hexcolor"`
	Bold          bool   `yaml:"bold"`
	Italic        bool   `yaml:"italic"`
	Underline     bool   `yaml:"underline"`
	Reverse       bool   `yaml:"reverse"`
	Strikethrough bool   `yaml:"strikethrough"`
}

type fileSpec struct {
	Name   string                `yaml:"name" validate:"required"`
	Styles map[string]*styleSpec `yaml:"styles" validate:"dive,keys,oneof=text heading prefix checklist code link highlight reveal_tag selection,endkeys,required"`
}

var validate = validator.New()

// Parse decodes a YAML theme over the default theme.
func Parse(data []byte) (*Theme, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if err := validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}

	t := Default()
	t.Name = spec.Name
	roles := t.roles()
	for name, s := range spec.Styles {
		style, err := s.style()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTheme, name, err)
		}
		*roles[name] = style
	}
	return t, nil
}

// Load reads and parses a theme file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	return Parse(data)
}

func (t *Theme) roles() map[string]*core.Style {
	return map[string]*core.Style{
		"text":       &t.Text,
		"heading":    &t.Heading,
		"prefix":     &t.Prefix,
		"checklist":  &t.Checklist,
		"code":       &t.Code,
		"link":       &t.Link,
		"highlight":  &t.Highlight,
		"reveal_tag": &t.RevealTag,
		"selection":  &t.Selection,
	}
}

func (s *styleSpec) style() (core.Style, error) {
	out := core.DefaultStyle()
	if s.FG != "" {
		c, err := core.ColorFromHex(s.FG)
		if err != nil {
			return out, err
		}
		out.Foreground = c
	}
	if s.BG != "" {
		c, err := core.ColorFromHex(s.BG)
		if err != nil {
			return out, err
		}
		out.Background = c
	}
	if s.Bold {
		out = out.Bold()
	}
	if s.Italic {
		out = out.Italic()
	}
	if s.Underline {
		out = out.Underline()
	}
	if s.Reverse {
		out = out.Reverse()
	}
	if s.Strikethrough {
		out.Attributes |= core.AttrStrikethrough
	}
	return out, nil
}
