package document

import "strings"

// Style is a set of inline formatting flags.
type Style uint16

// Inline style flags.
const (
	StyleNone Style = 0
	StyleBold Style = 1 << (iota - 1)
	StyleItalic
	StyleUnderline
	StyleStrike
	StyleHighlight
	StyleCode
	StyleLink
)

// allStyles lists the flags in canonical order.
var allStyles = [...]Style{
	StyleBold,
	StyleItalic,
	StyleUnderline,
	StyleStrike,
	StyleHighlight,
	StyleCode,
	StyleLink,
}

// Has reports whether every flag in other is set.
func (s Style) Has(other Style) bool {
	return other != 0 && s&other == other
}

// With returns the set with other added.
func (s Style) With(other Style) Style {
	return s | other
}

// Without returns the set with other removed.
func (s Style) Without(other Style) Style {
	return s &^ other
}

// Flags returns the individual flags of the set in canonical order.
func (s Style) Flags() []Style {
	if s == StyleNone {
		return nil
	}
	flags := make([]Style, 0, 2)
	for _, f := range allStyles {
		if s&f != 0 {
			flags = append(flags, f)
		}
	}
	return flags
}

// Name returns the display name of a single flag.
func (s Style) Name() string {
	switch s {
	case StyleBold:
		return "Bold"
	case StyleItalic:
		return "Italic"
	case StyleUnderline:
		return "Underline"
	case StyleStrike:
		return "Strike"
	case StyleHighlight:
		return "Highlight"
	case StyleCode:
		return "Code"
	case StyleLink:
		return "Link"
	case StyleNone:
		return "None"
	default:
		return s.String()
	}
}

// String returns the flags joined with "+".
func (s Style) String() string {
	flags := s.Flags()
	if len(flags) == 0 {
		return "None"
	}
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.Name()
	}
	return strings.Join(names, "+")
}

// ParseStyle parses a single style name, case-insensitively.
func ParseStyle(name string) (Style, bool) {
	for _, f := range allStyles {
		if strings.EqualFold(f.Name(), name) {
			return f, true
		}
	}
	return StyleNone, false
}
