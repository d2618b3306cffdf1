package render

// TabExpander computes tab stops.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates an expander. Widths below one fall back to four.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = 4
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the configured tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// TabStopOffset returns the number of columns from col to the next tab stop.
func (t *TabExpander) TabStopOffset(col int) int {
	return t.tabWidth - (col % t.tabWidth)
}
