package document

// Document is an ordered sequence of root paragraphs.
type Document struct {
	Paragraphs []*Paragraph
}

// New creates a document from root paragraphs.
func New(paragraphs ...*Paragraph) *Document {
	return &Document{Paragraphs: paragraphs}
}

// EnsureNotEmpty gives an empty document a single empty Text paragraph.
// It reports whether the document was changed.
func (d *Document) EnsureNotEmpty() bool {
	if len(d.Paragraphs) > 0 {
		return false
	}
	d.Paragraphs = []*Paragraph{NewParagraph(TypeText)}
	return true
}

// ParagraphAt returns the paragraph addressed by path, or nil.
func (d *Document) ParagraphAt(path ParagraphPath) *Paragraph {
	if d == nil || len(path) == 0 || path[0] < 0 || path[0] >= len(d.Paragraphs) {
		return nil
	}
	p := d.Paragraphs[path[0]]
	rest := path[1:]
	for len(rest) > 0 {
		switch {
		case p.Type.IsList():
			if len(rest) < 2 {
				return nil
			}
			e, i := rest[0], rest[1]
			if e < 0 || e >= len(p.Entries) || i < 0 || i >= len(p.Entries[e]) {
				return nil
			}
			p = p.Entries[e][i]
			rest = rest[2:]
		case p.Type.HasChildren():
			i := rest[0]
			if i < 0 || i >= len(p.Children) {
				return nil
			}
			p = p.Children[i]
			rest = rest[1:]
		default:
			return nil
		}
	}
	return p
}

// Siblings returns the slice that holds the paragraph at path together with
// its index in that slice. The slice is returned by pointer so callers can
// insert and remove paragraphs.
func (d *Document) Siblings(path ParagraphPath) (*[]*Paragraph, int, bool) {
	if len(path) == 0 {
		return nil, 0, false
	}
	if len(path) == 1 {
		if path[0] < 0 || path[0] >= len(d.Paragraphs) {
			return nil, 0, false
		}
		return &d.Paragraphs, path[0], true
	}
	parentPath, ok := d.ParentPath(path)
	if !ok {
		return nil, 0, false
	}
	parent := d.ParagraphAt(parentPath)
	if parent == nil {
		return nil, 0, false
	}
	if parent.Type.IsList() {
		e, i := path[len(path)-2], path[len(path)-1]
		if e < 0 || e >= len(parent.Entries) || i < 0 || i >= len(parent.Entries[e]) {
			return nil, 0, false
		}
		return &parent.Entries[e], i, true
	}
	i := path[len(path)-1]
	if i < 0 || i >= len(parent.Children) {
		return nil, 0, false
	}
	return &parent.Children, i, true
}

// ParentPath returns the path of the container holding the paragraph at path.
// Root paragraphs have no parent.
func (d *Document) ParentPath(path ParagraphPath) (ParagraphPath, bool) {
	if len(path) <= 1 {
		return nil, false
	}
	p := d.Paragraphs
	if path[0] < 0 || path[0] >= len(p) {
		return nil, false
	}
	cur := p[path[0]]
	consumed := 1
	for consumed < len(path) {
		step := 1
		if cur.Type.IsList() {
			step = 2
		}
		if consumed+step == len(path) {
			return path[:consumed].Clone(), true
		}
		if consumed+step > len(path) {
			return nil, false
		}
		next := d.ParagraphAt(path[:consumed+step])
		if next == nil {
			return nil, false
		}
		cur = next
		consumed += step
	}
	return nil, false
}

// Walk visits every paragraph in pre-order. Returning false from fn stops the
// walk below the current paragraph.
func (d *Document) Walk(fn func(path ParagraphPath, p *Paragraph) bool) {
	for i, p := range d.Paragraphs {
		WalkParagraph(p, ParagraphPath{i}, fn)
	}
}

// WalkParagraph visits p and its descendants in pre-order.
func WalkParagraph(p *Paragraph, path ParagraphPath, fn func(path ParagraphPath, p *Paragraph) bool) {
	if !fn(path, p) {
		return
	}
	for i, c := range p.Children {
		WalkParagraph(c, path.Append(i), fn)
	}
	for e, entry := range p.Entries {
		for i, c := range entry {
			WalkParagraph(c, path.Append(e, i), fn)
		}
	}
}

// ContentPaths returns the paths of all content-bearing paragraphs in order.
func (d *Document) ContentPaths() []ParagraphPath {
	var out []ParagraphPath
	d.Walk(func(path ParagraphPath, p *Paragraph) bool {
		if p.Type.HasContent() {
			out = append(out, path.Clone())
		}
		return true
	})
	return out
}
