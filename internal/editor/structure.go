package editor

import (
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
)

// breakType returns the type of the paragraph created by splitting p.
func breakType(t document.ParagraphType) document.ParagraphType {
	if t.IsHeading() {
		return document.TypeText
	}
	return t
}

// split cuts p's content at offset and returns a new paragraph of type t
// holding the right half.
func split(p *document.Paragraph, offset int, t document.ParagraphType) *document.Paragraph {
	left, right := document.SplitSpans(p.Content, offset)
	p.Content = document.Normalize(left)
	return &document.Paragraph{
		ID:      document.NewID(),
		Type:    t,
		Content: document.Normalize(right),
	}
}

// parentOf returns the container of the paragraph at path, if any.
func (s *Session) parentOf(path document.ParagraphPath) (document.ParagraphPath, *document.Paragraph) {
	pp, ok := s.doc.ParentPath(path)
	if !ok {
		return nil, nil
	}
	return pp, s.doc.ParagraphAt(pp)
}

// InsertParagraphBreak splits the current paragraph at the cursor.
//
// In a list the text after the cursor starts a new entry, together with
// the rest of the entry; an empty last entry leaves the list instead. A
// checklist item produces an unchecked item that takes over the nested
// items. A heading is continued by Text. Everything else continues with a
// paragraph of its own type in the same container.
func (s *Session) InsertParagraphBreak() bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil || !p.Type.HasContent() {
		return false
	}
	old := s.Pointer()
	off := s.offset()
	parentPath, parent := s.parentOf(path)

	var fresh *document.Paragraph
	switch {
	case parent != nil && parent.Type.IsList():
		e, i := path[len(path)-2], path[len(path)-1]
		entry := parent.Entries[e]
		if p.IsEmpty() && i == 0 && len(entry) == 1 && e == len(parent.Entries)-1 {
			return s.exitList(parentPath, parent, e, old)
		}
		fresh = split(p, off, breakType(p.Type))
		next := append([]*document.Paragraph{fresh}, entry[i+1:]...)
		parent.Entries[e] = entry[:i+1]
		parent.Entries = slices.Insert(parent.Entries, e+1, next)

	case p.Type == document.TypeChecklistItem:
		if p.IsEmpty() && parent == nil {
			p.Type = document.TypeText
			p.Checked = false
			s.rebuild("leave checklist")
			s.placeAt(p, 0, old)
			return true
		}
		sib, i, ok := s.doc.Siblings(path)
		if !ok {
			return false
		}
		fresh = split(p, off, document.TypeChecklistItem)
		fresh.Children, p.Children = p.Children, nil
		*sib = slices.Insert(*sib, i+1, fresh)

	default:
		sib, i, ok := s.doc.Siblings(path)
		if !ok {
			return false
		}
		fresh = split(p, off, breakType(p.Type))
		*sib = slices.Insert(*sib, i+1, fresh)
	}

	s.rebuild("paragraph break")
	s.placeAt(fresh, 0, old)
	return true
}

// exitList turns the empty last entry e of list into a Text paragraph that
// follows the list.
func (s *Session) exitList(listPath document.ParagraphPath, list *document.Paragraph, e int, old cursor.Pointer) bool {
	sib, i, ok := s.doc.Siblings(listPath)
	if !ok {
		return false
	}
	list.Entries = slices.Delete(list.Entries, e, e+1)
	fresh := document.NewParagraph(document.TypeText)
	*sib = slices.Insert(*sib, i+1, fresh)
	if len(list.Entries) == 0 {
		*sib = slices.Delete(*sib, i, i+1)
	}
	s.rebuild("leave list")
	s.placeAt(fresh, 0, old)
	return true
}

// InsertSiblingBreak splits the current paragraph into a new Text paragraph
// that stays inside the same list entry or quote. Outside a list or quote
// it behaves like InsertParagraphBreak.
func (s *Session) InsertSiblingBreak() bool {
	path, p := s.here()
	if p == nil || !p.Type.HasContent() {
		return false
	}
	_, parent := s.parentOf(path)
	if parent == nil || (!parent.Type.IsList() && parent.Type != document.TypeQuote) {
		return s.InsertParagraphBreak()
	}
	s.anchor = nil
	old := s.Pointer()
	sib, i, ok := s.doc.Siblings(path)
	if !ok {
		return false
	}
	fresh := split(p, s.offset(), document.TypeText)
	*sib = slices.Insert(*sib, i+1, fresh)
	s.rebuild("sibling break")
	s.placeAt(fresh, 0, old)
	return true
}

// SetParagraphType converts the current paragraph.
//
// Content types retype the paragraph in place; converting a list entry to
// Text also lifts it out of the list. A list type wraps the
// paragraph in a one-entry list (merging with neighbouring lists of that
// type), retypes the enclosing list, or lifts the paragraph out when it is
// already in a list of that type. Quote wraps the paragraph in a quote, or
// lifts it out of the enclosing one.
func (s *Session) SetParagraphType(t document.ParagraphType) bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil {
		return false
	}
	old := s.Pointer()
	off := s.offset()
	parentPath, parent := s.parentOf(path)

	switch {
	case t.HasContent():
		lift := t == document.TypeText && parent != nil && parent.Type.IsList()
		if p.Type == t && !lift {
			return s.rejected("set type", "type unchanged")
		}
		if p.Type == document.TypeChecklistItem && len(p.Children) > 0 {
			sib, i, ok := s.doc.Siblings(path)
			if !ok {
				return false
			}
			*sib = slices.Insert(*sib, i+1, p.Children...)
			p.Children = nil
		}
		p.Type = t
		p.Checked = false
		if lift && !s.liftFromList(path, parentPath, parent) {
			return false
		}

	case t.IsList():
		switch {
		case parent != nil && parent.Type == t:
			if !s.liftFromList(path, parentPath, parent) {
				return false
			}
		case parent != nil && parent.Type.IsList():
			parent.Type = t
		default:
			s.wrapInList(path, p, t)
		}

	case t == document.TypeQuote:
		if parent != nil && parent.Type == document.TypeQuote {
			if !s.liftFromQuote(path, parentPath, parent) {
				return false
			}
		} else {
			sib, i, ok := s.doc.Siblings(path)
			if !ok {
				return false
			}
			(*sib)[i] = document.NewQuote(p)
		}

	default:
		return s.rejected("set type", "unknown type")
	}

	s.rebuild("set paragraph type")
	s.placeAt(p, off, old)
	return true
}

// wrapInList replaces p with a one-entry list of type t and merges it with
// adjacent lists of the same type.
func (s *Session) wrapInList(path document.ParagraphPath, p *document.Paragraph, t document.ParagraphType) {
	sib, i, ok := s.doc.Siblings(path)
	if !ok {
		return
	}
	list := document.NewList(t, p)
	(*sib)[i] = list
	if i+1 < len(*sib) && (*sib)[i+1].Type == t {
		list.Entries = append(list.Entries, (*sib)[i+1].Entries...)
		*sib = slices.Delete(*sib, i+1, i+2)
	}
	if i > 0 && (*sib)[i-1].Type == t {
		prev := (*sib)[i-1]
		prev.Entries = append(prev.Entries, list.Entries...)
		*sib = slices.Delete(*sib, i, i+1)
	}
}

// liftFromList moves the paragraph at path, and the paragraphs after it in
// its entry, out of the list. The list is split around them.
func (s *Session) liftFromList(path, listPath document.ParagraphPath, list *document.Paragraph) bool {
	sib, li, ok := s.doc.Siblings(listPath)
	if !ok {
		return false
	}
	e, i := path[len(path)-2], path[len(path)-1]
	entry := list.Entries[e]
	lifted := slices.Clone(entry[i:])

	before := slices.Clone(list.Entries[:e])
	if i > 0 {
		before = append(before, entry[:i])
	}
	after := slices.Clone(list.Entries[e+1:])

	var out []*document.Paragraph
	if len(before) > 0 {
		list.Entries = before
		out = append(out, list)
	}
	out = append(out, lifted...)
	if len(after) > 0 {
		out = append(out, &document.Paragraph{ID: document.NewID(), Type: list.Type, Entries: after})
	}
	*sib = slices.Replace(*sib, li, li+1, out...)
	return true
}

// liftFromQuote moves the paragraph at path out of its quote, splitting the
// quote around it.
func (s *Session) liftFromQuote(path, quotePath document.ParagraphPath, quote *document.Paragraph) bool {
	sib, qi, ok := s.doc.Siblings(quotePath)
	if !ok {
		return false
	}
	i := path[len(path)-1]
	p := quote.Children[i]
	before := slices.Clone(quote.Children[:i])
	after := slices.Clone(quote.Children[i+1:])

	var out []*document.Paragraph
	if len(before) > 0 {
		quote.Children = before
		out = append(out, quote)
	}
	out = append(out, p)
	if len(after) > 0 {
		out = append(out, document.NewQuote(after...))
	}
	*sib = slices.Replace(*sib, qi, qi+1, out...)
	return true
}

// Indent nests the current list entry under the previous entry, or the
// current checklist item under the previous item.
func (s *Session) Indent() bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil {
		return false
	}
	old := s.Pointer()
	off := s.offset()
	_, parent := s.parentOf(path)

	switch {
	case parent != nil && parent.Type.IsList():
		e, i := path[len(path)-2], path[len(path)-1]
		if i != 0 {
			return s.rejected("indent", "not the first paragraph of an entry")
		}
		if e == 0 {
			return s.rejected("indent", "first entry")
		}
		entry := parent.Entries[e]
		prev := parent.Entries[e-1]
		if last := prev[len(prev)-1]; last.Type == parent.Type {
			last.Entries = append(last.Entries, entry)
		} else {
			parent.Entries[e-1] = append(prev, &document.Paragraph{
				ID:      document.NewID(),
				Type:    parent.Type,
				Entries: [][]*document.Paragraph{entry},
			})
		}
		parent.Entries = slices.Delete(parent.Entries, e, e+1)

	case p.Type == document.TypeChecklistItem:
		sib, i, ok := s.doc.Siblings(path)
		if !ok {
			return false
		}
		if i == 0 || (*sib)[i-1].Type != document.TypeChecklistItem {
			return s.rejected("indent", "no previous checklist item")
		}
		prev := (*sib)[i-1]
		prev.Children = append(prev.Children, p)
		*sib = slices.Delete(*sib, i, i+1)

	default:
		return s.rejected("indent", "not a list entry or checklist item")
	}

	s.rebuild("indent")
	s.placeAt(p, off, old)
	return true
}

// Outdent moves the current paragraph one nesting level up. Root
// paragraphs cannot be outdented.
func (s *Session) Outdent() bool {
	s.anchor = nil
	path, p := s.here()
	if p == nil {
		return false
	}
	old := s.Pointer()
	off := s.offset()
	parentPath, parent := s.parentOf(path)
	if parent == nil {
		return s.rejected("outdent", "root paragraph")
	}

	switch {
	case parent.Type.IsList():
		_, outer := s.parentOf(parentPath)
		if outer == nil || !outer.Type.IsList() || path[len(path)-1] != 0 {
			if !s.liftFromList(path, parentPath, parent) {
				return false
			}
			break
		}
		s.outdentEntry(path, parentPath, parent, outer)

	case parent.Type == document.TypeChecklistItem:
		sib, pi, ok := s.doc.Siblings(parentPath)
		if !ok {
			return false
		}
		i := path[len(path)-1]
		parent.Children = slices.Delete(parent.Children, i, i+1)
		*sib = slices.Insert(*sib, pi+1, p)

	case parent.Type == document.TypeQuote:
		if !s.liftFromQuote(path, parentPath, parent) {
			return false
		}

	default:
		return s.rejected("outdent", "unsupported container")
	}

	s.rebuild("outdent")
	s.placeAt(p, off, old)
	return true
}

// outdentEntry moves entry e of the nested list into the outer list, right
// after the entry that holds the nested list. Entries that followed it stay
// nested under it.
func (s *Session) outdentEntry(path, listPath document.ParagraphPath, list, outer *document.Paragraph) {
	e := path[len(path)-2]
	oe, li := listPath[len(listPath)-2], listPath[len(listPath)-1]

	entry := slices.Clone(list.Entries[e])
	if tail := list.Entries[e+1:]; len(tail) > 0 {
		entry = append(entry, &document.Paragraph{
			ID:      document.NewID(),
			Type:    list.Type,
			Entries: slices.Clone(tail),
		})
	}
	list.Entries = list.Entries[:e]
	at := oe + 1
	if len(list.Entries) == 0 {
		outer.Entries[oe] = slices.Delete(outer.Entries[oe], li, li+1)
		if len(outer.Entries[oe]) == 0 {
			outer.Entries = slices.Delete(outer.Entries, oe, oe+1)
			at = oe
		}
	}
	outer.Entries = slices.Insert(outer.Entries, at, entry)
}

// ToggleChecklist flips the checked state of the current checklist item.
func (s *Session) ToggleChecklist() bool {
	_, p := s.here()
	if p == nil || p.Type != document.TypeChecklistItem {
		return false
	}
	s.anchor = nil
	old := s.Pointer()
	p.Checked = !p.Checked
	s.rebuild("toggle checklist")
	s.pos = cursor.Repair(s.index, old)
	return true
}

// ToggleReveal switches reveal mode, in which style boundaries become
// cursor stops and render as tags.
func (s *Session) ToggleReveal() bool {
	s.anchor = nil
	old := s.Pointer()
	s.reveal = !s.reveal
	s.index.SetReveal(s.doc, s.reveal)
	s.stats.FullRebuilds++
	s.log.Debug("full rebuild",
		zap.String("reason", "toggle reveal"),
		zap.Int("segments", s.index.Len()),
	)
	s.pos = cursor.Repair(s.index, old)
	return true
}
