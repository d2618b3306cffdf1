package editor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/inkwell/internal/cursor"
	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/render"
	"github.com/dshills/inkwell/internal/segment"
)

// Stats counts how the segment index has been maintained.
type Stats struct {
	FullRebuilds       int
	IncrementalUpdates int
}

// Session is the editing state of one document: the tree, its segment
// index, the cursor and an optional selection anchor.
type Session struct {
	id     string
	doc    *document.Document
	index  *segment.Index
	pos    cursor.Position
	anchor *cursor.Position
	reveal bool
	log    *zap.Logger
	stats  Stats
}

// New creates a session for doc. A nil or empty document is given one empty
// Text paragraph. The cursor starts at the beginning of the document.
func New(doc *document.Document, opts ...Option) *Session {
	if doc == nil {
		doc = document.New()
	}
	s := &Session{
		id:  uuid.NewString(),
		doc: doc,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id))

	s.doc.EnsureNotEmpty()
	s.index = segment.Build(s.doc, s.reveal)
	if s.index.Len() == 0 {
		s.rebuild("document has no content paragraph")
	}
	s.pos = cursor.DocumentStart(s.index)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Document returns the edited document. Callers must not modify it.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Index returns the current segment index. Callers must not modify it.
func (s *Session) Index() *segment.Index {
	return s.index
}

// Stats returns index maintenance counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Reveal reports whether style boundaries are shown as stops.
func (s *Session) Reveal() bool {
	return s.reveal
}

// Position returns the cursor position in the current index.
func (s *Session) Position() cursor.Position {
	return s.pos
}

// Pointer returns the cursor as an index-independent pointer.
func (s *Session) Pointer() cursor.Pointer {
	return cursor.PointerAt(s.index, s.pos)
}

// SetPosition moves the cursor. Offsets are clamped to the segment and the
// position is moved to the nearest selectable one.
func (s *Session) SetPosition(pos cursor.Position) error {
	if pos.Segment < 0 || pos.Segment >= s.index.Len() {
		return fmt.Errorf("segment %d of %d: %w", pos.Segment, s.index.Len(), ErrPositionOutOfRange)
	}
	s.pos = cursor.EnsureSelectable(s.index, cursor.Clamp(s.index, pos))
	return nil
}

// SetPointer moves the cursor to the segment p names.
func (s *Session) SetPointer(p cursor.Pointer) error {
	pos, ok := cursor.Resolve(s.index, p)
	if !ok {
		return fmt.Errorf("%s: %w", p, ErrUnresolvedPointer)
	}
	s.pos = cursor.EnsureSelectable(s.index, pos)
	return nil
}

// SetAnchor starts a selection at the cursor.
func (s *Session) SetAnchor() {
	p := s.pos
	s.anchor = &p
}

// ClearSelection drops the selection anchor.
func (s *Session) ClearSelection() {
	s.anchor = nil
}

// Selection returns the range between the anchor and the cursor, ordered.
// It reports false when there is no anchor or the range is empty.
func (s *Session) Selection() (render.Selection, bool) {
	if s.anchor == nil {
		return render.Selection{}, false
	}
	a, b := *s.anchor, s.pos
	switch a.Compare(b) {
	case 0:
		return render.Selection{}, false
	case 1:
		a, b = b, a
	}
	return render.Selection{Start: a, End: b}, true
}

// here returns the path and paragraph holding the cursor.
func (s *Session) here() (document.ParagraphPath, *document.Paragraph) {
	path := s.index.At(s.pos.Segment).Paragraph.Clone()
	return path, s.doc.ParagraphAt(path)
}

// offset returns the cursor's rune offset in its paragraph.
func (s *Session) offset() int {
	return cursor.ParagraphOffset(s.index, s.pos)
}

// rebuild recomputes the whole index. A document left without any content
// paragraph gets an empty Text paragraph first.
func (s *Session) rebuild(reason string) {
	s.doc.EnsureNotEmpty()
	s.index.Rebuild(s.doc)
	if s.index.Len() == 0 {
		s.doc.Paragraphs = append(s.doc.Paragraphs, document.NewParagraph(document.TypeText))
		s.index.Rebuild(s.doc)
	}
	s.stats.FullRebuilds++
	s.log.Debug("full rebuild",
		zap.String("reason", reason),
		zap.Int("segments", s.index.Len()),
	)
}

// update splices the subtree at path into the index. It falls back to a
// full rebuild when the path no longer resolves.
func (s *Session) update(path document.ParagraphPath) (segment.Splice, bool) {
	sp, ok := s.index.Update(s.doc, path)
	if !ok {
		s.rebuild("incremental update failed")
		return sp, false
	}
	s.stats.IncrementalUpdates++
	s.log.Debug("incremental update",
		zap.Stringer("path", path),
		zap.Int("delta", sp.Delta()),
	)
	return sp, true
}

// locate returns the current path of p, found by identity.
func (s *Session) locate(p *document.Paragraph) (document.ParagraphPath, bool) {
	var found document.ParagraphPath
	s.doc.Walk(func(path document.ParagraphPath, q *document.Paragraph) bool {
		if found != nil {
			return false
		}
		if q == p {
			found = path.Clone()
			return false
		}
		return true
	})
	return found, found != nil
}

// placeAt puts the cursor at a text offset of paragraph p, wherever p now
// lives. It falls back to repairing old when p left the document.
func (s *Session) placeAt(p *document.Paragraph, offset int, old cursor.Pointer) {
	if path, ok := s.locate(p); ok && p.Type.HasContent() {
		s.pos = cursor.AtParagraphOffset(s.index, path, offset)
		return
	}
	s.pos = cursor.Repair(s.index, old)
}

// rejected logs a structural edit that did not apply.
func (s *Session) rejected(op, reason string) bool {
	s.log.Debug("edit rejected",
		zap.String("op", op),
		zap.String("reason", reason),
		zap.Stringer("pointer", s.Pointer()),
	)
	return false
}
