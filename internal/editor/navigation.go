package editor

import (
	"github.com/dshills/inkwell/internal/cursor"
)

func (s *Session) moveTo(pos cursor.Position, ok bool) bool {
	if !ok || pos == s.pos {
		return false
	}
	s.pos = pos
	return true
}

// MoveLeft moves the cursor one position left.
func (s *Session) MoveLeft() bool {
	return s.moveTo(cursor.Left(s.index, s.pos))
}

// MoveRight moves the cursor one position right.
func (s *Session) MoveRight() bool {
	return s.moveTo(cursor.Right(s.index, s.pos))
}

// MoveWordLeft moves to the start of the previous word.
func (s *Session) MoveWordLeft() bool {
	return s.moveTo(cursor.WordLeft(s.index, s.doc, s.pos))
}

// MoveWordRight moves to the start of the next word.
func (s *Session) MoveWordRight() bool {
	return s.moveTo(cursor.WordRight(s.index, s.doc, s.pos))
}

// MoveParagraphStart moves to the start of the current paragraph.
func (s *Session) MoveParagraphStart() bool {
	return s.moveTo(cursor.ParagraphStart(s.index, s.pos), true)
}

// MoveParagraphEnd moves to the end of the current paragraph.
func (s *Session) MoveParagraphEnd() bool {
	return s.moveTo(cursor.ParagraphEnd(s.index, s.pos), true)
}

// MoveDocumentStart moves to the first position of the document.
func (s *Session) MoveDocumentStart() bool {
	return s.moveTo(cursor.DocumentStart(s.index), true)
}

// MoveDocumentEnd moves to the last position of the document.
func (s *Session) MoveDocumentEnd() bool {
	return s.moveTo(cursor.DocumentEnd(s.index), true)
}

// MoveUp moves to the previous paragraph, keeping the text offset.
func (s *Session) MoveUp() bool {
	return s.moveTo(cursor.Up(s.index, s.pos))
}

// MoveDown moves to the next paragraph, keeping the text offset.
func (s *Session) MoveDown() bool {
	return s.moveTo(cursor.Down(s.index, s.pos))
}
