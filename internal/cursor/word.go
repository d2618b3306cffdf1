package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/segment"
)

// IsWordRune reports whether r belongs to a word: letters, digits and '_'.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanner steps rune by rune through the text segments of one paragraph.
// It holds only indices, so copying it is a cheap save point.
type scanner struct {
	x          *segment.Index
	para       *document.Paragraph
	start, end int // paragraph segment range
	seg        int
	byteOff    int
	offset     int // runes from paragraph start
}

func newScanner(x *segment.Index, doc *document.Document, pos Position) (scanner, bool) {
	s := x.At(pos.Segment)
	para := doc.ParagraphAt(s.Paragraph)
	if para == nil {
		return scanner{}, false
	}
	start, end := x.ParagraphRange(s.Paragraph)
	sc := scanner{x: x, para: para, start: start, end: end, seg: pos.Segment}
	sc.offset = ParagraphOffset(x, pos)
	if s.Kind == segment.KindText {
		text := sc.text(pos.Segment)
		sc.byteOff = byteOffset(text, pos.Offset)
	}
	return sc, true
}

func (sc *scanner) text(i int) string {
	s := sc.x.At(i)
	if s.Kind != segment.KindText {
		return ""
	}
	leaf := document.LeafAt(sc.para.Content, s.Span)
	if leaf == nil {
		return ""
	}
	return leaf.Text
}

func (sc *scanner) prev() (rune, bool) {
	text := sc.text(sc.seg)
	for sc.byteOff == 0 {
		if sc.seg <= sc.start {
			return 0, false
		}
		sc.seg--
		text = sc.text(sc.seg)
		sc.byteOff = len(text)
	}
	r, size := utf8.DecodeLastRuneInString(text[:sc.byteOff])
	sc.byteOff -= size
	sc.offset--
	return r, true
}

func (sc *scanner) next() (rune, bool) {
	text := sc.text(sc.seg)
	for sc.byteOff >= len(text) {
		if sc.seg >= sc.end-1 {
			return 0, false
		}
		sc.seg++
		text = sc.text(sc.seg)
		sc.byteOff = 0
	}
	r, size := utf8.DecodeRuneInString(text[sc.byteOff:])
	sc.byteOff += size
	sc.offset++
	return r, true
}

func (sc *scanner) peekPrev() (rune, bool) {
	save := *sc
	r, ok := sc.prev()
	*sc = save
	return r, ok
}

func (sc *scanner) peekNext() (rune, bool) {
	save := *sc
	r, ok := sc.next()
	*sc = save
	return r, ok
}

// skipBack consumes runes while match holds.
func (sc *scanner) skipBack(match func(rune) bool) {
	for {
		r, ok := sc.peekPrev()
		if !ok || !match(r) {
			return
		}
		sc.prev()
	}
}

// skipForward consumes runes while match holds.
func (sc *scanner) skipForward(match func(rune) bool) {
	for {
		r, ok := sc.peekNext()
		if !ok || !match(r) {
			return
		}
		sc.next()
	}
}

func isPunct(r rune) bool {
	return !unicode.IsSpace(r) && !IsWordRune(r)
}

// WordLeft moves to the previous word start: whitespace is skipped, then a
// run of word runes, then a run of punctuation. At the start of a paragraph
// it moves to the end of the previous one.
func WordLeft(x *segment.Index, doc *document.Document, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	sc, ok := newScanner(x, doc, pos)
	if !ok || sc.offset == 0 {
		return Left(x, pos)
	}
	sc.skipBack(unicode.IsSpace)
	sc.skipBack(IsWordRune)
	sc.skipBack(isPunct)
	return AtParagraphOffset(x, x.At(pos.Segment).Paragraph, sc.offset), true
}

// WordRight moves to the next word start: from whitespace it stops after the
// whitespace; from a word it skips the word, trailing punctuation and the
// following whitespace; from punctuation it skips the punctuation and the
// following whitespace. At the end of a paragraph it moves to the start of
// the next one.
func WordRight(x *segment.Index, doc *document.Document, pos Position) (Position, bool) {
	if x.Len() == 0 {
		return pos, false
	}
	pos = Clamp(x, pos)
	sc, ok := newScanner(x, doc, pos)
	if !ok {
		return Right(x, pos)
	}
	r, ok := sc.peekNext()
	if !ok {
		return Right(x, pos)
	}
	switch {
	case unicode.IsSpace(r):
		sc.skipForward(unicode.IsSpace)
	case IsWordRune(r):
		sc.skipForward(IsWordRune)
		sc.skipForward(isPunct)
		sc.skipForward(unicode.IsSpace)
	default:
		sc.skipForward(isPunct)
		sc.skipForward(unicode.IsSpace)
	}
	return AtParagraphOffset(x, x.At(pos.Segment).Paragraph, sc.offset), true
}

// WordBoundaryBefore returns the paragraph offset WordLeft would reach
// without leaving the paragraph.
func WordBoundaryBefore(x *segment.Index, doc *document.Document, pos Position) int {
	sc, ok := newScanner(x, doc, Clamp(x, pos))
	if !ok {
		return 0
	}
	sc.skipBack(unicode.IsSpace)
	sc.skipBack(IsWordRune)
	sc.skipBack(isPunct)
	return sc.offset
}

// WordBoundaryAfter returns the paragraph offset WordRight would reach
// without leaving the paragraph.
func WordBoundaryAfter(x *segment.Index, doc *document.Document, pos Position) int {
	sc, ok := newScanner(x, doc, Clamp(x, pos))
	if !ok {
		return 0
	}
	r, ok := sc.peekNext()
	if !ok {
		return sc.offset
	}
	switch {
	case unicode.IsSpace(r):
		sc.skipForward(unicode.IsSpace)
	case IsWordRune(r):
		sc.skipForward(IsWordRune)
		sc.skipForward(isPunct)
		sc.skipForward(unicode.IsSpace)
	default:
		sc.skipForward(isPunct)
		sc.skipForward(unicode.IsSpace)
	}
	return sc.offset
}

func byteOffset(s string, runes int) int {
	if runes <= 0 {
		return 0
	}
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}
