package term

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/document"
)

// wheelLines is how far one wheel step scrolls.
const wheelLines = 3

// Alt bindings for inline styles, applied to the selection.
var styleKeys = map[rune]document.Style{
	'b': document.StyleBold,
	'i': document.StyleItalic,
	'u': document.StyleUnderline,
	's': document.StyleStrike,
	'h': document.StyleHighlight,
	'`': document.StyleCode,
}

// Alt bindings for paragraph types, applied at the cursor.
var typeKeys = map[rune]document.ParagraphType{
	'0': document.TypeText,
	'1': document.TypeHeading1,
	'2': document.TypeHeading2,
	'3': document.TypeHeading3,
	'q': document.TypeQuote,
	'c': document.TypeCodeBlock,
	'l': document.TypeUnorderedList,
	'n': document.TypeOrderedList,
	'x': document.TypeChecklistItem,
}

// ctrlKey reports whether ev is Ctrl plus the letter c. Terminals report
// control letters either as dedicated keys or as runes with ModCtrl.
func ctrlKey(ev *tcell.EventKey, c rune) bool {
	if ev.Key() == tcell.KeyCtrlA+tcell.Key(c-'a') {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(ev.Rune()) == c
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	quitting := e.confirm
	e.confirm = false
	e.status = ""
	e.follow = true

	if ctrlKey(ev, 'q') || ctrlKey(ev, 'c') {
		if e.dirty && !quitting {
			e.confirm = true
			e.status = "Unsaved changes: press Ctrl-Q again to quit"
			return
		}
		e.quit = true
		return
	}
	if e.command(ev) {
		return
	}

	s := e.session
	mod := ev.Modifiers()
	shift := mod&tcell.ModShift != 0
	word := mod&(tcell.ModCtrl|tcell.ModAlt) != 0

	switch ev.Key() {
	case tcell.KeyEnter:
		if shift {
			e.edit(s.InsertNewline())
		} else {
			e.edit(s.InsertParagraphBreak())
		}
	case tcell.KeyTab:
		e.edit(s.InsertChar('\t'))
	case tcell.KeyBacktab, tcell.KeyEscape:
		e.edit(s.Outdent())
	case tcell.KeyCtrlRightSq:
		e.edit(s.Indent())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if word {
			e.edit(s.DeleteWordBackward())
		} else {
			e.edit(s.Backspace())
		}
	case tcell.KeyDelete:
		if word {
			e.edit(s.DeleteWordForward())
		} else {
			e.edit(s.Delete())
		}
	case tcell.KeyLeft:
		e.extend(shift)
		if word {
			s.MoveWordLeft()
		} else {
			s.MoveLeft()
		}
	case tcell.KeyRight:
		e.extend(shift)
		if word {
			s.MoveWordRight()
		} else {
			s.MoveRight()
		}
	case tcell.KeyUp:
		e.extend(shift)
		e.display.MoveVisual(-1)
	case tcell.KeyDown:
		e.extend(shift)
		e.display.MoveVisual(1)
	case tcell.KeyHome:
		e.extend(shift)
		if word {
			s.MoveDocumentStart()
		} else {
			e.display.VisualLineStart()
		}
	case tcell.KeyEnd:
		e.extend(shift)
		if word {
			s.MoveDocumentEnd()
		} else {
			e.display.VisualLineEnd()
		}
	case tcell.KeyPgUp:
		e.extend(shift)
		e.display.MovePage(-1)
	case tcell.KeyPgDn:
		e.extend(shift)
		e.display.MovePage(1)
	case tcell.KeyF9:
		s.ToggleReveal()
	case tcell.KeyRune:
		if mod&tcell.ModAlt != 0 {
			e.altKey(ev.Rune())
			return
		}
		e.edit(s.InsertChar(ev.Rune()))
	}
}

// command handles the Ctrl bindings that are not tied to a named key.
func (e *Editor) command(ev *tcell.EventKey) bool {
	s := e.session
	switch {
	case ctrlKey(ev, 's'):
		e.save()
	case ctrlKey(ev, 'j'):
		e.edit(s.InsertNewline())
	case ctrlKey(ev, 'p'):
		e.edit(s.InsertSiblingBreak())
	case ctrlKey(ev, 't'):
		e.edit(s.ToggleChecklist())
	case ctrlKey(ev, 'w'):
		e.edit(s.DeleteWordBackward())
	case ctrlKey(ev, 'r'):
		s.ToggleReveal()
	case ctrlKey(ev, 'a'):
		s.ClearSelection()
		e.display.VisualLineStart()
	case ctrlKey(ev, 'e'):
		s.ClearSelection()
		e.display.VisualLineEnd()
	default:
		return false
	}
	return true
}

func (e *Editor) altKey(r rune) {
	r = unicode.ToLower(r)
	if style, ok := styleKeys[r]; ok {
		if _, sel := e.session.Selection(); !sel {
			e.status = "Select text to style it"
			return
		}
		e.edit(e.session.ToggleSelectionStyle(style, ""))
		return
	}
	if t, ok := typeKeys[r]; ok {
		if !e.session.SetParagraphType(t) {
			e.status = "Cannot change to " + t.String()
			return
		}
		e.dirty = true
	}
}

// extend starts a selection at the cursor when extending, or drops it.
func (e *Editor) extend(on bool) {
	if !on {
		e.session.ClearSelection()
		return
	}
	if _, ok := e.session.Selection(); !ok {
		e.session.SetAnchor()
	}
}

func (e *Editor) edit(changed bool) {
	if changed {
		e.dirty = true
	}
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		e.top = max(e.top-wheelLines, 0)
		e.follow = false
	case buttons&tcell.WheelDown != 0:
		e.top += wheelLines
		e.follow = false
	case buttons&tcell.Button1 != 0:
		e.follow = true
		if !e.pressed {
			e.session.ClearSelection()
			e.display.MoveTo(e.top+y, x)
			e.session.SetAnchor()
			e.pressed = true
			return
		}
		e.display.MoveTo(e.top+y, x)
	default:
		e.pressed = false
	}
}
