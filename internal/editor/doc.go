// Package editor is the editing facade of inkwell.
//
// A Session owns one document together with its segment index and the
// cursor, and exposes every navigation and mutation as a method that
// reports whether anything changed. A Display renders a session through a
// render.Renderer and keeps the last cursor map so that screen coordinates
// and visual-line motions can be translated back into cursor positions.
//
// # Index maintenance
//
// Content edits (typing, deleting inside a paragraph, style toggles) splice
// only the owning root's subtree into the index. Anything that moves
// paragraphs (breaks, merges, type changes, indentation, checklist toggles,
// the reveal toggle) rebuilds the index. Stats counts both so callers can
// verify which path an edit took.
//
// # Cursor repair
//
// After every operation the cursor pointer is re-resolved. A pointer whose
// segment disappeared is bound to the nearest selectable position at or
// before its old place in document order, falling back to the first
// segment. Operations never fail on empty documents or empty paragraphs.
//
// # Thread Safety
//
// A Session is single-goroutine state. Callers that share one across
// goroutines must serialize access.
package editor
