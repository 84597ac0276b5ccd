// Package document implements the editable field layout.
//
// A [Store] holds a three-tier hierarchy on a 2D canvas:
//
//	Section  ordered vertical stack of rows
//	  Row    ordered horizontal line of items
//	    Item a tracker; loose items sit directly on the canvas
//
// Text annotations are independent siblings of the hierarchy.
//
// # Tables
//
// Entities live in flat tables keyed by id. Parent links are stored on both
// sides (Row.ItemIDs, Section.RowIDs, Row.GroupID) and every operation that
// reparents updates both sides before returning. [Store.Check] verifies:
//
//   - every item is either loose or in exactly one row, never both
//   - a row's GroupID names a section whose RowIDs contain the row, and
//     every row listed by a section points back at it
//
// # History
//
// Undo and redo work on whole-document snapshots (the canonical JSON of
// [Store.Serialize]). Structural operations push a snapshot of the state
// they are about to change and clear the redo stack. Continuous operations
// (drag moves, zoom, pan) never push; a drag pushes a single snapshot at
// its end, and only when the entity actually moved.
//
// # Drag sessions
//
// Each drag channel (loose item, row, section, text, vertical offset inside
// a row) runs a begin / move* / end cycle. Begin records the origin; every
// move computes Snap(origin+delta, unit) from that origin, so repeated or
// out-of-order moves never drift. While an item is being dragged vertically
// inside its row it cannot be moved to another row or onto the canvas.
//
// # Errors
//
// Operations given an unknown id are no-ops: they return "" or false and
// log at debug level. Loading malformed input returns an error and leaves
// the current document untouched.
//
// A Store is not safe for concurrent use. All mutations are expected to come
// from a single goroutine, typically the UI event loop.
package document
