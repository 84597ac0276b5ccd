// Package geometry derives section outlines from measured row and item boxes.
//
// The presentation layer renders a section, measures the rectangles of its
// row containers and their items, and hands them to this package. Nothing
// here reads the document model: item width and row padding are
// presentation details, so the only reliable input is what was actually
// drawn.
//
// # Pipeline
//
//	rows := geometry.Group(measurements)          // flat provider output → rows
//	c := geometry.Derive(origin, rows, opts)      // boxes, staircase path, size
//
// [DeriveFrom] runs both steps for one section of a [Provider].
//
// [RowBoxes] sorts rows by their measured top edge and grows each row's item
// union by a margin. Consecutive rows share their boundary, so the top margin
// is only applied to the first row and the bottom margin only to the last.
// [ContourPath] walks those boxes into a closed stepped polygon and
// [Dimensions] reports the overall width and height.
//
// # Negative offsets
//
// Rows may be dragged left of the section origin. The reported width is then
// measured from the origin to the rightmost edge; it does not grow to the
// left. Callers rely on this so that moving content left never enlarges the
// section box.
package geometry
