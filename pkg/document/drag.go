package document

import (
	"bytes"
	"math"

	"github.com/matzehuels/trackmap/pkg/geometry"
	"github.com/matzehuels/trackmap/pkg/sizing"
)

// Channel is an independent drag gesture slot. At most one entity drags per
// channel.
type Channel int

const (
	ChannelLoose Channel = iota
	ChannelRow
	ChannelSection
	ChannelText
	// ChannelVertical moves a parented item up and down inside its row.
	ChannelVertical
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelLoose:
		return "loose"
	case ChannelRow:
		return "row"
	case ChannelSection:
		return "section"
	case ChannelText:
		return "text"
	case ChannelVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

type dragSession struct {
	id     string
	origin geometry.Point
	offset float64                   // row group offset at begin
	rows   map[string]geometry.Point // section drags: row origins
	before []byte                    // snapshot taken at begin, nil once committed
}

// beginDrag opens a session on ch. A session already open on the channel
// is ended first, committing its history entry.
func (s *Store) beginDrag(ch Channel, id string, origin geometry.Point) *dragSession {
	if prev := s.drags[ch]; prev != nil {
		s.logger.Debug("drag superseded", "channel", ch, "previous", prev.id, "next", id)
		s.endDrag(ch)
	}
	d := &dragSession{id: id, origin: origin, before: s.snapshot()}
	s.drags[ch] = d
	return d
}

func (s *Store) session(ch Channel, id string) *dragSession {
	if d := s.drags[ch]; d != nil && d.id == id {
		if d.before == nil {
			d.before = s.snapshot()
		}
		return d
	}
	s.logger.Debug("move without drag session", "channel", ch, "id", id)
	return nil
}

// endDrag closes ch and pushes the pre-drag snapshot when the drag changed
// the document. It reports whether a history entry was added.
func (s *Store) endDrag(ch Channel) bool {
	d := s.drags[ch]
	if d == nil {
		return false
	}
	delete(s.drags, ch)
	if d.before == nil || bytes.Equal(d.before, s.snapshot()) {
		return false
	}
	s.push(d.before, "drag-"+ch.String())
	return true
}

// Dragging returns the entity currently dragged on ch.
func (s *Store) Dragging(ch Channel) (string, bool) {
	if d := s.drags[ch]; d != nil {
		return d.id, true
	}
	return "", false
}

func (s *Store) verticalDragActive(itemID string) bool {
	d := s.drags[ChannelVertical]
	return d != nil && d.id == itemID
}

// =============================================================================
// Loose items
// =============================================================================

// BeginDragLoose starts dragging a loose item.
func (s *Store) BeginDragLoose(id string) bool {
	it, ok := s.items[id]
	if !ok || !s.isLoose(id) {
		return false
	}
	s.beginDrag(ChannelLoose, id, geometry.Point{X: it.X, Y: it.Y})
	return true
}

// MoveLooseItemByDelta places the item at Snap(origin+delta, unit), where
// origin is its position when the drag began.
func (s *Store) MoveLooseItemByDelta(id string, dx, dy, unit float64) bool {
	d := s.session(ChannelLoose, id)
	if d == nil {
		return false
	}
	it := s.items[id]
	it.X = sizing.Snap(d.origin.X+dx, unit)
	it.Y = sizing.Snap(d.origin.Y+dy, unit)
	return true
}

// EndDragLoose ends the loose item drag.
func (s *Store) EndDragLoose() bool { return s.endDrag(ChannelLoose) }

// =============================================================================
// Rows
// =============================================================================

// BeginDragRow starts dragging a row.
func (s *Store) BeginDragRow(id string) bool {
	r, ok := s.rows[id]
	if !ok {
		return false
	}
	d := s.beginDrag(ChannelRow, id, geometry.Point{X: r.X, Y: r.Y})
	d.offset = r.GroupOffsetX
	return true
}

// MoveRowByDelta moves a standalone row freely. A row inside a section only
// moves horizontally, shifting its group offset by the snapped distance.
func (s *Store) MoveRowByDelta(id string, dx, dy, unit float64) bool {
	d := s.session(ChannelRow, id)
	if d == nil {
		return false
	}
	r := s.rows[id]
	r.X = sizing.Snap(d.origin.X+dx, unit)
	if r.GroupID == "" {
		r.Y = sizing.Snap(d.origin.Y+dy, unit)
		return true
	}
	r.GroupOffsetX = d.offset + (r.X - d.origin.X)
	return true
}

// EndDragRow ends the row drag.
func (s *Store) EndDragRow() bool { return s.endDrag(ChannelRow) }

// =============================================================================
// Sections
// =============================================================================

// BeginDragGroup starts dragging a section with all of its rows.
func (s *Store) BeginDragGroup(id string) bool {
	sec, ok := s.sections[id]
	if !ok {
		return false
	}
	d := s.beginDrag(ChannelSection, id, geometry.Point{X: sec.X, Y: sec.Y})
	d.rows = make(map[string]geometry.Point, len(sec.RowIDs))
	for _, rowID := range sec.RowIDs {
		r := s.rows[rowID]
		d.rows[rowID] = geometry.Point{X: r.X, Y: r.Y}
	}
	return true
}

// MoveGroupByDelta moves the section anchor to Snap(origin+delta, unit) and
// translates every row by the same snapped distance.
func (s *Store) MoveGroupByDelta(id string, dx, dy, unit float64) bool {
	d := s.session(ChannelSection, id)
	if d == nil {
		return false
	}
	sec := s.sections[id]
	sec.X = sizing.Snap(d.origin.X+dx, unit)
	sec.Y = sizing.Snap(d.origin.Y+dy, unit)
	shiftX, shiftY := sec.X-d.origin.X, sec.Y-d.origin.Y
	for rowID, p := range d.rows {
		if r, ok := s.rows[rowID]; ok {
			r.X, r.Y = p.X+shiftX, p.Y+shiftY
		}
	}
	return true
}

// EndDragGroup ends the section drag.
func (s *Store) EndDragGroup() bool { return s.endDrag(ChannelSection) }

// =============================================================================
// Texts
// =============================================================================

// BeginDragText starts dragging an annotation.
func (s *Store) BeginDragText(id string) bool {
	t, ok := s.texts[id]
	if !ok {
		return false
	}
	s.beginDrag(ChannelText, id, geometry.Point{X: t.X, Y: t.Y})
	return true
}

// MoveTextByDelta places the annotation at Snap(origin+delta, unit).
func (s *Store) MoveTextByDelta(id string, dx, dy, unit float64) bool {
	d := s.session(ChannelText, id)
	if d == nil {
		return false
	}
	t := s.texts[id]
	t.X = sizing.Snap(d.origin.X+dx, unit)
	t.Y = sizing.Snap(d.origin.Y+dy, unit)
	return true
}

// EndDragText ends the annotation drag.
func (s *Store) EndDragText() bool { return s.endDrag(ChannelText) }

// =============================================================================
// Vertical offset inside a row
// =============================================================================

// BeginVerticalDrag starts moving a parented item inside its row. Until
// EndVerticalDrag the item cannot leave the row.
func (s *Store) BeginVerticalDrag(itemID string) bool {
	it, ok := s.items[itemID]
	if !ok {
		return false
	}
	if _, parented := s.ParentRow(itemID); !parented {
		return false
	}
	s.beginDrag(ChannelVertical, itemID, geometry.Point{Y: it.RowY})
	return true
}

// MoveItemVerticalByDelta sets the item's row offset to
// Snap(origin+dy, unit), never above the row top.
func (s *Store) MoveItemVerticalByDelta(itemID string, dy, unit float64) bool {
	d := s.session(ChannelVertical, itemID)
	if d == nil {
		return false
	}
	s.items[itemID].RowY = math.Max(0, sizing.Snap(d.origin.Y+dy, unit))
	return true
}

// EndVerticalDrag ends the vertical drag.
func (s *Store) EndVerticalDrag() bool { return s.endDrag(ChannelVertical) }
