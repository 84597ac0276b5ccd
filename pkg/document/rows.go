package document

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/trackmap/pkg/sizing"
)

// AddRow creates an empty standalone row at the snapped position.
func (s *Store) AddRow(x, y float64) string {
	s.checkpoint("add-row")
	r := &Row{
		ID:      s.newID(),
		X:       s.snap(x),
		Y:       s.snap(y),
		Number:  s.nextRowNumber(),
		ItemIDs: []string{},
	}
	s.rows[r.ID] = r
	s.rowOrder = append(s.rowOrder, r.ID)
	return r.ID
}

// RemoveRow deletes a row together with its items.
func (s *Store) RemoveRow(id string) bool {
	if _, ok := s.rows[id]; !ok {
		return false
	}
	s.checkpoint("remove-row")
	s.deleteRow(id)
	return true
}

// GroupSelectedIntoRow creates a row from the selected loose items and
// selects it. Items are ordered left to right; items whose x positions are
// within SortTolerance are ordered top to bottom. The row anchor is the
// top-left of the items, shifted left by the row padding, snapped to the
// grid. It returns "" when no loose item is selected.
func (s *Store) GroupSelectedIntoRow() string {
	var picked []*Item
	for _, id := range s.selection {
		if s.isLoose(id) {
			picked = append(picked, s.items[id])
		}
	}
	if len(picked) == 0 {
		return ""
	}

	slices.SortStableFunc(picked, func(a, b *Item) int {
		if math.Abs(a.X-b.X) <= SortTolerance {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	minX, minY := math.Inf(1), math.Inf(1)
	for _, it := range picked {
		minX, minY = math.Min(minX, it.X), math.Min(minY, it.Y)
	}

	s.checkpoint("group-into-row")
	r := &Row{
		ID:      s.newID(),
		X:       s.snap(minX - s.metrics.Padding),
		Y:       s.snap(minY),
		Number:  s.nextRowNumber(),
		ItemIDs: make([]string, 0, len(picked)),
	}
	for _, it := range picked {
		s.looseIDs = remove(s.looseIDs, it.ID)
		it.X, it.Y, it.RowY = 0, 0, 0
		r.ItemIDs = append(r.ItemIDs, it.ID)
	}
	s.rows[r.ID] = r
	s.rowOrder = append(s.rowOrder, r.ID)
	s.selection = []string{r.ID}
	return r.ID
}

// UngroupRow dissolves a row: its items become loose, laid out left to
// right from the row anchor in row order, and are selected.
func (s *Store) UngroupRow(id string) []string {
	r, ok := s.rows[id]
	if !ok {
		return nil
	}
	s.checkpoint("ungroup-row")
	m := s.metrics
	items := slices.Clone(r.ItemIDs)
	for i, itemID := range items {
		it := s.items[itemID]
		it.X = r.X + m.Padding + float64(i)*(m.TrackerWidth+m.Gap)
		it.Y = r.Y + m.RowHeaderHeight + m.Padding + it.RowY
		it.RowY = 0
		if s.verticalDragActive(itemID) {
			delete(s.drags, ChannelVertical)
		}
	}
	r.ItemIDs = nil
	s.deleteRow(id)
	s.looseIDs = append(s.looseIDs, items...)
	s.selection = items
	return slices.Clone(items)
}

// SetRowFinalized marks a row as finalized or editable.
func (s *Store) SetRowFinalized(id string, finalized bool) bool {
	r, ok := s.rows[id]
	if !ok {
		return false
	}
	if r.Finalized != finalized {
		s.checkpoint("set-row-finalized")
		r.Finalized = finalized
	}
	return true
}

// SetRowContour caches the derived contour path. Derived geometry does not
// enter history.
func (s *Store) SetRowContour(id, path string) bool {
	r, ok := s.rows[id]
	if !ok {
		return false
	}
	r.ContourPath = path
	return true
}

// RowHeight returns the height of a row from its items' heights, or 0 for
// unknown ids.
func (s *Store) RowHeight(id string) float64 {
	r, ok := s.rows[id]
	if !ok {
		return 0
	}
	heights := make([]float64, 0, len(r.ItemIDs))
	for _, itemID := range r.ItemIDs {
		heights = append(heights, s.ItemHeight(itemID))
	}
	return s.metrics.RowHeight(heights)
}

// RowWidth returns the width of a row, or 0 for unknown ids.
func (s *Store) RowWidth(id string) float64 {
	r, ok := s.rows[id]
	if !ok {
		return 0
	}
	return s.metrics.RowWidth(len(r.ItemIDs))
}

func (s *Store) rowSize(id string) sizing.RowSize {
	return sizing.RowSize{
		OffsetX: s.rows[id].GroupOffsetX,
		Width:   s.RowWidth(id),
		Height:  s.RowHeight(id),
	}
}
