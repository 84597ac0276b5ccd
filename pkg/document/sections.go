package document

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/trackmap/pkg/sizing"
)

// AddRowGroup creates an empty section. An empty name becomes
// "Section <number>".
func (s *Store) AddRowGroup(x, y float64, name string) string {
	s.checkpoint("add-section")
	sec := &Section{
		ID:     s.newID(),
		X:      s.snap(x),
		Y:      s.snap(y),
		Number: s.nextSectionNumber(),
		RowIDs: []string{},
	}
	sec.Name = name
	if sec.Name == "" {
		sec.Name = fmt.Sprintf("Section %d", sec.Number)
	}
	s.sections[sec.ID] = sec
	s.sectionOrder = append(s.sectionOrder, sec.ID)
	return sec.ID
}

// AddRowToGroup appends a row to a section, detaching it from its current
// section first. The row's group offset is its x distance from the leftmost
// row among the section's rows and itself.
func (s *Store) AddRowToGroup(rowID, sectionID string) bool {
	r, ok := s.rows[rowID]
	sec, sok := s.sections[sectionID]
	if !ok || !sok {
		s.logger.Debug("add row to section: unknown id", "row", rowID, "section", sectionID)
		return false
	}
	if r.GroupID == sectionID {
		return false
	}
	s.checkpoint("add-row-to-section")
	s.detachRow(r)

	minX := r.X
	for _, id := range sec.RowIDs {
		minX = math.Min(minX, s.rows[id].X)
	}
	r.GroupID = sectionID
	r.GroupOffsetX = r.X - minX
	sec.RowIDs = append(sec.RowIDs, rowID)
	return true
}

// RemoveRowFromGroup makes a grouped row standalone again. The row keeps
// its absolute position.
func (s *Store) RemoveRowFromGroup(rowID string) bool {
	r, ok := s.rows[rowID]
	if !ok || r.GroupID == "" {
		return false
	}
	s.checkpoint("remove-row-from-section")
	s.detachRow(r)
	return true
}

// RemoveRowGroup deletes a section. Its rows are kept as standalone rows.
func (s *Store) RemoveRowGroup(id string) bool {
	if _, ok := s.sections[id]; !ok {
		return false
	}
	s.checkpoint("remove-section")
	s.deleteSection(id)
	return true
}

// GroupSelectedRowsIntoGroup creates a section from the selected standalone
// rows and selects it. Rows stack by y, then x. The section is anchored at
// the smallest x and y of the rows and every row keeps its x distance from
// that anchor as group offset. It returns "" when no standalone row is
// selected.
func (s *Store) GroupSelectedRowsIntoGroup() string {
	var picked []*Row
	for _, id := range s.selection {
		if r, ok := s.rows[id]; ok && r.GroupID == "" {
			picked = append(picked, r)
		}
	}
	if len(picked) == 0 {
		return ""
	}
	slices.SortStableFunc(picked, func(a, b *Row) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	minX, minY := math.Inf(1), math.Inf(1)
	for _, r := range picked {
		minX, minY = math.Min(minX, r.X), math.Min(minY, r.Y)
	}

	s.checkpoint("group-into-section")
	sec := &Section{
		ID:     s.newID(),
		X:      minX,
		Y:      minY,
		Number: s.nextSectionNumber(),
		RowIDs: make([]string, 0, len(picked)),
	}
	sec.Name = fmt.Sprintf("Section %d", sec.Number)
	for _, r := range picked {
		r.GroupID = sec.ID
		r.GroupOffsetX = r.X - minX
		sec.RowIDs = append(sec.RowIDs, r.ID)
	}
	s.sections[sec.ID] = sec
	s.sectionOrder = append(s.sectionOrder, sec.ID)
	s.selection = []string{sec.ID}
	return sec.ID
}

// ReorderRowInGroup moves the row at index from to index to.
func (s *Store) ReorderRowInGroup(sectionID string, from, to int) bool {
	sec, ok := s.sections[sectionID]
	if !ok || from < 0 || from >= len(sec.RowIDs) {
		return false
	}
	to = clampIndex(to, len(sec.RowIDs)-1)
	if from == to {
		return false
	}
	s.checkpoint("reorder-row")
	id := sec.RowIDs[from]
	sec.RowIDs = slices.Delete(sec.RowIDs, from, from+1)
	sec.RowIDs = slices.Insert(sec.RowIDs, to, id)
	return true
}

// RenameGroup sets the display name of a section.
func (s *Store) RenameGroup(id, name string) bool {
	sec, ok := s.sections[id]
	if !ok {
		return false
	}
	if sec.Name != name {
		s.checkpoint("rename-section")
		sec.Name = name
	}
	return true
}

// SetGroupFinalized marks a section as finalized or editable.
func (s *Store) SetGroupFinalized(id string, finalized bool) bool {
	sec, ok := s.sections[id]
	if !ok {
		return false
	}
	if sec.Finalized != finalized {
		s.checkpoint("set-section-finalized")
		sec.Finalized = finalized
	}
	return true
}

// SetGroupContour caches the derived contour path of a section.
func (s *Store) SetGroupContour(id, path string) bool {
	sec, ok := s.sections[id]
	if !ok {
		return false
	}
	sec.ContourPath = path
	return true
}

// SectionSize returns the width and height of a section from its rows.
func (s *Store) SectionSize(id string) (width, height float64) {
	sec, ok := s.sections[id]
	if !ok {
		return 0, 0
	}
	var rows []sizing.RowSize
	for _, rowID := range sec.RowIDs {
		rows = append(rows, s.rowSize(rowID))
	}
	return s.metrics.SectionSize(rows)
}
