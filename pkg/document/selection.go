package document

import "slices"

// Select replaces the selection with the ids that exist.
func (s *Store) Select(ids ...string) {
	s.selection = nil
	s.AddToSelection(ids...)
}

// AddToSelection extends the selection with the ids that exist.
func (s *Store) AddToSelection(ids ...string) {
	for _, id := range ids {
		if s.exists(id) && !slices.Contains(s.selection, id) {
			s.selection = append(s.selection, id)
		}
	}
}

// ToggleSelection adds id to the selection or removes it.
func (s *Store) ToggleSelection(id string) {
	if slices.Contains(s.selection, id) {
		s.selection = remove(s.selection, id)
		return
	}
	s.AddToSelection(id)
}

// ClearSelection empties the selection.
func (s *Store) ClearSelection() { s.selection = nil }

// SelectAll selects every top-level entity: loose items, standalone rows,
// sections and texts.
func (s *Store) SelectAll() {
	s.selection = nil
	s.selection = append(s.selection, s.looseIDs...)
	s.selection = append(s.selection, s.StandaloneRowIDs()...)
	s.selection = append(s.selection, s.sectionOrder...)
	s.selection = append(s.selection, s.textOrder...)
}

// Selection returns the selected ids in selection order.
func (s *Store) Selection() []string { return slices.Clone(s.selection) }

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool { return slices.Contains(s.selection, id) }

// RemoveSelected deletes every selected entity as one undo step. Rows take
// their items with them; sections release their rows. It returns the
// number of entities removed.
func (s *Store) RemoveSelected() int {
	if len(s.selection) == 0 {
		return 0
	}
	s.checkpoint("remove-selected")
	n := 0
	for _, id := range slices.Clone(s.selection) {
		switch s.KindOf(id) {
		case KindItem:
			s.deleteItem(id)
		case KindRow:
			s.deleteRow(id)
		case KindSection:
			s.deleteSection(id)
		case KindText:
			s.deleteText(id)
		default:
			continue
		}
		n++
	}
	s.selection = nil
	return n
}
