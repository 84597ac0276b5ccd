package document

import (
	"slices"
)

// AddLooseItem places a new item on the canvas at the snapped position.
func (s *Store) AddLooseItem(spec ItemSpec, x, y float64) string {
	s.checkpoint("add-loose-item")
	it := s.newItem(spec)
	it.X, it.Y = s.snap(x), s.snap(y)
	s.looseIDs = append(s.looseIDs, it.ID)
	return it.ID
}

// AddItemToRow creates an item directly inside a row at index. A negative
// or out-of-range index appends. It returns "" when the row is unknown.
func (s *Store) AddItemToRow(spec ItemSpec, rowID string, index int) string {
	r, ok := s.rows[rowID]
	if !ok {
		s.logger.Debug("add item: unknown row", "row", rowID)
		return ""
	}
	s.checkpoint("add-item-to-row")
	it := s.newItem(spec)
	r.ItemIDs = insertAt(r.ItemIDs, it.ID, index)
	return it.ID
}

// AttachItemToRow moves an existing loose item into a row at index. The
// item loses its canvas position.
func (s *Store) AttachItemToRow(itemID, rowID string, index int) bool {
	it, ok := s.items[itemID]
	r, rok := s.rows[rowID]
	if !ok || !rok {
		s.logger.Debug("attach item: unknown id", "item", itemID, "row", rowID)
		return false
	}
	if !s.isLoose(itemID) {
		if from, parented := s.ParentRow(itemID); parented {
			return s.MoveBetweenRows(from, rowID, itemID, index)
		}
		return false
	}
	s.checkpoint("attach-item")
	s.looseIDs = remove(s.looseIDs, itemID)
	it.X, it.Y, it.RowY = 0, 0, 0
	r.ItemIDs = insertAt(r.ItemIDs, itemID, index)
	return true
}

// ReorderWithinRow moves the item at index from to index to.
func (s *Store) ReorderWithinRow(rowID string, from, to int) bool {
	r, ok := s.rows[rowID]
	if !ok || from < 0 || from >= len(r.ItemIDs) {
		return false
	}
	to = clampIndex(to, len(r.ItemIDs)-1)
	if from == to {
		return false
	}
	s.checkpoint("reorder-item")
	id := r.ItemIDs[from]
	r.ItemIDs = slices.Delete(r.ItemIDs, from, from+1)
	r.ItemIDs = slices.Insert(r.ItemIDs, to, id)
	return true
}

// MoveBetweenRows moves an item from one row to another at the clamped
// index. It is refused while the item is dragged vertically.
func (s *Store) MoveBetweenRows(fromRowID, toRowID, itemID string, index int) bool {
	from, fok := s.rows[fromRowID]
	to, tok := s.rows[toRowID]
	if !fok || !tok || !slices.Contains(from.ItemIDs, itemID) {
		s.logger.Debug("move between rows: unresolved", "from", fromRowID, "to", toRowID, "item", itemID)
		return false
	}
	if s.verticalDragActive(itemID) {
		s.logger.Debug("move between rows: item is in a vertical drag", "item", itemID)
		return false
	}
	if fromRowID == toRowID {
		return s.ReorderWithinRow(fromRowID, slices.Index(from.ItemIDs, itemID), index)
	}
	s.checkpoint("move-between-rows")
	from.ItemIDs = remove(from.ItemIDs, itemID)
	to.ItemIDs = remove(to.ItemIDs, itemID)
	to.ItemIDs = slices.Insert(to.ItemIDs, clampIndex(index, len(to.ItemIDs)), itemID)
	return true
}

// MoveItemFromRowToLoose takes an item out of a row and places it on the
// canvas at (x, y). It is refused while the item is dragged vertically.
func (s *Store) MoveItemFromRowToLoose(fromRowID, itemID string, x, y float64) bool {
	r, ok := s.rows[fromRowID]
	if !ok || !slices.Contains(r.ItemIDs, itemID) {
		s.logger.Debug("move to loose: unresolved", "row", fromRowID, "item", itemID)
		return false
	}
	if s.verticalDragActive(itemID) {
		s.logger.Debug("move to loose: item is in a vertical drag", "item", itemID)
		return false
	}
	s.checkpoint("move-to-loose")
	r.ItemIDs = remove(r.ItemIDs, itemID)
	it := s.items[itemID]
	it.X, it.Y, it.RowY = x, y, 0
	s.looseIDs = append(s.looseIDs, itemID)
	return true
}

// RemoveItem deletes an item wherever it is.
func (s *Store) RemoveItem(id string) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	s.checkpoint("remove-item")
	s.deleteItem(id)
	return true
}

// SetItemExt replaces the catalog metadata. The stake status list is
// truncated or padded with nil entries to the new stake count.
func (s *Store) SetItemExt(id string, ext *Ext) bool {
	it, ok := s.items[id]
	if !ok {
		return false
	}
	s.checkpoint("set-item-ext")
	it.Ext = cloneExt(ext)
	it.StakeStatusIDs = resizeStatuses(it.StakeStatusIDs, it.Stakes())
	return true
}

// SetStakeStatus sets the status of one stake. A nil status clears it.
func (s *Store) SetStakeStatus(id string, stake int, status *int) bool {
	it, ok := s.items[id]
	if !ok || stake < 0 || stake >= len(it.StakeStatusIDs) {
		return false
	}
	s.checkpoint("set-stake-status")
	if status != nil {
		v := *status
		status = &v
	}
	it.StakeStatusIDs[stake] = status
	return true
}

// SetItemTitle renames an item.
func (s *Store) SetItemTitle(id, title string) bool {
	it, ok := s.items[id]
	if !ok || it.Title == title {
		return ok
	}
	s.checkpoint("set-item-title")
	it.Title = title
	return true
}

// SetItemHeight sets the height override. Zero derives the height from the
// stake count again.
func (s *Store) SetItemHeight(id string, height float64) bool {
	it, ok := s.items[id]
	if !ok {
		return false
	}
	s.checkpoint("set-item-height")
	it.Height = max(height, 0)
	return true
}

// ItemHeight returns the rendered height of an item, or 0 for unknown ids.
func (s *Store) ItemHeight(id string) float64 {
	it, ok := s.items[id]
	if !ok {
		return 0
	}
	return s.metrics.ItemHeightWithOverride(it.Stakes(), it.Height)
}
