package document

import (
	"fmt"
	"regexp"
	"slices"
)

var copySuffix = regexp.MustCompile(`^(.*) \((\d+)\)$`)

// nextName returns name with the smallest free " (n)" suffix, n >= 2.
// An existing suffix is replaced rather than stacked.
func nextName(name string, taken map[string]bool) string {
	if name == "" {
		return ""
	}
	base := name
	if m := copySuffix.FindStringSubmatch(name); m != nil {
		base = m[1]
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !taken[candidate] {
			taken[candidate] = true
			return candidate
		}
	}
}

// DuplicateSelected deep-copies every selected entity with new ids and
// suffixed titles and names, then selects the copies. Loose items, texts,
// standalone rows and sections are shifted by DuplicateOffset; a copied
// grouped row is inserted below its original in the same section, and a
// copied parented item lands right after its original. Entities whose
// parent is also selected are copied with the parent only.
func (s *Store) DuplicateSelected() []string {
	plan := s.duplicatePlan()
	if len(plan) == 0 {
		return nil
	}
	s.checkpoint("duplicate")

	titles := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		titles[it.Title] = true
	}
	names := make(map[string]bool, len(s.sections))
	for _, sec := range s.sections {
		names[sec.Name] = true
	}

	created := make([]string, 0, len(plan))
	for _, id := range plan {
		switch s.KindOf(id) {
		case KindItem:
			if s.isLoose(id) {
				c := s.cloneItem(id, titles)
				c.X += DuplicateOffset
				c.Y += DuplicateOffset
				s.looseIDs = append(s.looseIDs, c.ID)
				created = append(created, c.ID)
				continue
			}
			rowID, _ := s.ParentRow(id)
			c := s.cloneItem(id, titles)
			r := s.rows[rowID]
			r.ItemIDs = slices.Insert(r.ItemIDs, slices.Index(r.ItemIDs, id)+1, c.ID)
			created = append(created, c.ID)

		case KindRow:
			r := s.rows[id]
			if r.GroupID == "" {
				c := s.cloneRow(id, titles, DuplicateOffset, DuplicateOffset)
				created = append(created, c.ID)
				continue
			}
			c := s.cloneRow(id, titles, 0, DuplicateOffset)
			c.GroupID = r.GroupID
			sec := s.sections[r.GroupID]
			sec.RowIDs = slices.Insert(sec.RowIDs, slices.Index(sec.RowIDs, id)+1, c.ID)
			created = append(created, c.ID)

		case KindSection:
			created = append(created, s.cloneSection(id, titles, names).ID)

		case KindText:
			t := *s.texts[id]
			t.ID = s.newID()
			t.X += DuplicateOffset
			t.Y += DuplicateOffset
			s.texts[t.ID] = &t
			s.textOrder = append(s.textOrder, t.ID)
			created = append(created, t.ID)
		}
	}
	s.selection = created
	return slices.Clone(created)
}

// duplicatePlan returns the selected ids DuplicateSelected copies on their
// own, in selection order. Ids that no longer resolve and entities copied
// along with a selected parent are left out.
func (s *Store) duplicatePlan() []string {
	selected := make(map[string]bool, len(s.selection))
	for _, id := range s.selection {
		selected[id] = true
	}
	var plan []string
	for _, id := range s.selection {
		switch s.KindOf(id) {
		case KindItem:
			if !s.isLoose(id) {
				rowID, ok := s.ParentRow(id)
				if !ok || selected[rowID] || selected[s.rows[rowID].GroupID] {
					continue
				}
			}
		case KindRow:
			if g := s.rows[id].GroupID; g != "" && selected[g] {
				continue
			}
		case KindSection, KindText:
		default:
			continue
		}
		plan = append(plan, id)
	}
	return plan
}

func (s *Store) cloneItem(id string, titles map[string]bool) *Item {
	c := s.items[id].clone()
	c.ID = s.newID()
	c.RemoteID = 0
	c.Title = nextName(c.Title, titles)
	s.items[c.ID] = c
	return c
}

// cloneRow copies a row and its items as a standalone row shifted by
// (dx, dy). Callers attach it to a section when needed.
func (s *Store) cloneRow(id string, titles map[string]bool, dx, dy float64) *Row {
	c := s.rows[id].clone()
	c.ID = s.newID()
	c.RemoteID = 0
	c.GroupID = ""
	c.Number = s.nextRowNumber()
	c.X += dx
	c.Y += dy
	for i, itemID := range c.ItemIDs {
		c.ItemIDs[i] = s.cloneItem(itemID, titles).ID
	}
	s.rows[c.ID] = c
	s.rowOrder = append(s.rowOrder, c.ID)
	return c
}

func (s *Store) cloneSection(id string, titles, names map[string]bool) *Section {
	c := s.sections[id].clone()
	c.ID = s.newID()
	c.RemoteID = 0
	c.Number = s.nextSectionNumber()
	c.Name = nextName(c.Name, names)
	c.X += DuplicateOffset
	c.Y += DuplicateOffset
	for i, rowID := range c.RowIDs {
		r := s.cloneRow(rowID, titles, DuplicateOffset, DuplicateOffset)
		r.GroupID = c.ID
		c.RowIDs[i] = r.ID
	}
	s.sections[c.ID] = c
	s.sectionOrder = append(s.sectionOrder, c.ID)
	return c
}
