package document

import (
	"errors"
	"fmt"
)

// Check verifies the structural invariants of the tables and returns every
// violation joined into one error, or nil.
//
// Every item must be loose or in exactly one row. Every row's GroupID must
// name a section listing the row exactly once, and every row a section
// lists must point back at it. Order lists must match the tables.
func (s *Store) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
	}

	homes := make(map[string]int, len(s.items))
	for _, id := range s.looseIDs {
		if _, ok := s.items[id]; !ok {
			fail("loose list references unknown item %q", id)
		}
		homes[id]++
	}
	for _, rowID := range s.rowOrder {
		r, ok := s.rows[rowID]
		if !ok {
			fail("row order references unknown row %q", rowID)
			continue
		}
		for _, id := range r.ItemIDs {
			if _, ok := s.items[id]; !ok {
				fail("row %q references unknown item %q", rowID, id)
			}
			homes[id]++
		}

		if r.GroupID == "" {
			continue
		}
		sec, ok := s.sections[r.GroupID]
		if !ok {
			fail("row %q references unknown section %q", rowID, r.GroupID)
			continue
		}
		if n := count(sec.RowIDs, rowID); n != 1 {
			fail("row %q claims section %q which lists it %d times", rowID, r.GroupID, n)
		}
	}
	for id := range s.items {
		if n := homes[id]; n != 1 {
			fail("item %q has %d homes, want exactly one", id, n)
		}
	}

	for _, secID := range s.sectionOrder {
		sec, ok := s.sections[secID]
		if !ok {
			fail("section order references unknown section %q", secID)
			continue
		}
		for _, rowID := range sec.RowIDs {
			r, ok := s.rows[rowID]
			switch {
			case !ok:
				fail("section %q references unknown row %q", secID, rowID)
			case r.GroupID != secID:
				fail("section %q lists row %q whose section is %q", secID, rowID, r.GroupID)
			}
		}
	}

	if len(s.rowOrder) != len(s.rows) || len(s.sectionOrder) != len(s.sections) ||
		len(s.textOrder) != len(s.texts) {
		fail("order lists do not match tables")
	}
	for _, id := range s.textOrder {
		if _, ok := s.texts[id]; !ok {
			fail("text order references unknown text %q", id)
		}
	}
	return errors.Join(errs...)
}

func count(ids []string, id string) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}
