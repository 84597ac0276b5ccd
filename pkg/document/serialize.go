package document

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// =============================================================================
// Serialize
// =============================================================================

// Serialize returns the canonical nested form of the document: sections
// holding rows holding items, then standalone rows, loose items and texts.
// Selection, drag sessions and the view are not part of it.
func (s *Store) Serialize() payload.Document {
	doc := payload.Document{
		Groups:         make([]payload.Group, 0, len(s.sectionOrder)),
		StandaloneRows: []payload.Row{},
		Loose:          make([]payload.LooseTracker, 0, len(s.looseIDs)),
		TextElements:   make([]payload.TextElement, 0, len(s.textOrder)),
		Settings:       s.settings,
	}

	for _, id := range s.sectionOrder {
		sec := s.sections[id]
		g := payload.Group{
			ID:            payload.ID(sec.ID),
			RemoteID:      sec.RemoteID,
			Name:          sec.Name,
			X:             sec.X,
			Y:             sec.Y,
			IsFinalized:   sec.Finalized,
			ContourPath:   sec.ContourPath,
			SectionNumber: sec.Number,
			Rows:          make([]payload.Row, 0, len(sec.RowIDs)),
		}
		for _, rowID := range sec.RowIDs {
			g.Rows = append(g.Rows, s.serializeRow(s.rows[rowID]))
		}
		doc.Groups = append(doc.Groups, g)
	}

	for _, id := range s.rowOrder {
		if r := s.rows[id]; r.GroupID == "" {
			doc.StandaloneRows = append(doc.StandaloneRows, s.serializeRow(r))
		}
	}

	for _, id := range s.looseIDs {
		it := s.items[id]
		doc.Loose = append(doc.Loose, payload.LooseTracker{
			ID:             payload.ID(it.ID),
			RemoteID:       it.RemoteID,
			Type:           it.Type,
			Title:          it.Title,
			X:              it.X,
			Y:              it.Y,
			Height:         it.Height,
			Ext:            cloneExt(it.Ext),
			StakeStatusIDs: statusList(it.StakeStatusIDs),
		})
	}

	for _, id := range s.textOrder {
		t := s.texts[id]
		doc.TextElements = append(doc.TextElements, payload.TextElement{
			ID:             payload.ID(t.ID),
			X:              t.X,
			Y:              t.Y,
			Text:           t.Text,
			FontSize:       t.FontSize,
			Color:          t.Color,
			FontWeight:     t.FontWeight,
			FontStyle:      t.FontStyle,
			TextDecoration: t.TextDecoration,
			TextAlign:      t.TextAlign,
		})
	}
	return doc
}

func (s *Store) serializeRow(r *Row) payload.Row {
	pr := payload.Row{
		ID:          payload.ID(r.ID),
		RemoteID:    r.RemoteID,
		X:           r.X,
		Y:           r.Y,
		RowNumber:   r.Number,
		IsFinalized: r.Finalized,
		ContourPath: r.ContourPath,
		Trackers:    make([]payload.Tracker, 0, len(r.ItemIDs)),
	}
	if r.GroupID != "" {
		pr.GroupOffsetX = r.GroupOffsetX
	}
	for i, itemID := range r.ItemIDs {
		it := s.items[itemID]
		pr.Trackers = append(pr.Trackers, payload.Tracker{
			ID:             payload.ID(it.ID),
			RemoteID:       it.RemoteID,
			Type:           it.Type,
			Title:          it.Title,
			RowY:           it.RowY,
			Height:         it.Height,
			Ext:            cloneExt(it.Ext),
			StakeStatusIDs: statusList(it.StakeStatusIDs),
			Position:       i,
		})
	}
	return pr
}

// MarshalJSON implements json.Marshaler with the canonical shape.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Serialize())
}

// =============================================================================
// Load
// =============================================================================

// Load replaces the document with doc. The input is built into scratch
// tables first, so a rejected document leaves the store untouched. A
// successful load resets selection, drag sessions and history.
func (s *Store) Load(doc payload.Document) error {
	t, err := s.build(doc)
	if err != nil {
		s.logger.Warn("load rejected", "err", err)
		s.hook().OnLoad(0, err)
		return err
	}
	s.tables = t
	s.applySettings(doc.Settings)
	s.selection = nil
	clear(s.drags)
	s.ClearHistory()

	n := len(t.items) + len(t.rows) + len(t.sections) + len(t.texts)
	s.logger.Debug("document loaded", "entities", n)
	s.hook().OnLoad(n, nil)
	return nil
}

// LoadJSON parses data in any known shape and loads it. Malformed input is
// logged and returned; the current document is kept.
func (s *Store) LoadJSON(data []byte) error {
	doc, shape, err := payload.Parse(data)
	if err != nil {
		s.logger.Warn("load rejected", "err", err)
		s.hook().OnLoad(0, err)
		return err
	}
	s.logger.Debug("parsed document", "shape", shape)
	return s.Load(doc)
}

// build converts a payload into fresh tables. Entities without an id get a
// new one. Ids only have to be unique per kind, as backends number each
// table on its own: an id already taken by another kind is replaced with a
// fresh local id, keeping a numeric one as the backend identity. An id that
// repeats within a kind is rejected.
func (s *Store) build(doc payload.Document) (tables, error) {
	t := newTables()
	type kindID struct {
		kind Kind
		id   string
	}
	seen := make(map[kindID]bool)
	taken := make(map[string]bool)
	fresh := func() string {
		id := s.newID()
		for taken[id] {
			id = s.newID()
		}
		taken[id] = true
		return id
	}
	claim := func(kind Kind, id payload.ID, remote *int64) (string, error) {
		key := string(id)
		if key == "" {
			return fresh(), nil
		}
		if seen[kindID{kind, key}] {
			return "", fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, key)
		}
		seen[kindID{kind, key}] = true
		if !taken[key] {
			taken[key] = true
			return key, nil
		}
		if n, ok := id.Numeric(); ok && remote != nil && *remote == 0 {
			*remote = n
		}
		return fresh(), nil
	}

	addRow := func(pr payload.Row, groupID string) (string, error) {
		rowRemote := pr.RemoteID
		id, err := claim(KindRow, pr.ID, &rowRemote)
		if err != nil {
			return "", err
		}
		r := &Row{
			ID:          id,
			RemoteID:    rowRemote,
			X:           pr.X,
			Y:           pr.Y,
			GroupID:     groupID,
			Finalized:   pr.IsFinalized,
			ContourPath: pr.ContourPath,
			Number:      pr.RowNumber,
			ItemIDs:     []string{},
		}
		if groupID != "" {
			r.GroupOffsetX = pr.GroupOffsetX
		}
		trackers := slices.Clone(pr.Trackers)
		slices.SortStableFunc(trackers, func(a, b payload.Tracker) int { return cmp.Compare(a.Position, b.Position) })
		for _, tr := range trackers {
			itemRemote := tr.RemoteID
			itemID, err := claim(KindItem, tr.ID, &itemRemote)
			if err != nil {
				return "", err
			}
			t.items[itemID] = &Item{
				ID:             itemID,
				RemoteID:       itemRemote,
				Type:           tr.Type,
				Title:          tr.Title,
				RowY:           tr.RowY,
				Height:         tr.Height,
				Ext:            cloneExt(tr.Ext),
				StakeStatusIDs: statusList(tr.StakeStatusIDs),
			}
			r.ItemIDs = append(r.ItemIDs, itemID)
		}
		t.rows[id] = r
		t.rowOrder = append(t.rowOrder, id)
		return id, nil
	}

	for _, g := range doc.Groups {
		secRemote := g.RemoteID
		id, err := claim(KindSection, g.ID, &secRemote)
		if err != nil {
			return tables{}, err
		}
		sec := &Section{
			ID:          id,
			RemoteID:    secRemote,
			Name:        g.Name,
			X:           g.X,
			Y:           g.Y,
			Number:      g.SectionNumber,
			Finalized:   g.IsFinalized,
			ContourPath: g.ContourPath,
			RowIDs:      []string{},
		}
		for _, pr := range g.Rows {
			rowID, err := addRow(pr, id)
			if err != nil {
				return tables{}, err
			}
			sec.RowIDs = append(sec.RowIDs, rowID)
		}
		t.sections[id] = sec
		t.sectionOrder = append(t.sectionOrder, id)
	}

	for _, pr := range doc.StandaloneRows {
		if _, err := addRow(pr, ""); err != nil {
			return tables{}, err
		}
	}

	for _, lt := range doc.Loose {
		looseRemote := lt.RemoteID
		id, err := claim(KindItem, lt.ID, &looseRemote)
		if err != nil {
			return tables{}, err
		}
		t.items[id] = &Item{
			ID:             id,
			RemoteID:       looseRemote,
			Type:           lt.Type,
			Title:          lt.Title,
			X:              lt.X,
			Y:              lt.Y,
			Height:         lt.Height,
			Ext:            cloneExt(lt.Ext),
			StakeStatusIDs: statusList(lt.StakeStatusIDs),
		}
		t.looseIDs = append(t.looseIDs, id)
	}

	for _, te := range doc.TextElements {
		id, err := claim(KindText, te.ID, nil)
		if err != nil {
			return tables{}, err
		}
		t.texts[id] = &Text{
			ID:   id,
			X:    te.X,
			Y:    te.Y,
			Text: te.Text,
			TextStyle: TextStyle{
				FontSize:       te.FontSize,
				Color:          te.Color,
				FontWeight:     te.FontWeight,
				FontStyle:      te.FontStyle,
				TextDecoration: te.TextDecoration,
				TextAlign:      te.TextAlign,
			},
		}
		t.textOrder = append(t.textOrder, id)
	}

	numberMissing(t)
	return t, nil
}

// numberMissing gives unnumbered rows and sections the next free number.
func numberMissing(t tables) {
	next := 0
	for _, r := range t.rows {
		next = max(next, r.Number)
	}
	for _, id := range t.rowOrder {
		if r := t.rows[id]; r.Number <= 0 {
			next++
			r.Number = next
		}
	}

	next = 0
	for _, sec := range t.sections {
		next = max(next, sec.Number)
	}
	for _, id := range t.sectionOrder {
		if sec := t.sections[id]; sec.Number <= 0 {
			next++
			sec.Number = next
		}
	}
}

func cloneExt(e *Ext) *Ext {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// statusList copies a status list, never returning nil.
func statusList(s []*int) []*int {
	if s == nil {
		return []*int{}
	}
	return cloneStatuses(s)
}
