package document

import (
	"reflect"
	"testing"

	"github.com/matzehuels/trackmap/pkg/payload"
)

func TestSelection(t *testing.T) {
	s := newTestStore(t)
	a := s.AddLooseItem(ItemSpec{}, 0, 0)
	b := s.AddLooseItem(ItemSpec{}, 90, 0)

	s.Select(a, "missing", a)
	if got := s.Selection(); !reflect.DeepEqual(got, []string{a}) {
		t.Errorf("Select() = %v", got)
	}
	s.AddToSelection(b)
	s.ToggleSelection(a)
	if got := s.Selection(); !reflect.DeepEqual(got, []string{b}) {
		t.Errorf("after toggle = %v", got)
	}
	s.ToggleSelection(a)
	if !s.IsSelected(a) || !s.IsSelected(b) {
		t.Error("toggle should re-add")
	}
	s.ClearSelection()
	if len(s.Selection()) != 0 {
		t.Error("ClearSelection() left ids behind")
	}
}

func TestSelectAllPicksTopLevel(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Groups:         []payload.Group{{ID: "S", Rows: []payload.Row{{ID: "grouped", Trackers: []payload.Tracker{{ID: "child"}}}}}},
		StandaloneRows: []payload.Row{{ID: "free"}},
		Loose:          []payload.LooseTracker{{ID: "loose"}},
		TextElements:   []payload.TextElement{{ID: "text"}},
	})
	s.SelectAll()
	want := []string{"loose", "free", "S", "text"}
	if got := s.Selection(); !reflect.DeepEqual(got, want) {
		t.Errorf("SelectAll() = %v, want %v", got, want)
	}
}

func TestAlignSelected(t *testing.T) {
	doc := payload.Document{
		Loose: []payload.LooseTracker{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 90, Y: 60},
		},
		StandaloneRows: []payload.Row{
			{ID: "r1", X: 300, Y: 0},
			{ID: "r2", X: 420, Y: 300},
		},
	}
	tests := []struct {
		edge   Edge
		coords map[string][2]float64
	}{
		{EdgeLeft, map[string][2]float64{"a": {0, 0}, "b": {0, 60}, "r1": {300, 0}, "r2": {300, 300}}},
		{EdgeRight, map[string][2]float64{"a": {90, 0}, "b": {90, 60}, "r1": {420, 0}, "r2": {420, 300}}},
		{EdgeTop, map[string][2]float64{"a": {0, 0}, "b": {90, 0}, "r1": {300, 0}, "r2": {420, 0}}},
		{EdgeBottom, map[string][2]float64{"a": {0, 60}, "b": {90, 60}, "r1": {300, 300}, "r2": {420, 300}}},
		{EdgeCenter, map[string][2]float64{"a": {60, 0}, "b": {60, 60}, "r1": {360, 0}, "r2": {360, 300}}},
	}
	for _, tt := range tests {
		t.Run(tt.edge.String(), func(t *testing.T) {
			s := loadTestStore(t, doc)
			s.SelectAll()
			if !s.AlignSelected(tt.edge) {
				t.Fatal("AlignSelected() = false")
			}
			for id, want := range tt.coords {
				var x, y float64
				if it, ok := s.Item(id); ok {
					x, y = it.X, it.Y
				} else {
					r, _ := s.Row(id)
					x, y = r.X, r.Y
				}
				if x != want[0] || y != want[1] {
					t.Errorf("%s = (%v, %v), want (%v, %v)", id, x, y, want[0], want[1])
				}
			}
			if s.Stats().Undo != 1 {
				t.Errorf("history entries = %d, want 1", s.Stats().Undo)
			}
		})
	}
}

func TestAlignSelectedPerKind(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Loose:          []payload.LooseTracker{{ID: "a", X: 0, Y: 0}},
		StandaloneRows: []payload.Row{{ID: "r", X: 300, Y: 90}},
	})
	s.SelectAll()
	if s.AlignSelected(EdgeLeft) {
		t.Error("one entity per kind leaves nothing to align")
	}
	if s.CanUndo() {
		t.Error("a no-op alignment must not record history")
	}
}

func TestAlignSectionsCarryRows(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Groups: []payload.Group{
			{ID: "S1", X: 0, Y: 0, Rows: []payload.Row{{ID: "a", X: 0, Y: 0}}},
			{ID: "S2", X: 300, Y: 300, Rows: []payload.Row{{ID: "b", X: 330, Y: 300, GroupOffsetX: 30}}},
		},
	})
	s.Select("S1", "S2")
	s.AlignSelected(EdgeTop)

	sec, _ := s.Section("S2")
	r, _ := s.Row("b")
	if sec.Y != 0 || r.Y != 0 || r.X != 330 {
		t.Errorf("section y %v, row (%v, %v)", sec.Y, r.X, r.Y)
	}
	mustCheck(t, s)
}

func TestDistributeSelected(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Loose: []payload.LooseTracker{
			{ID: "c", X: 300, Y: 0},
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 30, Y: 0},
		},
	})
	s.SelectAll()
	if !s.DistributeSelected(AxisHorizontal) {
		t.Fatal("DistributeSelected() = false")
	}
	want := map[string]float64{"a": 0, "b": 150, "c": 300}
	for id, x := range want {
		if it, _ := s.Item(id); it.X != x {
			t.Errorf("%s.X = %v, want %v", id, it.X, x)
		}
	}

	s.Select("a", "b")
	if s.DistributeSelected(AxisVertical) {
		t.Error("two entities leave nothing to distribute")
	}
}

func TestDuplicateSelected(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Groups: []payload.Group{{
			ID:            "S",
			Name:          "Section 1",
			SectionNumber: 1,
			Rows:          []payload.Row{{ID: "r", RowNumber: 1, Trackers: []payload.Tracker{{ID: "t", Title: "A", StakeStatusIDs: []*int{nil}}}}},
		}},
		Loose:        []payload.LooseTracker{{ID: "l", Title: "T", X: 60, Y: 60}},
		TextElements: []payload.TextElement{{ID: "x", Text: "note", X: 0, Y: 300}},
	})
	s.Select("S", "r", "t", "l", "x")

	created := s.DuplicateSelected()
	if len(created) != 3 {
		t.Fatalf("DuplicateSelected() = %v, want 3 copies (children follow their section)", created)
	}
	if !reflect.DeepEqual(s.Selection(), created) {
		t.Errorf("Selection() = %v, want the copies", s.Selection())
	}

	sec, _ := s.Section(created[0])
	if sec.Name != "Section 1 (2)" || sec.Number != 2 || sec.X != 30 || sec.Y != 30 {
		t.Errorf("section copy = %+v", sec)
	}
	row, _ := s.Row(sec.RowIDs[0])
	if row.ID == "r" || row.GroupID != sec.ID || row.Number != 2 {
		t.Errorf("row copy = %+v", row)
	}
	item, _ := s.Item(row.ItemIDs[0])
	if item.ID == "t" || item.Title != "A (2)" {
		t.Errorf("item copy = %+v", item)
	}

	loose, _ := s.Item(created[1])
	if loose.Title != "T (2)" || loose.X != 90 || loose.Y != 90 {
		t.Errorf("loose copy = %+v", loose)
	}
	text, _ := s.Text(created[2])
	if text.Text != "note" || text.Y != 330 {
		t.Errorf("text copy = %+v", text)
	}
	mustCheck(t, s)

	again := s.DuplicateSelected()
	if cp, _ := s.Item(again[1]); cp.Title != "T (3)" {
		t.Errorf("second copy title = %q, want T (3)", cp.Title)
	}
	if s.Stats().Undo != 2 {
		t.Errorf("history entries = %d, want 2", s.Stats().Undo)
	}
}

func TestDuplicateGroupedRowAndParentedItem(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Groups: []payload.Group{{
			ID: "S",
			Rows: []payload.Row{
				{ID: "r1", Trackers: []payload.Tracker{{ID: "t1", Title: "A"}, {ID: "t2", Title: "B"}}},
				{ID: "r2"},
			},
		}},
	})

	s.Select("r1")
	copies := s.DuplicateSelected()
	sec, _ := s.Section("S")
	if want := []string{"r1", copies[0], "r2"}; !reflect.DeepEqual(sec.RowIDs, want) {
		t.Errorf("RowIDs = %v, want %v", sec.RowIDs, want)
	}

	s.Select("t1")
	item := s.DuplicateSelected()[0]
	r, _ := s.Row("r1")
	if want := []string{"t1", item, "t2"}; !reflect.DeepEqual(r.ItemIDs, want) {
		t.Errorf("ItemIDs = %v, want %v", r.ItemIDs, want)
	}
	mustCheck(t, s)
}

func TestDuplicateNothingKeepsHistory(t *testing.T) {
	s := newTestStore(t)
	s.AddLooseItem(ItemSpec{}, 0, 0)
	s.AddLooseItem(ItemSpec{}, 90, 0)
	s.Undo()
	undo, redo := s.Stats().Undo, s.Stats().Redo

	// a stale id that no longer resolves yields nothing to copy
	s.selection = []string{"gone"}
	if created := s.DuplicateSelected(); created != nil {
		t.Errorf("DuplicateSelected() = %v, want nil", created)
	}
	if st := s.Stats(); st.Undo != undo || st.Redo != redo {
		t.Errorf("history = %d/%d, want %d/%d untouched", st.Undo, st.Redo, undo, redo)
	}
	if !s.CanRedo() {
		t.Error("an empty duplicate must not drop the redo stack")
	}
}

func TestNextName(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		want  string
	}{
		{"T", []string{"T"}, "T (2)"},
		{"T", []string{"T", "T (2)"}, "T (3)"},
		{"T (2)", []string{"T", "T (2)"}, "T (3)"},
		{"T (9)", []string{"T (9)"}, "T (2)"},
		{"", nil, ""},
		{"(2)", []string{"(2)"}, "(2) (2)"},
	}
	for _, tt := range tests {
		taken := make(map[string]bool)
		for _, n := range tt.taken {
			taken[n] = true
		}
		if got := nextName(tt.name, taken); got != tt.want {
			t.Errorf("nextName(%q, %v) = %q, want %q", tt.name, tt.taken, got, tt.want)
		}
	}
}

func TestRemoveSelected(t *testing.T) {
	s := loadTestStore(t, payload.Document{
		Groups:         []payload.Group{{ID: "S", Rows: []payload.Row{{ID: "kept"}}}},
		StandaloneRows: []payload.Row{{ID: "r", Trackers: []payload.Tracker{{ID: "t"}}}},
		Loose:          []payload.LooseTracker{{ID: "l"}},
		TextElements:   []payload.TextElement{{ID: "x"}},
	})
	s.Select("S", "r", "t", "l", "x")

	if got := s.RemoveSelected(); got != 4 {
		t.Errorf("RemoveSelected() = %d, want 4", got)
	}
	st := s.Stats()
	if st.Sections != 0 || st.Rows != 1 || st.Items != 0 || st.Texts != 0 {
		t.Errorf("Stats() = %+v", st)
	}
	if r, _ := s.Row("kept"); r.GroupID != "" {
		t.Error("rows of a removed section are released, not deleted")
	}
	if st.Undo != 1 {
		t.Errorf("history entries = %d, want 1", st.Undo)
	}
	mustCheck(t, s)
}

func TestParseEdgeAndAxis(t *testing.T) {
	if e, err := ParseEdge("Right"); err != nil || e != EdgeRight {
		t.Errorf("ParseEdge(Right) = %v, %v", e, err)
	}
	if _, err := ParseEdge("diagonal"); err == nil {
		t.Error("ParseEdge(diagonal) should fail")
	}
	if a, err := ParseAxis("y"); err != nil || a != AxisVertical {
		t.Errorf("ParseAxis(y) = %v, %v", a, err)
	}
}
