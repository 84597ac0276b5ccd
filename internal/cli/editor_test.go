package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/trackmap/pkg/document"
)

// press feeds keys to the model and returns the final model.
func press(t *testing.T, m EditorModel, keys ...string) EditorModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(EditorModel)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestEditorAddAndGroup(t *testing.T) {
	m := NewEditorModel(document.New(), nil)
	m = press(t, m, "n", "n", "n")
	if st := m.Store.Stats(); st.LooseItems != 3 {
		t.Fatalf("loose items = %d, want 3", st.LooseItems)
	}
	if !m.Dirty {
		t.Error("model should be dirty after edits")
	}

	m = press(t, m, "a", "r")
	st := m.Store.Stats()
	if st.Rows != 1 || st.LooseItems != 0 {
		t.Fatalf("after grouping into a row: %+v", st)
	}

	m = press(t, m, "g")
	if st := m.Store.Stats(); st.Sections != 1 || st.GroupedRows != 1 {
		t.Fatalf("after grouping into a section: %+v", st)
	}
	if m.Status != "grouped into a section" {
		t.Errorf("Status = %q", m.Status)
	}
	if err := m.Store.Check(); err != nil {
		t.Errorf("Check() = %v", err)
	}

	view := m.View()
	for _, want := range []string{"Section 1", "Row 1", "tracker", "1 sections"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestEditorUndoRedo(t *testing.T) {
	m := NewEditorModel(document.New(), nil)
	m = press(t, m, "R", "t")
	m = press(t, m, "z")
	if st := m.Store.Stats(); st.Texts != 0 || st.Rows != 1 {
		t.Errorf("after undo: %+v", st)
	}
	m = press(t, m, "y")
	if st := m.Store.Stats(); st.Texts != 1 {
		t.Errorf("after redo: %+v", st)
	}
	m = press(t, m, "y")
	if m.Status != "nothing to redo" {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestEditorSelectionAndDelete(t *testing.T) {
	m := NewEditorModel(document.New(), nil)
	m = press(t, m, "n", "n", "esc")
	m = press(t, m, "up", "up", " ")
	if got := m.Store.Selection(); len(got) != 1 || got[0] != m.entries[0].id {
		t.Fatalf("Selection() = %v", got)
	}
	m = press(t, m, "d")
	if m.Store.Stats().LooseItems != 3 {
		t.Fatalf("duplicate: %+v", m.Store.Stats())
	}
	m = press(t, m, "x")
	if m.Store.Stats().LooseItems != 2 || m.Status != "removed 1" {
		t.Errorf("delete: %+v %q", m.Store.Stats(), m.Status)
	}
	m = press(t, m, "esc", "x")
	if m.Status != "nothing selected" {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestEditorNudge(t *testing.T) {
	s := document.New()
	id := s.AddLooseItem(document.ItemSpec{}, 60, 60)
	s.ClearHistory()
	m := NewEditorModel(s, nil)

	m = press(t, m, "L", "J", "J")
	it, _ := m.Store.Item(id)
	if it.X != 90 || it.Y != 120 {
		t.Errorf("nudged to (%v, %v), want (90, 120)", it.X, it.Y)
	}
	if m.Store.Stats().Undo != 3 {
		t.Errorf("history entries = %d, want one per nudge", m.Store.Stats().Undo)
	}
	if _, ok := m.Store.Dragging(document.ChannelLoose); ok {
		t.Error("nudge must not leave a drag open")
	}
}

func TestEditorNudgeParentedItem(t *testing.T) {
	s := document.New()
	row := s.AddRow(0, 0)
	item := s.AddItemToRow(document.ItemSpec{}, row, -1)
	m := NewEditorModel(s, nil)
	m = press(t, m, "down")
	if e, _ := m.current(); e.id != item {
		t.Fatalf("cursor on %q, want the item", e.id)
	}

	m = press(t, m, "J", "L")
	it, _ := m.Store.Item(item)
	if it.RowY != 30 {
		t.Errorf("RowY = %v, want 30", it.RowY)
	}
}

func TestEditorAlign(t *testing.T) {
	s := document.New()
	a := s.AddLooseItem(document.ItemSpec{}, 0, 0)
	b := s.AddLooseItem(document.ItemSpec{}, 90, 60)
	m := NewEditorModel(s, nil)

	m = press(t, m, "a", "4")
	ia, _ := m.Store.Item(a)
	ib, _ := m.Store.Item(b)
	if ia.Y != 0 || ib.Y != 0 {
		t.Errorf("align top: a.Y=%v b.Y=%v", ia.Y, ib.Y)
	}
	if m.Status != "aligned top" {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestEditorSave(t *testing.T) {
	var saved int
	save := func(s *document.Store) (string, error) {
		saved++
		if saved > 1 {
			return "", errors.New("disk full")
		}
		return "saved field.json", nil
	}
	m := NewEditorModel(document.New(), save)
	m = press(t, m, "n", "ctrl+s")
	if m.Dirty || m.Status != "saved field.json" {
		t.Errorf("after save: dirty=%v status=%q", m.Dirty, m.Status)
	}
	m = press(t, m, "n", "ctrl+s")
	if !m.Dirty || m.Status != "save failed: disk full" {
		t.Errorf("after failed save: dirty=%v status=%q", m.Dirty, m.Status)
	}

	m = NewEditorModel(document.New(), nil)
	m = press(t, m, "ctrl+s")
	if m.Status != "no save target" {
		t.Errorf("Status = %q", m.Status)
	}
}

func TestEditorQuit(t *testing.T) {
	m := NewEditorModel(document.New(), nil)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestEditorWindowSize(t *testing.T) {
	m := NewEditorModel(document.New(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(EditorModel).Height; got != 5 {
		t.Errorf("Height = %d, want the minimum of 5", got)
	}
}
