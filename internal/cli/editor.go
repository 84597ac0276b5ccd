package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/trackmap/pkg/document"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMarkStyle     = lipgloss.NewStyle().Foreground(colorGreen)
)

const editorHelp = "↑/↓ move  space select  a all  esc clear  r row  g section  u ungroup  d duplicate  x delete\n" +
	"n tracker  R new row  S new section  t text  H/J/K/L nudge  1-6 align  =/| distribute  z undo  y redo  ctrl+s save  q quit"

// editorEntry is one line of the outline.
type editorEntry struct {
	id    string
	kind  document.Kind
	depth int
	label string
}

// saveFunc persists the store and returns a status line.
type saveFunc func(*document.Store) (string, error)

// EditorModel is the bubbletea model of the keyboard layout editor. It
// drives a document.Store through its public operations and lists the
// layout as an outline.
type EditorModel struct {
	Store   *document.Store
	Cursor  int
	Offset  int
	Height  int
	Status  string
	Dirty   bool
	entries []editorEntry
	save    saveFunc
}

// NewEditorModel creates an editor over s. save is called on ctrl+s and
// may be nil.
func NewEditorModel(s *document.Store, save saveFunc) EditorModel {
	m := EditorModel{Store: s, Height: 20, save: save}
	m.refresh()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

// refresh rebuilds the outline and keeps the cursor in range.
func (m *EditorModel) refresh() {
	s := m.Store
	m.entries = nil
	add := func(id string, kind document.Kind, depth int, label string) {
		m.entries = append(m.entries, editorEntry{id: id, kind: kind, depth: depth, label: label})
	}
	addRow := func(id string, depth int) {
		r, _ := s.Row(id)
		add(id, document.KindRow, depth, fmt.Sprintf("Row %d  (%g, %g)", r.Number, r.X, r.Y))
		for _, itemID := range r.ItemIDs {
			it, _ := s.Item(itemID)
			add(itemID, document.KindItem, depth+1, itemLabel(it))
		}
	}

	for _, id := range s.SectionIDs() {
		sec, _ := s.Section(id)
		add(id, document.KindSection, 0, fmt.Sprintf("%s  (%g, %g)", sec.Name, sec.X, sec.Y))
		for _, rowID := range sec.RowIDs {
			addRow(rowID, 1)
		}
	}
	for _, id := range s.StandaloneRowIDs() {
		addRow(id, 0)
	}
	for _, id := range s.LooseIDs() {
		it, _ := s.Item(id)
		add(id, document.KindItem, 0, fmt.Sprintf("%s  (%g, %g)", itemLabel(it), it.X, it.Y))
	}
	for _, id := range s.TextIDs() {
		t, _ := s.Text(id)
		add(id, document.KindText, 0, fmt.Sprintf("%q  (%g, %g)", t.Text, t.X, t.Y))
	}

	if m.Cursor >= len(m.entries) {
		m.Cursor = max(len(m.entries)-1, 0)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
}

func itemLabel(it document.Item) string {
	title := it.Title
	if title == "" {
		title = "tracker"
	}
	if n := it.Stakes(); n > 0 {
		return fmt.Sprintf("%s [%d]", title, n)
	}
	return title
}

// current returns the entry under the cursor.
func (m EditorModel) current() (editorEntry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.entries) {
		return editorEntry{}, false
	}
	return m.entries[m.Cursor], true
}

// Update implements tea.Model.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m EditorModel) handleKey(key string) (tea.Model, tea.Cmd) {
	s := m.Store
	changed := false
	m.Status = ""

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.entries)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case " ":
		if e, ok := m.current(); ok {
			s.ToggleSelection(e.id)
		}
	case "a":
		s.SelectAll()
	case "esc":
		s.ClearSelection()
	case "r":
		changed = m.report(s.GroupSelectedIntoRow() != "", "grouped into a row", "select loose trackers first")
	case "g":
		changed = m.report(s.GroupSelectedRowsIntoGroup() != "", "grouped into a section", "select standalone rows first")
	case "u":
		if e, ok := m.current(); ok && e.kind == document.KindRow {
			n := len(s.UngroupRow(e.id))
			changed = m.report(true, fmt.Sprintf("row ungrouped, %d trackers loose", n), "")
		}
	case "d":
		n := len(s.DuplicateSelected())
		changed = m.report(n > 0, fmt.Sprintf("duplicated %d", n), "nothing selected")
	case "x", "delete":
		n := s.RemoveSelected()
		changed = m.report(n > 0, fmt.Sprintf("removed %d", n), "nothing selected")
	case "n":
		x, y := m.nextFreeSpot()
		s.Select(s.AddLooseItem(document.ItemSpec{Type: "tracker"}, x, y))
		changed = true
	case "R":
		x, y := m.nextFreeSpot()
		s.Select(s.AddRow(x, y))
		changed = true
	case "S":
		x, y := m.nextFreeSpot()
		s.Select(s.AddRowGroup(x, y, ""))
		changed = true
	case "t":
		x, y := m.nextFreeSpot()
		s.Select(s.AddText(x, y, "Text", document.DefaultTextStyle()))
		changed = true
	case "H", "J", "K", "L":
		changed = m.nudge(key)
	case "1", "2", "3", "4", "5", "6":
		edge := document.Edge(key[0] - '1')
		changed = m.report(s.AlignSelected(edge), "aligned "+edge.String(), "nothing to align")
	case "=", "|":
		axis := document.AxisHorizontal
		if key == "|" {
			axis = document.AxisVertical
		}
		changed = m.report(s.DistributeSelected(axis), "distributed", "select three or more of a kind")
	case "z", "ctrl+z":
		changed = m.report(s.Undo(), "undone", "nothing to undo")
	case "y", "ctrl+y":
		changed = m.report(s.Redo(), "redone", "nothing to redo")
	case "ctrl+s":
		if m.save == nil {
			m.Status = "no save target"
			break
		}
		status, err := m.save(s)
		if err != nil {
			m.Status = "save failed: " + err.Error()
			break
		}
		m.Status = status
		m.Dirty = false
	}

	if changed {
		m.Dirty = true
	}
	m.refresh()
	return m, nil
}

// report sets the status line and returns ok.
func (m *EditorModel) report(ok bool, success, failure string) bool {
	if ok {
		m.Status = success
	} else {
		m.Status = failure
	}
	return ok
}

// nextFreeSpot returns a grid position below everything placed so far.
func (m EditorModel) nextFreeSpot() (float64, float64) {
	s := m.Store
	unit := s.GridSize()
	y := 0.0
	for _, id := range s.LooseIDs() {
		it, _ := s.Item(id)
		y = max(y, it.Y+s.ItemHeight(id))
	}
	for _, id := range s.StandaloneRowIDs() {
		r, _ := s.Row(id)
		y = max(y, r.Y+s.RowHeight(id))
	}
	for _, id := range s.SectionIDs() {
		sec, _ := s.Section(id)
		_, h := s.SectionSize(id)
		y = max(y, sec.Y+h)
	}
	if y > 0 {
		y += unit
	}
	return 0, y
}

// nudge moves the entity under the cursor one grid unit through a drag
// session, so the move is a single undo step.
func (m EditorModel) nudge(key string) bool {
	e, ok := m.current()
	if !ok {
		return false
	}
	s := m.Store
	unit := s.GridSize()
	dx, dy := 0.0, 0.0
	switch key {
	case "H":
		dx = -unit
	case "L":
		dx = unit
	case "K":
		dy = -unit
	case "J":
		dy = unit
	}

	switch e.kind {
	case document.KindItem:
		if _, parented := s.ParentRow(e.id); parented {
			return dx == 0 && s.BeginVerticalDrag(e.id) &&
				s.MoveItemVerticalByDelta(e.id, dy, unit) && s.EndVerticalDrag()
		}
		return s.BeginDragLoose(e.id) && s.MoveLooseItemByDelta(e.id, dx, dy, unit) && s.EndDragLoose()
	case document.KindRow:
		return s.BeginDragRow(e.id) && s.MoveRowByDelta(e.id, dx, dy, unit) && s.EndDragRow()
	case document.KindSection:
		return s.BeginDragGroup(e.id) && s.MoveGroupByDelta(e.id, dx, dy, unit) && s.EndDragGroup()
	case document.KindText:
		return s.BeginDragText(e.id) && s.MoveTextByDelta(e.id, dx, dy, unit) && s.EndDragText()
	}
	return false
}

// View implements tea.Model.
func (m EditorModel) View() string {
	var b strings.Builder

	title := "Layout"
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(listDimStyle.Render("  empty layout, press n to add a tracker"))
		b.WriteString("\n")
	}
	end := min(m.Offset+m.Height, len(m.entries))
	for i := m.Offset; i < end; i++ {
		e := m.entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if m.Store.IsSelected(e.id) {
			mark = listMarkStyle.Render("●")
		}
		style := listNormalStyle
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + mark + " " + strings.Repeat("  ", e.depth) + style.Render(e.label) + "\n")
	}

	st := m.Store.Stats()
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d sections · %d rows · %d trackers · %d texts · %d selected · undo %d · redo %d",
		st.Sections, st.Rows, st.Items, st.Texts, st.Selected, st.Undo, st.Redo)))
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(StyleHighlight.Render(m.Status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(editorHelp))
	return b.String()
}
