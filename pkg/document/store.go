package document

import (
	"errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trackmap/pkg/observability"
	"github.com/matzehuels/trackmap/pkg/payload"
	"github.com/matzehuels/trackmap/pkg/sizing"
)

var (
	// ErrDuplicateID is returned by [Store.Load] when two entities of the
	// input share an id.
	ErrDuplicateID = errors.New("duplicate entity id")

	// ErrInconsistent is wrapped by every violation reported by [Store.Check].
	ErrInconsistent = errors.New("inconsistent document")
)

const (
	// DefaultHistoryLimit is the number of undo snapshots kept.
	DefaultHistoryLimit = 100

	// DuplicateOffset is how far duplicated entities are shifted.
	DuplicateOffset = 30.0

	// SortTolerance is the horizontal distance under which items grouped
	// into a row are ordered top to bottom instead of left to right.
	SortTolerance = 30.0

	MinZoom = 0.1
	MaxZoom = 4.0
)

// tables is the swappable part of a Store: everything serialization covers.
type tables struct {
	items    map[string]*Item
	rows     map[string]*Row
	sections map[string]*Section
	texts    map[string]*Text

	looseIDs     []string
	rowOrder     []string
	sectionOrder []string
	textOrder    []string
}

func newTables() tables {
	return tables{
		items:    make(map[string]*Item),
		rows:     make(map[string]*Row),
		sections: make(map[string]*Section),
		texts:    make(map[string]*Text),
	}
}

// Store is the layout document. The zero value is not usable; use [New].
type Store struct {
	tables

	settings     payload.Settings
	metrics      sizing.Metrics
	grid         float64
	newID        func() string
	logger       *log.Logger
	hooks        observability.DocumentHooks
	historyLimit int

	selection []string
	drags     map[Channel]*dragSession
	view      View

	past   [][]byte
	future [][]byte
}

// Option configures a Store.
type Option func(*Store)

// WithSettings sets the dimensional settings. Zero fields keep defaults.
func WithSettings(st payload.Settings) Option {
	return func(s *Store) { s.applySettings(st) }
}

// WithGridSize sets the snap unit used by placement and batch operations.
func WithGridSize(unit float64) Option { return func(s *Store) { s.grid = unit } }

// WithIDGenerator replaces the id source. Tests use it for stable ids.
func WithIDGenerator(fn func() string) Option { return func(s *Store) { s.newID = fn } }

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistoryLimit caps the undo stack. Values below 1 keep the default.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithHooks sets per-store hooks instead of the global registry.
func WithHooks(h observability.DocumentHooks) Option { return func(s *Store) { s.hooks = h } }

// New creates an empty document.
func New(opts ...Option) *Store {
	s := &Store{
		tables:       newTables(),
		grid:         sizing.DefaultGridSize,
		newID:        uuid.NewString,
		logger:       log.New(io.Discard),
		historyLimit: DefaultHistoryLimit,
		drags:        make(map[Channel]*dragSession),
		view:         View{Zoom: 1},
	}
	s.applySettings(payload.DefaultSettings())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) applySettings(st payload.Settings) {
	s.settings = st.WithDefaults()
	s.metrics = s.settings.Metrics()
}

func (s *Store) hook() observability.DocumentHooks {
	if s.hooks != nil {
		return s.hooks
	}
	return observability.Document()
}

// Settings returns the dimensional settings.
func (s *Store) Settings() payload.Settings { return s.settings }

// Metrics returns the size calculators derived from the settings.
func (s *Store) Metrics() sizing.Metrics { return s.metrics }

// GridSize returns the snap unit.
func (s *Store) GridSize() float64 { return s.grid }

func (s *Store) snap(v float64) float64 { return sizing.Snap(v, s.grid) }

// =============================================================================
// Lookups
// =============================================================================

// KindOf reports which table id lives in.
func (s *Store) KindOf(id string) Kind {
	switch {
	case s.items[id] != nil:
		return KindItem
	case s.rows[id] != nil:
		return KindRow
	case s.sections[id] != nil:
		return KindSection
	case s.texts[id] != nil:
		return KindText
	default:
		return KindNone
	}
}

func (s *Store) exists(id string) bool { return s.KindOf(id) != KindNone }

// Item returns a copy of the item.
func (s *Store) Item(id string) (Item, bool) {
	it, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	return *it.clone(), true
}

// Row returns a copy of the row.
func (s *Store) Row(id string) (Row, bool) {
	r, ok := s.rows[id]
	if !ok {
		return Row{}, false
	}
	return *r.clone(), true
}

// Section returns a copy of the section.
func (s *Store) Section(id string) (Section, bool) {
	sec, ok := s.sections[id]
	if !ok {
		return Section{}, false
	}
	return *sec.clone(), true
}

// Text returns a copy of the annotation.
func (s *Store) Text(id string) (Text, bool) {
	t, ok := s.texts[id]
	if !ok {
		return Text{}, false
	}
	return *t, true
}

// LooseIDs returns the loose items in canvas order.
func (s *Store) LooseIDs() []string { return slices.Clone(s.looseIDs) }

// RowIDs returns every row, grouped or not, in creation order.
func (s *Store) RowIDs() []string { return slices.Clone(s.rowOrder) }

// StandaloneRowIDs returns the rows outside any section.
func (s *Store) StandaloneRowIDs() []string {
	var out []string
	for _, id := range s.rowOrder {
		if s.rows[id].GroupID == "" {
			out = append(out, id)
		}
	}
	return out
}

// SectionIDs returns the sections in creation order.
func (s *Store) SectionIDs() []string { return slices.Clone(s.sectionOrder) }

// TextIDs returns the annotations in creation order.
func (s *Store) TextIDs() []string { return slices.Clone(s.textOrder) }

// ParentRow returns the row holding a parented item.
func (s *Store) ParentRow(itemID string) (string, bool) {
	for _, id := range s.rowOrder {
		if slices.Contains(s.rows[id].ItemIDs, itemID) {
			return id, true
		}
	}
	return "", false
}

func (s *Store) isLoose(itemID string) bool { return slices.Contains(s.looseIDs, itemID) }

// SetRemoteID records the backend identity of an entity. It is an identity
// reconciliation hook for persistence and does not enter history.
func (s *Store) SetRemoteID(id string, remote int64) bool {
	switch s.KindOf(id) {
	case KindItem:
		s.items[id].RemoteID = remote
	case KindRow:
		s.rows[id].RemoteID = remote
	case KindSection:
		s.sections[id].RemoteID = remote
	default:
		return false
	}
	return true
}

// Stats returns entity counts and history depths.
func (s *Store) Stats() Stats {
	st := Stats{
		Sections:   len(s.sections),
		Rows:       len(s.rows),
		Items:      len(s.items),
		LooseItems: len(s.looseIDs),
		Texts:      len(s.texts),
		Selected:   len(s.selection),
		Undo:       len(s.past),
		Redo:       len(s.future),
	}
	for _, r := range s.rows {
		if r.GroupID != "" {
			st.GroupedRows++
		}
	}
	return st
}

// =============================================================================
// Table helpers
// =============================================================================

func (s *Store) nextRowNumber() int {
	n := 0
	for _, r := range s.rows {
		n = max(n, r.Number)
	}
	return n + 1
}

func (s *Store) nextSectionNumber() int {
	n := 0
	for _, sec := range s.sections {
		n = max(n, sec.Number)
	}
	return n + 1
}

func (s *Store) newItem(spec ItemSpec) *Item {
	it := &Item{
		ID:     s.newID(),
		Type:   spec.Type,
		Title:  spec.Title,
		Height: spec.Height,
	}
	if spec.Ext != nil {
		ext := *spec.Ext
		it.Ext = &ext
		it.StakeStatusIDs = resizeStatuses(nil, ext.StakeCount)
	} else {
		it.StakeStatusIDs = []*int{}
	}
	s.items[it.ID] = it
	return it
}

// detachItem removes an item id from the loose list and from whichever row
// holds it. The item stays in the table.
func (s *Store) detachItem(id string) {
	s.looseIDs = remove(s.looseIDs, id)
	if rowID, ok := s.ParentRow(id); ok {
		r := s.rows[rowID]
		r.ItemIDs = remove(r.ItemIDs, id)
	}
}

// deleteItem removes an item from every structure that may reference it.
func (s *Store) deleteItem(id string) {
	s.detachItem(id)
	delete(s.items, id)
	s.forget(id)
}

// detachRow removes a row from its section, if any.
func (s *Store) detachRow(r *Row) {
	if sec, ok := s.sections[r.GroupID]; ok {
		sec.RowIDs = remove(sec.RowIDs, r.ID)
	}
	r.GroupID = ""
	r.GroupOffsetX = 0
}

// deleteRow removes a row and the items it holds.
func (s *Store) deleteRow(id string) {
	r, ok := s.rows[id]
	if !ok {
		return
	}
	for _, itemID := range slices.Clone(r.ItemIDs) {
		s.deleteItem(itemID)
	}
	s.detachRow(r)
	delete(s.rows, id)
	s.rowOrder = remove(s.rowOrder, id)
	s.forget(id)
}

// deleteSection removes a section, keeping its rows as standalone rows.
func (s *Store) deleteSection(id string) {
	sec, ok := s.sections[id]
	if !ok {
		return
	}
	for _, rowID := range slices.Clone(sec.RowIDs) {
		if r, ok := s.rows[rowID]; ok {
			s.detachRow(r)
		}
	}
	delete(s.sections, id)
	s.sectionOrder = remove(s.sectionOrder, id)
	s.forget(id)
}

func (s *Store) deleteText(id string) {
	delete(s.texts, id)
	s.textOrder = remove(s.textOrder, id)
	s.forget(id)
}

// forget purges an id from selection and drag sessions.
func (s *Store) forget(id string) {
	s.selection = remove(s.selection, id)
	for ch, d := range s.drags {
		if d.id == id {
			delete(s.drags, ch)
		}
	}
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}

// insertAt inserts id at index, appending when index is out of range.
func insertAt(ids []string, id string, index int) []string {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	return slices.Insert(ids, index, id)
}

// clampIndex clamps index into [0, n].
func clampIndex(index, n int) int {
	return min(max(index, 0), n)
}
