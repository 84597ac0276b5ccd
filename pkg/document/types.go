package document

import (
	"slices"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// Kind identifies the table an entity lives in.
type Kind int

const (
	// KindNone is returned for ids that resolve to nothing.
	KindNone Kind = iota
	KindItem
	KindRow
	KindSection
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindRow:
		return "row"
	case KindSection:
		return "section"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Ext is the catalog metadata of an item.
type Ext = payload.Ext

// Item is a tracker. X and Y are only meaningful while the item is loose;
// RowY is only meaningful while it is parented.
type Item struct {
	ID             string
	RemoteID       int64
	Type           string
	Title          string
	X, Y           float64
	RowY           float64
	Ext            *Ext
	Height         float64 // explicit override, 0 derives from stakes
	StakeStatusIDs []*int
}

// Stakes returns the stake count from the item metadata.
func (it Item) Stakes() int {
	if it.Ext == nil {
		return 0
	}
	return it.Ext.StakeCount
}

func (it *Item) clone() *Item {
	c := *it
	if it.Ext != nil {
		ext := *it.Ext
		c.Ext = &ext
	}
	c.StakeStatusIDs = cloneStatuses(it.StakeStatusIDs)
	return &c
}

// Row is an ordered line of items. X and Y are absolute even while the row
// belongs to a section; GroupOffsetX positions it inside the section.
type Row struct {
	ID           string
	RemoteID     int64
	ItemIDs      []string
	X, Y         float64
	GroupID      string
	GroupOffsetX float64
	Finalized    bool
	ContourPath  string
	Number       int
}

func (r *Row) clone() *Row {
	c := *r
	c.ItemIDs = slices.Clone(r.ItemIDs)
	return &c
}

// Section is an ordered stack of rows.
type Section struct {
	ID          string
	RemoteID    int64
	Name        string
	RowIDs      []string
	X, Y        float64
	Number      int
	Finalized   bool
	ContourPath string
}

func (s *Section) clone() *Section {
	c := *s
	c.RowIDs = slices.Clone(s.RowIDs)
	return &c
}

// TextStyle holds the presentation attributes of a text annotation.
type TextStyle struct {
	FontSize       float64
	Color          string
	FontWeight     string
	FontStyle      string
	TextDecoration string
	TextAlign      string
}

// DefaultTextStyle returns the style of a freshly placed annotation.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize:       16,
		Color:          "#000000",
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
		TextAlign:      "left",
	}
}

func (ts TextStyle) withDefaults() TextStyle {
	d := DefaultTextStyle()
	if ts.FontSize <= 0 {
		ts.FontSize = d.FontSize
	}
	if ts.Color == "" {
		ts.Color = d.Color
	}
	if ts.FontWeight == "" {
		ts.FontWeight = d.FontWeight
	}
	if ts.FontStyle == "" {
		ts.FontStyle = d.FontStyle
	}
	if ts.TextDecoration == "" {
		ts.TextDecoration = d.TextDecoration
	}
	if ts.TextAlign == "" {
		ts.TextAlign = d.TextAlign
	}
	return ts
}

// Text is a free annotation on the canvas.
type Text struct {
	ID   string
	X, Y float64
	Text string
	TextStyle
}

// ItemSpec describes an item to create.
type ItemSpec struct {
	Type   string
	Title  string
	Ext    *Ext
	Height float64
}

// View is the canvas transform. It is not part of the document and never
// enters history.
type View struct {
	Zoom float64
	PanX float64
	PanY float64
}

// Stats summarises the document and its history.
type Stats struct {
	Sections    int
	Rows        int
	GroupedRows int
	Items       int
	LooseItems  int
	Texts       int
	Selected    int
	Undo        int
	Redo        int
}

func cloneStatuses(s []*int) []*int {
	if s == nil {
		return nil
	}
	out := make([]*int, len(s))
	for i, v := range s {
		if v != nil {
			n := *v
			out[i] = &n
		}
	}
	return out
}

// resizeStatuses returns s truncated or padded with nil entries to n.
func resizeStatuses(s []*int, n int) []*int {
	if n < 0 {
		n = 0
	}
	out := make([]*int, n)
	copy(out, s)
	return out
}
