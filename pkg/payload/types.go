package payload

import "github.com/matzehuels/trackmap/pkg/sizing"

// =============================================================================
// Document - Canonical Field Layout
// =============================================================================

// Document is the canonical serialization of a field layout: sections
// holding ordered rows holding ordered trackers, plus independent lists for
// rows outside any section, loose trackers and text annotations.
type Document struct {
	Groups         []Group        `json:"groups" bson:"groups"`
	StandaloneRows []Row          `json:"standaloneRows" bson:"standalone_rows"`
	Loose          []LooseTracker `json:"loose" bson:"loose"`
	TextElements   []TextElement  `json:"textElements" bson:"text_elements"`
	Settings       Settings       `json:"settings" bson:"settings"`
}

// Group is a section: an ordered vertical stack of rows.
type Group struct {
	ID            ID      `json:"id" bson:"id"`
	RemoteID      int64   `json:"remoteId,omitempty" bson:"remote_id,omitempty"`
	Name          string  `json:"name" bson:"name"`
	X             float64 `json:"x" bson:"x"`
	Y             float64 `json:"y" bson:"y"`
	IsFinalized   bool    `json:"isFinalized" bson:"is_finalized"`
	ContourPath   string  `json:"contourPath,omitempty" bson:"contour_path,omitempty"`
	SectionNumber int     `json:"section_number" bson:"section_number"`
	Rows          []Row   `json:"rows" bson:"rows"`
}

// Row is an ordered horizontal line of trackers. GroupOffsetX is only
// meaningful for rows nested in a Group.
type Row struct {
	ID           ID        `json:"id" bson:"id"`
	RemoteID     int64     `json:"remoteId,omitempty" bson:"remote_id,omitempty"`
	X            float64   `json:"x" bson:"x"`
	Y            float64   `json:"y" bson:"y"`
	RowNumber    int       `json:"row_number" bson:"row_number"`
	GroupOffsetX float64   `json:"groupOffsetX,omitempty" bson:"group_offset_x,omitempty"`
	IsFinalized  bool      `json:"isFinalized" bson:"is_finalized"`
	ContourPath  string    `json:"contourPath,omitempty" bson:"contour_path,omitempty"`
	Trackers     []Tracker `json:"trackers" bson:"trackers"`
}

// Tracker is a tracker placed inside a row. Position is its index in the row.
type Tracker struct {
	ID             ID      `json:"id" bson:"id"`
	RemoteID       int64   `json:"remoteId,omitempty" bson:"remote_id,omitempty"`
	Type           string  `json:"type" bson:"type"`
	Title          string  `json:"title" bson:"title"`
	RowY           float64 `json:"rowY" bson:"row_y"`
	Height         float64 `json:"height,omitempty" bson:"height,omitempty"`
	Ext            *Ext    `json:"ext,omitempty" bson:"ext,omitempty"`
	StakeStatusIDs []*int  `json:"stakeStatusIds" bson:"stake_status_ids"`
	Position       int     `json:"position" bson:"position"`
}

// LooseTracker is a tracker placed directly on the canvas.
type LooseTracker struct {
	ID             ID      `json:"id" bson:"id"`
	RemoteID       int64   `json:"remoteId,omitempty" bson:"remote_id,omitempty"`
	Type           string  `json:"type" bson:"type"`
	Title          string  `json:"title" bson:"title"`
	X              float64 `json:"x" bson:"x"`
	Y              float64 `json:"y" bson:"y"`
	Height         float64 `json:"height,omitempty" bson:"height,omitempty"`
	Ext            *Ext    `json:"ext,omitempty" bson:"ext,omitempty"`
	StakeStatusIDs []*int  `json:"stakeStatusIds" bson:"stake_status_ids"`
}

// Ext is the catalog metadata of a tracker.
type Ext struct {
	StakeCount     int    `json:"stakeCount" bson:"stake_count"`
	ModuleCapacity int    `json:"moduleCapacity,omitempty" bson:"module_capacity,omitempty"`
	Category       string `json:"category,omitempty" bson:"category,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
}

// TextElement is a free text annotation.
type TextElement struct {
	ID             ID      `json:"id" bson:"id"`
	X              float64 `json:"x" bson:"x"`
	Y              float64 `json:"y" bson:"y"`
	Text           string  `json:"text" bson:"text"`
	FontSize       float64 `json:"fontSize" bson:"font_size"`
	Color          string  `json:"color" bson:"color"`
	FontWeight     string  `json:"fontWeight" bson:"font_weight"`
	FontStyle      string  `json:"fontStyle" bson:"font_style"`
	TextDecoration string  `json:"textDecoration" bson:"text_decoration"`
	TextAlign      string  `json:"textAlign" bson:"text_align"`
}

// Settings carries the dimensional settings the layout was drawn with.
type Settings struct {
	TrackerWidth   float64 `json:"trackerWidth" bson:"tracker_width"`
	Gap            float64 `json:"gap" bson:"gap"`
	Padding        float64 `json:"padding" bson:"padding"`
	ContourPadding float64 `json:"contourPadding" bson:"contour_padding"`
	StakeSize      float64 `json:"stakeSize" bson:"stake_size"`
	StakeGap       float64 `json:"stakeGap" bson:"stake_gap"`
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{
		TrackerWidth:   sizing.DefaultTrackerWidth,
		Gap:            sizing.DefaultGap,
		Padding:        sizing.DefaultPadding,
		ContourPadding: sizing.DefaultContourPadding,
		StakeSize:      sizing.DefaultStakeSize,
		StakeGap:       sizing.DefaultStakeGap,
	}
}

// WithDefaults fills zero settings from [DefaultSettings].
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.TrackerWidth <= 0 {
		s.TrackerWidth = d.TrackerWidth
	}
	if s.Gap <= 0 {
		s.Gap = d.Gap
	}
	if s.Padding <= 0 {
		s.Padding = d.Padding
	}
	if s.ContourPadding <= 0 {
		s.ContourPadding = d.ContourPadding
	}
	if s.StakeSize <= 0 {
		s.StakeSize = d.StakeSize
	}
	if s.StakeGap <= 0 {
		s.StakeGap = d.StakeGap
	}
	return s
}

// Metrics returns the size calculators matching these settings.
func (s Settings) Metrics() sizing.Metrics {
	return sizing.FromSettings(s.TrackerWidth, s.Gap, s.Padding, s.StakeSize, s.StakeGap)
}

// =============================================================================
// Helpers
// =============================================================================

// Counts summarises the number of entities in a document.
type Counts struct {
	Sections int
	Rows     int
	Trackers int
	Loose    int
	Texts    int
}

// Total returns the number of entities of every kind.
func (c Counts) Total() int {
	return c.Sections + c.Rows + c.Trackers + c.Loose + c.Texts
}

// Counts returns entity counts for the document.
func (d Document) Counts() Counts {
	c := Counts{
		Sections: len(d.Groups),
		Loose:    len(d.Loose),
		Texts:    len(d.TextElements),
	}
	count := func(rows []Row) {
		for _, r := range rows {
			c.Rows++
			c.Trackers += len(r.Trackers)
		}
	}
	for _, g := range d.Groups {
		count(g.Rows)
	}
	count(d.StandaloneRows)
	return c
}

// Normalized returns a copy of the document with nil slices replaced by
// empty ones and zero settings defaulted, so the JSON form never carries
// null lists.
func (d Document) Normalized() Document {
	out := d
	out.Settings = d.Settings.WithDefaults()
	out.Groups = make([]Group, len(d.Groups))
	for i, g := range d.Groups {
		g.Rows = normalizeRows(g.Rows)
		out.Groups[i] = g
	}
	out.StandaloneRows = normalizeRows(d.StandaloneRows)
	out.Loose = make([]LooseTracker, len(d.Loose))
	for i, l := range d.Loose {
		if l.StakeStatusIDs == nil {
			l.StakeStatusIDs = []*int{}
		}
		out.Loose[i] = l
	}
	out.TextElements = append([]TextElement{}, d.TextElements...)
	return out
}

func normalizeRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		trackers := make([]Tracker, len(r.Trackers))
		for j, t := range r.Trackers {
			if t.StakeStatusIDs == nil {
				t.StakeStatusIDs = []*int{}
			}
			trackers[j] = t
		}
		r.Trackers = trackers
		out[i] = r
	}
	return out
}
