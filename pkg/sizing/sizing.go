// Package sizing computes the footprint of items, rows and sections.
//
// Item height depends on the number of stakes mounted on the tracker, so
// nothing in this package is cached on the entities themselves: callers
// recompute sizes on every structural query. All functions are pure and
// parameterised by a [Metrics] value, usually derived from the document
// settings via [FromSettings].
//
// # Item height
//
//	ItemHeight(0) = DefaultItemHeight
//	ItemHeight(n) = ItemHeaderHeight + n*(StakeSize+StakeGap)
//
// With the default metrics ItemHeight(4) is 10 + 4*(20+2) = 98.
//
// # Row height
//
// A row is as tall as its tallest item plus the row header and the
// container padding (top and bottom), never less than MinRowHeight.
package sizing

import "math"

// Default metric values.
const (
	DefaultItemHeaderHeight = 10.0
	DefaultStakeSize        = 20.0
	DefaultStakeGap         = 2.0
	DefaultItemFootprint    = 60.0
	DefaultTrackerWidth     = 40.0
	DefaultGap              = 10.0
	DefaultPadding          = 8.0
	DefaultRowHeaderHeight  = 24.0
	DefaultMinRowHeight     = 80.0
	DefaultMinRowWidth      = 60.0
	DefaultSectionHeader    = 28.0
	DefaultMinSectionWidth  = 60.0
	DefaultMinSectionHeight = 80.0
	DefaultContourPadding   = 10.0
	DefaultGridSize         = 30.0
)

// Metrics holds the dimensional constants used by all calculators.
type Metrics struct {
	ItemHeaderHeight  float64
	StakeSize         float64
	StakeGap          float64
	DefaultItemHeight float64
	TrackerWidth      float64
	Gap               float64
	Padding           float64
	RowHeaderHeight   float64
	MinRowHeight      float64
	MinRowWidth       float64
	SectionHeader     float64
	MinSectionWidth   float64
	MinSectionHeight  float64
}

// Default returns the stock metrics.
func Default() Metrics {
	return Metrics{
		ItemHeaderHeight:  DefaultItemHeaderHeight,
		StakeSize:         DefaultStakeSize,
		StakeGap:          DefaultStakeGap,
		DefaultItemHeight: DefaultItemFootprint,
		TrackerWidth:      DefaultTrackerWidth,
		Gap:               DefaultGap,
		Padding:           DefaultPadding,
		RowHeaderHeight:   DefaultRowHeaderHeight,
		MinRowHeight:      DefaultMinRowHeight,
		MinRowWidth:       DefaultMinRowWidth,
		SectionHeader:     DefaultSectionHeader,
		MinSectionWidth:   DefaultMinSectionWidth,
		MinSectionHeight:  DefaultMinSectionHeight,
	}
}

// FromSettings overlays the document-level settings on the default metrics.
// Zero values keep the defaults.
func FromSettings(trackerWidth, gap, padding, stakeSize, stakeGap float64) Metrics {
	m := Default()
	if trackerWidth > 0 {
		m.TrackerWidth = trackerWidth
	}
	if gap > 0 {
		m.Gap = gap
	}
	if padding > 0 {
		m.Padding = padding
	}
	if stakeSize > 0 {
		m.StakeSize = stakeSize
	}
	if stakeGap > 0 {
		m.StakeGap = stakeGap
	}
	return m
}

// ItemHeight returns the height of an item carrying the given number of stakes.
func (m Metrics) ItemHeight(stakes int) float64 {
	if stakes <= 0 {
		return m.DefaultItemHeight
	}
	return m.ItemHeaderHeight + float64(stakes)*(m.StakeSize+m.StakeGap)
}

// ItemHeightWithOverride returns override when it is positive, otherwise the
// stake-derived height.
func (m Metrics) ItemHeightWithOverride(stakes int, override float64) float64 {
	if override > 0 {
		return override
	}
	return m.ItemHeight(stakes)
}

// RowHeight returns the height of a row whose items have the given heights.
func (m Metrics) RowHeight(itemHeights []float64) float64 {
	if len(itemHeights) == 0 {
		return m.MinRowHeight
	}
	tallest := 0.0
	for _, h := range itemHeights {
		tallest = math.Max(tallest, h)
	}
	return math.Max(tallest+m.RowHeaderHeight+2*m.Padding, m.MinRowHeight)
}

// RowWidth returns the width of a row holding n items.
func (m Metrics) RowWidth(n int) float64 {
	if n <= 0 {
		return m.MinRowWidth
	}
	w := float64(n)*m.TrackerWidth + float64(n-1)*m.Gap + 2*m.Padding
	return math.Max(w, m.MinRowWidth)
}

// RowSize is the footprint of one row inside a section.
type RowSize struct {
	OffsetX float64
	Width   float64
	Height  float64
}

// SectionSize returns the width and height of a section stacking rows top to
// bottom. Width is measured from the section origin, so negative offsets do
// not widen the section.
func (m Metrics) SectionSize(rows []RowSize) (width, height float64) {
	height = m.SectionHeader
	for _, r := range rows {
		width = math.Max(width, r.OffsetX+r.Width)
		height += r.Height
	}
	return math.Max(width, m.MinSectionWidth), math.Max(height, m.MinSectionHeight)
}

// Snap rounds v to the nearest multiple of unit. A non-positive unit disables
// snapping.
func Snap(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	s := math.Round(v/unit) * unit
	if s == 0 {
		return 0 // normalise -0
	}
	return s
}
