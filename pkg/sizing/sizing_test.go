package sizing

import "testing"

func TestItemHeight(t *testing.T) {
	m := Default()
	tests := []struct {
		stakes int
		want   float64
	}{
		{0, DefaultItemFootprint},
		{-1, DefaultItemFootprint},
		{1, 32},
		{2, 54},
		{4, 98},
	}
	for _, tt := range tests {
		if got := m.ItemHeight(tt.stakes); got != tt.want {
			t.Errorf("ItemHeight(%d) = %v, want %v", tt.stakes, got, tt.want)
		}
	}
}

func TestItemHeightWithOverride(t *testing.T) {
	m := Default()
	if got := m.ItemHeightWithOverride(4, 150); got != 150 {
		t.Errorf("override = %v, want 150", got)
	}
	if got := m.ItemHeightWithOverride(4, 0); got != 98 {
		t.Errorf("no override = %v, want 98", got)
	}
}

func TestRowHeight(t *testing.T) {
	m := Default()

	if got := m.RowHeight(nil); got != m.MinRowHeight {
		t.Errorf("empty row = %v, want %v", got, m.MinRowHeight)
	}

	want := m.ItemHeight(4) + m.RowHeaderHeight + 2*m.Padding
	if got := m.RowHeight([]float64{m.ItemHeight(2), m.ItemHeight(4)}); got != want {
		t.Errorf("RowHeight = %v, want %v", got, want)
	}

	// A single short item is floored at the minimum.
	small := Metrics{DefaultItemHeight: 10, MinRowHeight: 80}
	if got := small.RowHeight([]float64{10}); got != 80 {
		t.Errorf("floored RowHeight = %v, want 80", got)
	}
}

func TestRowWidth(t *testing.T) {
	m := Default()
	tests := []struct {
		n    int
		want float64
	}{
		{0, m.MinRowWidth},
		{1, 60}, // 40 + 16 = 56, floored
		{2, 106},
		{3, 156},
	}
	for _, tt := range tests {
		if got := m.RowWidth(tt.n); got != tt.want {
			t.Errorf("RowWidth(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestSectionSize(t *testing.T) {
	m := Default()

	w, h := m.SectionSize(nil)
	if w != m.MinSectionWidth || h != m.MinSectionHeight {
		t.Errorf("empty section = %vx%v", w, h)
	}

	w, h = m.SectionSize([]RowSize{
		{OffsetX: 0, Width: 106, Height: 100},
		{OffsetX: 40, Width: 106, Height: 120},
	})
	if w != 146 {
		t.Errorf("width = %v, want 146", w)
	}
	if h != m.SectionHeader+220 {
		t.Errorf("height = %v, want %v", h, m.SectionHeader+220)
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		v, unit, want float64
	}{
		{0, 30, 0},
		{14, 30, 0},
		{16, 30, 30},
		{-8, 30, 0},
		{-16, 30, -30},
		{47, 0, 47},
		{47, -5, 47},
		{95, 30, 90},
	}
	for _, tt := range tests {
		if got := Snap(tt.v, tt.unit); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.unit, got, tt.want)
		}
	}
}

func TestFromSettings(t *testing.T) {
	m := FromSettings(50, 0, 4, 0, 3)
	if m.TrackerWidth != 50 || m.Gap != DefaultGap || m.Padding != 4 || m.StakeSize != DefaultStakeSize || m.StakeGap != 3 {
		t.Errorf("FromSettings() = %+v", m)
	}
}
