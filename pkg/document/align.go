package document

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Edge is the reference line of an alignment.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeCenter
	EdgeRight
	EdgeTop
	EdgeMiddle
	EdgeBottom
)

var edgeNames = []string{"left", "center", "right", "top", "middle", "bottom"}

// String returns the edge name.
func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return "unknown"
	}
	return edgeNames[e]
}

// ParseEdge returns the edge with the given name.
func ParseEdge(name string) (Edge, error) {
	if i := slices.Index(edgeNames, strings.ToLower(name)); i >= 0 {
		return Edge(i), nil
	}
	return 0, fmt.Errorf("unknown edge %q (want one of %s)", name, strings.Join(edgeNames, ", "))
}

// Axis is the direction of a distribution.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// String returns the axis name.
func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseAxis accepts "horizontal"/"x" and "vertical"/"y".
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "horizontal", "x", "h":
		return AxisHorizontal, nil
	case "vertical", "y", "v":
		return AxisVertical, nil
	}
	return 0, fmt.Errorf("unknown axis %q", name)
}

// box is the footprint of a selected top-level entity.
type box struct {
	id         string
	kind       Kind
	x, y, w, h float64
}

type placement struct {
	box
	toX, toY float64
}

// selectedBoxes returns the selection split by kind: loose items,
// standalone rows and sections. Parented items, grouped rows and texts do
// not take part in batch geometry.
func (s *Store) selectedBoxes() [][]box {
	var items, rows, sections []box
	for _, id := range s.selection {
		switch s.KindOf(id) {
		case KindItem:
			if it := s.items[id]; s.isLoose(id) {
				items = append(items, box{id, KindItem, it.X, it.Y, s.metrics.TrackerWidth, s.ItemHeight(id)})
			}
		case KindRow:
			if r := s.rows[id]; r.GroupID == "" {
				rows = append(rows, box{id, KindRow, r.X, r.Y, s.RowWidth(id), s.RowHeight(id)})
			}
		case KindSection:
			sec := s.sections[id]
			w, h := s.SectionSize(id)
			sections = append(sections, box{id, KindSection, sec.X, sec.Y, w, h})
		}
	}
	return [][]box{items, rows, sections}
}

// AlignSelected aligns each kind of selected entity on edge, independently
// of the other kinds. Aligned coordinates are snapped to the grid. Kinds
// with fewer than two selected entities are left alone.
func (s *Store) AlignSelected(edge Edge) bool {
	var plan []placement
	for _, group := range s.selectedBoxes() {
		if len(group) < 2 {
			continue
		}
		left, top := math.Inf(1), math.Inf(1)
		right, bottom := math.Inf(-1), math.Inf(-1)
		for _, b := range group {
			left, top = math.Min(left, b.x), math.Min(top, b.y)
			right, bottom = math.Max(right, b.x+b.w), math.Max(bottom, b.y+b.h)
		}
		for _, b := range group {
			p := placement{box: b, toX: b.x, toY: b.y}
			switch edge {
			case EdgeLeft:
				p.toX = s.snap(left)
			case EdgeCenter:
				p.toX = s.snap((left+right)/2 - b.w/2)
			case EdgeRight:
				p.toX = s.snap(right - b.w)
			case EdgeTop:
				p.toY = s.snap(top)
			case EdgeMiddle:
				p.toY = s.snap((top+bottom)/2 - b.h/2)
			case EdgeBottom:
				p.toY = s.snap(bottom - b.h)
			}
			plan = append(plan, p)
		}
	}
	return s.apply("align-"+edge.String(), plan)
}

// DistributeSelected spaces each kind of selected entity evenly along axis
// between the first and the last of them. Kinds with fewer than three
// selected entities are left alone.
func (s *Store) DistributeSelected(axis Axis) bool {
	var plan []placement
	for _, group := range s.selectedBoxes() {
		if len(group) < 3 {
			continue
		}
		pos := func(b box) float64 { return b.x }
		size := func(b box) float64 { return b.w }
		if axis == AxisVertical {
			pos = func(b box) float64 { return b.y }
			size = func(b box) float64 { return b.h }
		}
		slices.SortStableFunc(group, func(a, b box) int { return cmp.Compare(pos(a), pos(b)) })

		first, last := group[0], group[len(group)-1]
		span := pos(last) + size(last) - pos(first)
		total := 0.0
		for _, b := range group {
			total += size(b)
		}
		gap := (span - total) / float64(len(group)-1)

		cursor := pos(first)
		for _, b := range group {
			p := placement{box: b, toX: b.x, toY: b.y}
			if axis == AxisVertical {
				p.toY = s.snap(cursor)
			} else {
				p.toX = s.snap(cursor)
			}
			plan = append(plan, p)
			cursor += size(b) + gap
		}
	}
	return s.apply("distribute-"+axis.String(), plan)
}

// apply moves every planned entity, recording one history entry when
// anything actually moves.
func (s *Store) apply(op string, plan []placement) bool {
	moved := slices.ContainsFunc(plan, func(p placement) bool { return p.toX != p.x || p.toY != p.y })
	if !moved {
		return false
	}
	s.checkpoint(op)
	for _, p := range plan {
		s.moveTo(p.kind, p.id, p.toX, p.toY)
	}
	return true
}

// moveTo places a top-level entity. Sections carry their rows along.
func (s *Store) moveTo(kind Kind, id string, x, y float64) {
	switch kind {
	case KindItem:
		it := s.items[id]
		it.X, it.Y = x, y
	case KindRow:
		r := s.rows[id]
		r.X, r.Y = x, y
	case KindSection:
		sec := s.sections[id]
		dx, dy := x-sec.X, y-sec.Y
		sec.X, sec.Y = x, y
		for _, rowID := range sec.RowIDs {
			r := s.rows[rowID]
			r.X, r.Y = r.X+dx, r.Y+dy
		}
	case KindText:
		t := s.texts[id]
		t.X, t.Y = x, y
	}
}
