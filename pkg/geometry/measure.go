package geometry

import (
	"errors"
	"fmt"
)

// ErrNotMeasured is returned when a provider holds no rows for a container.
var ErrNotMeasured = errors.New("container not measured")

// Kind tags a measured element.
type Kind string

// Measured element kinds.
const (
	KindRow  Kind = "row"
	KindItem Kind = "item"
)

// Measurement is one element box reported by the presentation layer.
// Item measurements name their containing row in Parent, row measurements
// their section.
type Measurement struct {
	Kind   Kind   `json:"kind"`
	ID     string `json:"id"`
	Parent string `json:"parent,omitempty"`
	Rect   Rect   `json:"rect"`
}

// RowMeasurement is a row container together with its item boxes.
type RowMeasurement struct {
	ID        string `json:"id"`
	Container Rect   `json:"container"`
	Items     []Rect `json:"items,omitempty"`
}

// Provider returns the measured descendants of a rendered container.
type Provider interface {
	Measure(containerID string) ([]Measurement, error)
}

// Measurements is a flat list of boxes, such as one render pass dumped to a
// file, serving as a [Provider].
type Measurements []Measurement

// Measure returns the rows whose Parent is containerID followed by their
// items. An empty containerID selects everything.
func (ms Measurements) Measure(containerID string) ([]Measurement, error) {
	if containerID == "" {
		return ms, nil
	}
	rows := make(map[string]bool)
	var out []Measurement
	for _, m := range ms {
		if m.Kind == KindRow && m.Parent == containerID {
			rows[m.ID] = true
			out = append(out, m)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotMeasured, containerID)
	}
	for _, m := range ms {
		if m.Kind == KindItem && rows[m.Parent] {
			out = append(out, m)
		}
	}
	return out, nil
}

// DeriveFrom measures containerID through p and derives its contour.
func DeriveFrom(p Provider, containerID string, origin Point, opts Options) (Contour, error) {
	ms, err := p.Measure(containerID)
	if err != nil {
		return Contour{}, err
	}
	return Derive(origin, Group(ms), opts), nil
}

// Group folds flat measurements into rows, keeping the order in which rows
// first appear. Items whose parent row was not measured are dropped.
func Group(ms []Measurement) []RowMeasurement {
	index := make(map[string]int)
	var rows []RowMeasurement
	for _, m := range ms {
		if m.Kind != KindRow {
			continue
		}
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(rows)
		rows = append(rows, RowMeasurement{ID: m.ID, Container: m.Rect})
	}
	for _, m := range ms {
		if m.Kind != KindItem {
			continue
		}
		if i, ok := index[m.Parent]; ok {
			rows[i].Items = append(rows[i].Items, m.Rect)
		}
	}
	return rows
}
