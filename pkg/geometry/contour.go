package geometry

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/trackmap/pkg/sizing"
)

// Default contour options.
const (
	DefaultRightAllowance = 8.0
	DefaultMinWidth       = 60.0
	DefaultMinHeight      = 80.0
)

// Options controls contour derivation.
type Options struct {
	// Margin is added around the union of a row's items. The top margin is
	// only applied to the first row and the bottom margin only to the last.
	Margin float64
	// RightAllowance keeps room for the row removal affordance.
	RightAllowance float64
	// MinWidth and MinHeight floor the derived section dimensions so empty
	// sections stay visible and hit-testable.
	MinWidth  float64
	MinHeight float64
}

// DefaultOptions returns the stock contour options.
func DefaultOptions() Options {
	return Options{
		Margin:         sizing.DefaultContourPadding,
		RightAllowance: DefaultRightAllowance,
		MinWidth:       DefaultMinWidth,
		MinHeight:      DefaultMinHeight,
	}
}

// Box is the derived footprint of one row.
type Box struct {
	RowID string `json:"row_id"`
	Rect
}

// Contour is the derived outline of a section.
type Contour struct {
	Rows   []Box   `json:"rows"`
	Path   string  `json:"path"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RowBoxes computes one box per row, ordered top to bottom.
//
// A row without items keeps its own container rectangle. Otherwise the box
// is the union of the item rectangles grown by the margin on the left and
// right (plus the right allowance), on the top for the first row only and on
// the bottom for the last row only. All coordinates land on the half-pixel
// grid.
func RowBoxes(rows []RowMeasurement, opts Options) []Box {
	if len(rows) == 0 {
		return nil
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b RowMeasurement) int {
		return cmpFloat(a.Container.Top, b.Container.Top)
	})

	last := len(sorted) - 1
	boxes := make([]Box, 0, len(sorted))
	for i, row := range sorted {
		r := row.Container
		if u, ok := BoundingBox(row.Items); ok {
			r = Rect{
				Left:   u.Left - opts.Margin,
				Top:    u.Top,
				Right:  u.Right + opts.Margin + opts.RightAllowance,
				Bottom: u.Bottom,
			}
			if i == 0 {
				r.Top -= opts.Margin
			}
			if i == last {
				r.Bottom += opts.Margin
			}
		}
		boxes = append(boxes, Box{
			RowID: row.ID,
			Rect: Rect{
				Left:   pixel(r.Left),
				Top:    pixel(r.Top),
				Right:  pixel(r.Right),
				Bottom: pixel(r.Bottom),
			},
		})
	}
	return boxes
}

// ContourPath returns a closed SVG path hugging boxes of differing widths.
//
// The walk goes clockwise from the first row's top-left corner. It runs
// across that row's top edge first and only then descends the right side,
// stepping in or out at every row boundary, so the top edge is always part
// of the outline. It comes back along the bottom of the last row and climbs
// the left side in reverse row order. Repeated vertices are dropped. Boxes
// must be ordered top to bottom, as returned by [RowBoxes].
//
// For rows a and b the vertices are
//
//	a.TopLeft, a.TopRight, a.BottomRight, (a.Right, b.Top), b.TopRight,
//	b.BottomRight, b.BottomLeft, b.TopLeft, (a.Left, b.Top)
func ContourPath(boxes []Box) string {
	if len(boxes) == 0 {
		return ""
	}

	first := boxes[0]
	pts := []Point{{first.Left, first.Top}, {first.Right, first.Top}, {first.Right, first.Bottom}}
	for i := 1; i < len(boxes); i++ {
		prev, b := boxes[i-1], boxes[i]
		pts = append(pts,
			Point{prev.Right, b.Top},
			Point{b.Right, b.Top},
			Point{b.Right, b.Bottom},
		)
	}

	lastBox := boxes[len(boxes)-1]
	pts = append(pts, Point{lastBox.Left, lastBox.Bottom})
	for i := len(boxes) - 1; i >= 1; i-- {
		b, prev := boxes[i], boxes[i-1]
		pts = append(pts,
			Point{b.Left, b.Top},
			Point{prev.Left, b.Top},
		)
	}

	var sb strings.Builder
	var last Point
	for i, p := range pts {
		if i > 0 && p == last {
			continue
		}
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(fmtCoord(p.X))
		sb.WriteByte(' ')
		sb.WriteString(fmtCoord(p.Y))
		last = p
	}
	sb.WriteString(" Z")
	return sb.String()
}

// Dimensions returns the overall width and height spanned by boxes.
//
// When content sits left of the section origin (negative minimum left) the
// width runs from the origin to the rightmost edge only; the negative offset
// is not added. Both values are floored at the option minimums.
func Dimensions(boxes []Box, opts Options) (width, height float64) {
	if len(boxes) == 0 {
		return opts.MinWidth, opts.MinHeight
	}

	minLeft, minTop := math.Inf(1), math.Inf(1)
	maxRight, maxBottom := math.Inf(-1), math.Inf(-1)
	for _, b := range boxes {
		minLeft = math.Min(minLeft, b.Left)
		minTop = math.Min(minTop, b.Top)
		maxRight = math.Max(maxRight, b.Right)
		maxBottom = math.Max(maxBottom, b.Bottom)
	}

	if minLeft < 0 {
		width = math.Max(0, maxRight)
	} else {
		width = maxRight - minLeft
	}
	height = maxBottom - minTop

	return math.Max(width, opts.MinWidth), math.Max(height, opts.MinHeight)
}

// Derive recomputes a section's contour from measured rectangles. Rectangles
// are absolute; origin is the section's stored position. Callers invoke this
// after every render pass that touched the section.
func Derive(origin Point, rows []RowMeasurement, opts Options) Contour {
	local := make([]RowMeasurement, len(rows))
	for i, r := range rows {
		items := make([]Rect, len(r.Items))
		for j, it := range r.Items {
			items[j] = Normalize(it, origin)
		}
		local[i] = RowMeasurement{ID: r.ID, Container: Normalize(r.Container, origin), Items: items}
	}

	boxes := RowBoxes(local, opts)
	w, h := Dimensions(boxes, opts)
	return Contour{
		Rows:   boxes,
		Path:   ContourPath(boxes),
		Width:  w,
		Height: h,
	}
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
