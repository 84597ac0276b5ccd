// Package diagram renders the hierarchy of a field layout as a node-link
// diagram.
//
// # Overview
//
// The layout editor shows sections, rows and trackers spatially. This
// package shows the same document as a tree: the field at the root,
// sections and standalone rows below it, trackers below their rows and
// loose trackers attached with dashed edges. It is useful for reviewing
// imported documents and for spotting empty or orphaned containers.
//
// # Usage
//
//	dot := diagram.ToDOT(doc, diagram.Options{Detailed: true})
//	svg, err := diagram.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. No external binaries are required.
package diagram
