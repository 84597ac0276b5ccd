// Package render groups the visual outputs derived from a field layout.
//
// The editor itself draws the layout; renderers here produce standalone
// artifacts for review and export:
//
//   - Hierarchy diagrams (in [diagram] subpackage) show sections, rows and
//     trackers as a Graphviz tree.
//
// Section outlines are not rendered here. They are derived geometry, see
// [github.com/matzehuels/trackmap/pkg/geometry].
//
// [diagram]: github.com/matzehuels/trackmap/pkg/render/diagram
package render
