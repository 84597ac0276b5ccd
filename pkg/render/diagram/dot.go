package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Detailed adds positions, stake counts and backend ids to labels.
	// When false, only names and titles are shown.
	Detailed bool
	// Texts includes text annotations as detached notes.
	Texts bool
	// Direction is the Graphviz rankdir. Defaults to "LR".
	Direction string
}

// ToDOT converts a field layout to Graphviz DOT. The field is the root,
// sections and standalone rows hang off it, trackers hang off their rows
// and loose trackers hang off the root with dashed edges.
//
// Node names are prefixed with the entity kind so ids shared across kinds
// in foreign documents cannot collide.
func ToDOT(doc payload.Document, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph field {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	c := doc.Counts()
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=\"#eef2ff\"];\n", rootNode,
		fmt.Sprintf("field\n%d sections, %d rows, %d trackers", c.Sections, c.Rows, c.Trackers+c.Loose))

	for _, g := range doc.Groups {
		sec := node("section", g.ID)
		fmt.Fprintf(&buf, "  %q [%s];\n", sec, strings.Join(sectionAttrs(g, opts.Detailed), ", "))
		fmt.Fprintf(&buf, "  %q -> %q;\n", rootNode, sec)
		for _, r := range g.Rows {
			writeRow(&buf, sec, r, opts.Detailed)
		}
	}
	for _, r := range doc.StandaloneRows {
		writeRow(&buf, rootNode, r, opts.Detailed)
	}
	for _, l := range doc.Loose {
		n := node("loose", l.ID)
		label := trackerLabel(l.Title, l.ID, l.Ext, l.RemoteID, opts.Detailed)
		if opts.Detailed {
			label += fmt.Sprintf("\n(%s, %s)", fmtNum(l.X), fmtNum(l.Y))
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#fff7e6\"];\n", n, label)
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", rootNode, n)
	}
	if opts.Texts {
		for _, t := range doc.TextElements {
			fmt.Fprintf(&buf, "  %q [label=%q, shape=note, fillcolor=\"#fffde7\"];\n", node("text", t.ID), t.Text)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

const rootNode = "field"

func node(kind string, id payload.ID) string {
	return kind + ":" + string(id)
}

func writeRow(buf *bytes.Buffer, parent string, r payload.Row, detailed bool) {
	n := node("row", r.ID)
	label := fmt.Sprintf("Row %d", r.RowNumber)
	if detailed {
		label += "\n" + idLine(r.ID, r.RemoteID)
		label += fmt.Sprintf("\n(%s, %s)", fmtNum(r.X), fmtNum(r.Y))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if r.IsFinalized {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	fmt.Fprintf(buf, "  %q [%s];\n", n, strings.Join(attrs, ", "))
	fmt.Fprintf(buf, "  %q -> %q;\n", parent, n)

	for _, t := range r.Trackers {
		tn := node("tracker", t.ID)
		label := trackerLabel(t.Title, t.ID, t.Ext, t.RemoteID, detailed)
		if detailed {
			label += fmt.Sprintf("\nposition %d", t.Position)
		}
		fmt.Fprintf(buf, "  %q [label=%q, shape=box, style=filled, fillcolor=\"#e8f5e9\"];\n", tn, label)
		fmt.Fprintf(buf, "  %q -> %q;\n", n, tn)
	}
}

func sectionAttrs(g payload.Group, detailed bool) []string {
	label := g.Name
	if label == "" {
		label = fmt.Sprintf("Section %d", g.SectionNumber)
	}
	if detailed {
		label += "\n" + idLine(g.ID, g.RemoteID)
		label += fmt.Sprintf("\n(%s, %s)", fmtNum(g.X), fmtNum(g.Y))
	}
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=box3d"}
	if g.IsFinalized {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func trackerLabel(title string, id payload.ID, ext *payload.Ext, remote int64, detailed bool) string {
	label := title
	if label == "" {
		label = string(id)
	}
	if !detailed {
		return label
	}
	label += "\n" + idLine(id, remote)
	if ext != nil {
		label += fmt.Sprintf("\n%d stakes", ext.StakeCount)
		if ext.Category != "" {
			label += " " + ext.Category
		}
	}
	return label
}

func idLine(id payload.ID, remote int64) string {
	if remote != 0 {
		return fmt.Sprintf("id %s, remote %d", id, remote)
	}
	return "id " + string(id)
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
