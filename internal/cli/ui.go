package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/trackmap/pkg/payload"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleSection = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleRow     = lipgloss.NewStyle().Foreground(colorWhite)
	styleTracker = lipgloss.NewStyle().Foreground(colorGreen)
	styleLoose   = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Document Output
// =============================================================================

// printCounts prints entity counts on a single dimmed line.
func printCounts(w io.Writer, c payload.Counts) {
	parts := []string{
		fmt.Sprintf("%d sections", c.Sections),
		fmt.Sprintf("%d rows", c.Rows),
		fmt.Sprintf("%d trackers", c.Trackers),
		fmt.Sprintf("%d loose", c.Loose),
		fmt.Sprintf("%d texts", c.Texts),
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// layoutTree builds the section, row and tracker hierarchy of doc.
func layoutTree(doc payload.Document) *tree.Tree {
	root := tree.Root(StyleTitle.Render("field")).
		EnumeratorStyle(StyleDim)

	for _, g := range doc.Groups {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("Section %d", g.SectionNumber)
		}
		sec := tree.Root(styleSection.Render(name) + " " + StyleDim.Render(string(g.ID)))
		for _, r := range g.Rows {
			sec.Child(rowTree(r))
		}
		root.Child(sec)
	}
	for _, r := range doc.StandaloneRows {
		root.Child(rowTree(r))
	}
	for _, l := range doc.Loose {
		root.Child(styleLoose.Render(trackerName(l.Title, l.ID)) + " " + StyleDim.Render("loose"))
	}
	for _, t := range doc.TextElements {
		root.Child(StyleDim.Render(fmt.Sprintf("%q", t.Text)))
	}
	return root
}

func rowTree(r payload.Row) *tree.Tree {
	t := tree.Root(styleRow.Render(fmt.Sprintf("Row %d", r.RowNumber)) + " " + StyleDim.Render(string(r.ID)))
	for _, tr := range r.Trackers {
		label := styleTracker.Render(trackerName(tr.Title, tr.ID))
		if tr.Ext != nil && tr.Ext.StakeCount > 0 {
			label += " " + StyleDim.Render(fmt.Sprintf("%d stakes", tr.Ext.StakeCount))
		}
		t.Child(label)
	}
	return t
}

func trackerName(title string, id payload.ID) string {
	if title != "" {
		return title
	}
	return string(id)
}
