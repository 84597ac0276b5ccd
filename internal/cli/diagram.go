package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/render/diagram"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

type diagramOpts struct {
	output    string
	format    string
	detailed  bool
	texts     bool
	direction string
}

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var opts diagramOpts

	cmd := &cobra.Command{
		Use:   "diagram <file>",
		Short: "Render the layout hierarchy as DOT or SVG",
		Long: `Diagram draws the field as a tree: sections, standalone rows, trackers and
loose trackers. The format follows the output extension unless --format is
given; without an output file DOT is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiagram(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot or svg")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "include ids and positions in labels")
	cmd.Flags().BoolVar(&opts.texts, "texts", false, "include text annotations")
	cmd.Flags().StringVar(&opts.direction, "direction", "LR", "graph direction: LR or TB")

	return cmd
}

func (c *CLI) runDiagram(cmd *cobra.Command, path string, opts diagramOpts) error {
	format, err := diagramFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	s, _, err := c.loadStore(cmd, path)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	dot := diagram.ToDOT(s.Serialize(), diagram.Options{
		Detailed:  opts.detailed,
		Texts:     opts.texts,
		Direction: strings.ToUpper(opts.direction),
	})

	data := []byte(dot)
	if format == formatSVG {
		if data, err = diagram.RenderSVG(cmd.Context(), dot); err != nil {
			return err
		}
	}

	wrote, err := writeOutput(cmd, opts.output, data)
	if err != nil {
		return err
	}
	if wrote {
		prog.done("Rendered " + format)
		printFile(cmd.ErrOrStderr(), opts.output)
	}
	return nil
}

// diagramFormat resolves the output format from the flag or the file
// extension.
func diagramFormat(flag, output string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if f == "" || f == "gv" {
			f = formatDOT
		}
	}
	switch f {
	case formatDOT, formatSVG:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q (want dot or svg)", f)
	}
}
