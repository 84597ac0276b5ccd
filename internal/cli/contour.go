package cli

import (
	"encoding/json"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/geometry"
)

type contourOpts struct {
	section  string
	x, y     float64
	margin   float64
	pathOnly bool
}

// contourCommand creates the contour command.
func (c *CLI) contourCommand() *cobra.Command {
	opts := contourOpts{margin: geometry.DefaultOptions().Margin}

	cmd := &cobra.Command{
		Use:   "contour <measurements.json>",
		Short: "Derive a section outline from measured boxes",
		Long: `Contour reads a JSON array of measurements, each {"kind": "row"|"item",
"id", "parent", "rect": {"left", "top", "right", "bottom"}}, in absolute
coordinates. Row parents name their section; --section keeps only that
section's rows and items. It prints the per-row boxes, the staircase outline
path and the section dimensions relative to the section origin given by --x
and --y.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var ms []geometry.Measurement
			if err := json.Unmarshal(data, &ms); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode measurements")
			}

			o := geometry.DefaultOptions()
			o.Margin = opts.margin
			origin := geometry.Point{X: opts.x, Y: opts.y}
			ct, err := geometry.DeriveFrom(geometry.Measurements(ms), opts.section, origin, o)
			if stderrors.Is(err, geometry.ErrNotMeasured) {
				return errors.Wrap(errors.ErrCodeNotFound, err, "no rows measured for section %q", opts.section)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.pathOnly {
				_, err := out.Write([]byte(ct.Path + "\n"))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ct)
		},
	}

	cmd.Flags().StringVar(&opts.section, "section", "", "only derive the rows whose parent is this section")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "section origin x")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "section origin y")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "margin around each row's trackers")
	cmd.Flags().BoolVar(&opts.pathOnly, "path", false, "print only the outline path")

	return cmd
}
