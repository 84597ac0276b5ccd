package cli

import (
	"github.com/spf13/cobra"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Rewrite a layout document in canonical form",
		Long: `Convert reads a layout document in any accepted shape (canonical, the
historical section array or the field API envelope) and writes the canonical
shape. Missing ids are generated, trackers are ordered by position and row
and section numbers are filled in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, shape, err := c.loadStore(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := encodeStore(s)
			if err != nil {
				return err
			}
			wrote, err := writeOutput(cmd, output, data)
			if err != nil {
				return err
			}
			c.Logger.Debug("converted", "from", shape, "entities", s.Serialize().Counts().Total())
			if wrote {
				printSuccess(cmd.ErrOrStderr(), "Converted %s layout", shape)
				printFile(cmd.ErrOrStderr(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
