package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type inspectOpts struct {
	tree bool
	json bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a layout document",
		Long: `Inspect loads a layout document in any accepted shape, checks its structure
and prints entity counts. Use --tree to print the section, row and tracker
hierarchy. Pass "-" to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.tree, "tree", "t", false, "print the layout hierarchy")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print counts as JSON")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, path string, opts inspectOpts) error {
	s, shape, err := c.loadStore(cmd, path)
	if err != nil {
		return err
	}
	if err := s.Check(); err != nil {
		return fmt.Errorf("inconsistent document: %w", err)
	}
	doc := s.Serialize()
	counts := doc.Counts()
	out := cmd.OutOrStdout()

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Shape    string `json:"shape"`
			Sections int    `json:"sections"`
			Rows     int    `json:"rows"`
			Trackers int    `json:"trackers"`
			Loose    int    `json:"loose"`
			Texts    int    `json:"texts"`
		}{shape.String(), counts.Sections, counts.Rows, counts.Trackers, counts.Loose, counts.Texts})
	}

	printKeyValue(out, "File", path)
	printKeyValue(out, "Shape", shape.String())
	printCounts(out, counts)
	if counts.Sections == 0 {
		printInfo(out, "no sections yet; push needs at least one")
	}
	for _, id := range s.SectionIDs() {
		sec, _ := s.Section(id)
		w, h := s.SectionSize(id)
		printDetail(out, "%s: %d rows, %.0fx%.0f", sec.Name, len(sec.RowIDs), w, h)
	}

	if opts.tree {
		fmt.Fprintln(out)
		fmt.Fprintln(out, layoutTree(doc).String())
	}
	return nil
}
