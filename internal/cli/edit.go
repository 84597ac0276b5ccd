package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/document"
	"github.com/matzehuels/trackmap/pkg/persist"
)

type editOpts struct {
	push    bool
	project string
	field   string
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var opts editOpts

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a layout in the terminal",
		Long: `Edit opens a keyboard editor over a layout file. A missing file starts an
empty layout. ctrl+s writes the file in canonical form; with --push it is
also saved to the configured remote or backend, and the assigned identities
are kept for the next save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.push, "push", false, "also push to the field store on save")
	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project id for --push (default from config)")
	cmd.Flags().StringVar(&opts.field, "field", "", "field id for --push (default: create on first save)")

	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, opts editOpts) error {
	s := c.newStore()
	if _, err := os.Stat(path); err == nil {
		if s, _, err = c.loadStore(cmd, path); err != nil {
			return err
		}
	}

	save, cleanup, err := c.editorSave(cmd, path, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	p := tea.NewProgram(NewEditorModel(s, save),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(EditorModel); ok && m.Dirty {
		printWarning(cmd.ErrOrStderr(), "unsaved changes discarded")
	}
	return nil
}

// editorSave builds the ctrl+s handler: write the file and, with --push,
// save through the persistence adapter. A created field id is reused by
// later saves.
func (c *CLI) editorSave(cmd *cobra.Command, path string, opts editOpts) (saveFunc, func(), error) {
	writeFile := func(s *document.Store) error {
		data, err := encodeStore(s)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
	if !opts.push {
		return func(s *document.Store) (string, error) {
			if err := writeFile(s); err != nil {
				return "", err
			}
			return "saved " + path, nil
		}, func() {}, nil
	}

	key, err := c.projectKey(opts.project, opts.field)
	if err != nil {
		return nil, nil, err
	}
	adapter, closer, err := c.Config.OpenAdapter(cmd.Context(), persist.WithAdapterLogger(c.Logger))
	if err != nil {
		return nil, nil, err
	}
	save := func(s *document.Store) (string, error) {
		res := adapter.Save(cmd.Context(), key, s)
		if !res.Success {
			return "", fmt.Errorf("%s", res.Error)
		}
		key = key.WithField(res.FieldID)
		if err := writeFile(s); err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %s and pushed %s", path, key), nil
	}
	return save, func() { closer.Close() }, nil
}
