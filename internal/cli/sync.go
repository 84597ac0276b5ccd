package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/persist"
)

// projectKey builds a field key, falling back to the configured project.
func (c *CLI) projectKey(project, field string) (persist.Key, error) {
	if project == "" {
		project = c.Config.Project
	}
	if project == "" {
		return persist.Key{}, errors.New(errors.ErrCodeInvalidInput, "no project given (use --project or set project in the config)")
	}
	return persist.Key{ProjectID: project, FieldID: field}, nil
}

// pullCommand creates the pull command.
func (c *CLI) pullCommand() *cobra.Command {
	var (
		project string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "pull <field-id>",
		Short: "Fetch a stored layout",
		Long: `Pull loads a field from the configured remote (remote.url) or, when no remote
is configured, from the local storage backend, and writes it in canonical
form. Backend identities are carried as remoteId.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := c.projectKey(project, args[0])
			if err != nil {
				return err
			}
			adapter, closer, err := c.Config.OpenAdapter(cmd.Context(), persist.WithAdapterLogger(c.Logger))
			if err != nil {
				return err
			}
			defer closer.Close()

			spinner := newSpinnerWithContext(cmd.Context(), cmd.ErrOrStderr(), "Fetching "+key.String()+"...")
			spinner.Start()
			s := c.newStore()
			err = adapter.LoadInto(cmd.Context(), key, s)
			spinner.Stop()
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
			if wrote {
				printSuccess(cmd.ErrOrStderr(), "Pulled %s", key)
				printFile(cmd.ErrOrStderr(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project id (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// pushCommand creates the push command.
func (c *CLI) pushCommand() *cobra.Command {
	var (
		project string
		field   string
		write   bool
	)

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Store a layout",
		Long: `Push saves a layout document to the configured remote or local backend.
Without --field a new field is created. The layout must contain at least one
section. With --write the file is rewritten so it carries the backend
identities assigned by the save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := c.projectKey(project, field)
			if err != nil {
				return err
			}
			s, _, err := c.loadStore(cmd, args[0])
			if err != nil {
				return err
			}
			adapter, closer, err := c.Config.OpenAdapter(cmd.Context(), persist.WithAdapterLogger(c.Logger))
			if err != nil {
				return err
			}
			defer closer.Close()

			prog := newProgress(c.Logger)
			res := adapter.Save(cmd.Context(), key, s)
			if !res.Success {
				return errors.New(errors.Code(res.Code), "%s", res.Error)
			}
			prog.done("Pushed field " + res.FieldID)

			out := cmd.OutOrStdout()
			printSuccess(out, "Saved %s", key.WithField(res.FieldID))
			if write && args[0] != "-" {
				data, err := encodeStore(s)
				if err != nil {
					return err
				}
				if _, err := writeOutput(cmd, args[0], data); err != nil {
					return err
				}
				printFile(out, args[0])
			}
			if field == "" {
				printNextStep(out, "Fetch it again", appName+" pull -p "+key.ProjectID+" "+res.FieldID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "project id (default from config)")
	cmd.Flags().StringVar(&field, "field", "", "existing field id (default: create a new field)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write backend identities back to the file")

	return cmd
}
