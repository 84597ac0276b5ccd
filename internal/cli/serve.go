package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/internal/server"
	"github.com/matzehuels/trackmap/pkg/persist"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the field API",
		Long: `Serve exposes the configured storage backend over HTTP so other trackmap
clients can use it as their remote:

  GET  /api/projects/{project}/fields/{field}
  PUT  /api/projects/{project}/fields/{field}
  POST /api/projects/{project}/fields
  POST /api/normalize

Stop with Ctrl+C; in-flight requests are drained before exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if token == "" {
				token = c.Config.Remote.Token
			}

			backend, err := persist.OpenBackend(cmd.Context(), c.Config.Storage.Config)
			if err != nil {
				return err
			}
			defer backend.Close()

			srv := server.New(persist.NewLocalRemote(backend),
				server.WithLogger(c.Logger),
				server.WithToken(token),
			)
			c.Logger.Info("storage", "backend", c.Config.Storage.Backend)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&token, "token", "", "require this bearer token on API requests")

	return cmd
}
