package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/cache"
	"github.com/matzehuels/trackmap/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the field file cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached field responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			if c.Config.Storage.Cache != "file" {
				printWarning(cmd.ErrOrStderr(), "storage.cache is %q, clearing the file cache anyway", c.Config.Storage.Cache)
			}

			n, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			if n == 0 {
				printInfo(cmd.OutOrStdout(), "Cache is empty")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Cleared %d cached entries", n)
			printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fc.Dir())
			return nil
		},
	}
}

func (c *CLI) fileCache() (*cache.FileCache, error) {
	fc, err := cache.NewFileCache(c.Config.Storage.CacheDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache directory")
	}
	return fc, nil
}
