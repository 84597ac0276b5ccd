package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackmap/pkg/document"
	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/payload"
)

// readInput reads the named file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	return data, err
}

// writeOutput writes data to the named file, or standard output for "" and
// "-". It reports whether a file was written.
func writeOutput(cmd *cobra.Command, path string, data []byte) (bool, error) {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return false, err
	}
	if err := errors.ValidatePath(path); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, data, 0o644)
}

// readDocument parses a layout document in any accepted shape.
func readDocument(cmd *cobra.Command, path string) (payload.Document, payload.Shape, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return payload.Document{}, payload.ShapeUnknown, err
	}
	return payload.Parse(data)
}

// newStore creates a store configured from the loaded configuration.
func (c *CLI) newStore() *document.Store {
	opts := append(c.Config.DocumentOptions(), document.WithLogger(c.Logger))
	return document.New(opts...)
}

// loadStore reads path into a new store.
func (c *CLI) loadStore(cmd *cobra.Command, path string) (*document.Store, payload.Shape, error) {
	doc, shape, err := readDocument(cmd, path)
	if err != nil {
		return nil, shape, err
	}
	s := c.newStore()
	if err := s.Load(doc); err != nil {
		return nil, shape, err
	}
	return s, shape, nil
}

// encodeStore returns the canonical JSON of s.
func encodeStore(s *document.Store) ([]byte, error) {
	return payload.Marshal(s.Serialize())
}
