package cli

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/matzehuels/trackmap/pkg/errors"
)

// Execute runs the trackmap CLI with the process arguments. Failures are
// reported on stderr before the error is returned, so callers only choose
// the exit code.
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	err := New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
	if err != nil && !stderrors.Is(err, context.Canceled) {
		printError(os.Stderr, "%s", errors.UserMessage(err))
	}
	return err
}
