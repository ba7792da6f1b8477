package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

// exitError carries an exit code out of a command. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docval",
		Short: "docval validates JSON and YAML documents against declarative rule sets",
		Long: `docval checks documents against rule sets mapping field paths to ordered rules.
It runs one-off validations from the command line or serves an HTTP API
over a catalog of stored rule sets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newValidateCmd(),
		newCheckCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitValid
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(stderr, "Error:", exit.err)
		}
		return exit.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitUsage
}
