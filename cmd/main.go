package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(newRootCmd(newApp())))
}

// execute runs the command tree and reports a failure on stderr, returning
// the process exit code.
func execute(root *cobra.Command) int {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
