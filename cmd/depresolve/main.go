// Command depresolve drives the dependency-graph resolver against a
// JSON-described fixture, the way a restore pipeline's console front end
// drives the same resolver against a real project.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depresolve",
		Short: "Resolve and inspect dependency graphs from JSON fixtures",
	}
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newGraphCommand())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
