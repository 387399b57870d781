package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/depresolve/core/resolver"
)

// newGraphCommand builds the "graph" command group, currently just
// "graph show": walk a fixture into its raw, unresolved DAG and print it
// without running the resolver, the way a restore's --verbose output
// shows the tree before conflict resolution decides anything.
func newGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect a dependency graph without resolving it",
	}
	cmd.AddCommand(newGraphShowCommand())
	return cmd
}

func newGraphShowCommand() *cobra.Command {
	var (
		allowUnresolved bool
		targetFramework string
	)

	cmd := &cobra.Command{
		Use:   "show <fixture.json>",
		Short: "Print the raw dependency graph a fixture walks to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(args[0])
			if err != nil {
				return err
			}
			framework := targetFramework
			if framework == "" {
				framework = f.Root.TargetFramework
			}
			if framework == "" {
				framework = "net8.0"
			}

			client := newFixtureClient(f)
			walker := resolver.NewDependencyWalker(client, []string{"fixture"}, framework)

			g, unresolved, err := walker.Walk(cmd.Context(), f.Root.ID, f.Root.VersionRange, framework, allowUnresolved)
			if err != nil {
				return fmt.Errorf("walk: %w", err)
			}

			printGraph(os.Stdout, g)
			printUnresolved(os.Stdout, unresolved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowUnresolved, "allow-unresolved", false, "tolerate packages no source can satisfy instead of failing the walk")
	cmd.Flags().StringVar(&targetFramework, "framework", "", "target framework moniker (default: the fixture's root.targetFramework, or net8.0)")

	return cmd
}
