package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/depresolve/core/resolver"
)

// newResolveCommand builds the "resolve" command: load a JSON fixture
// describing a package catalog and a root request, walk it into a graph,
// run the resolver, and print the colored report.
func newResolveCommand() *cobra.Command {
	var (
		patience        int
		allowUnresolved bool
		targetFramework string
	)

	cmd := &cobra.Command{
		Use:   "resolve <fixture.json>",
		Short: "Resolve a dependency graph described by a JSON fixture",
		Long: `resolve loads a JSON fixture describing a flat package catalog and a
root request, walks it into a dependency graph the way a restore would,
and prints the resolved tree along with any version conflicts,
downgrades, or cycles the resolver found.`,
		Args: cobra.ExactArgs(1),
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

			res := resolver.NewResolver(resolver.ResolveOptions{Patience: patience, GraphLabel: framework})
			result, err := res.Analyze(g)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			printGraph(os.Stdout, result.Graph)
			printDiagnostics(os.Stdout, result)
			printUnresolved(os.Stdout, unresolved)

			if len(unresolved) > 0 && !allowUnresolved {
				return fmt.Errorf("resolve: unresolved packages present but --allow-unresolved not set")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&patience, "patience", 0, "maximum fixpoint passes before giving up (0 = resolver default)")
	cmd.Flags().BoolVar(&allowUnresolved, "allow-unresolved", false, "tolerate packages no source can satisfy instead of failing the walk")
	cmd.Flags().StringVar(&targetFramework, "framework", "", "target framework moniker (default: the fixture's root.targetFramework, or net8.0)")

	return cmd
}
