package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/willibrandon/depresolve/core/resolver"
	"github.com/willibrandon/depresolve/graph"
)

// printGraph renders the resolved tree depth-first from the root,
// coloring each node by its final disposition.
func printGraph(w io.Writer, g *graph.Graph) {
	colorHeader.Fprintln(w, "Resolved graph:")
	seen := make(map[*graph.Node]bool)
	printNode(w, g.Root(), 0, seen)
}

func printNode(w io.Writer, n *graph.Node, depth int, seen map[*graph.Node]bool) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	c := dispositionColor(n.Disposition)
	c.Fprintf(w, "%s%s", indent, n.String())
	fmt.Fprintf(w, " [%s]\n", n.Disposition)

	if seen[n] {
		return
	}
	seen[n] = true
	for _, child := range n.Inner {
		printNode(w, child, depth+1, seen)
	}
}

// printDiagnostics renders an Analyze run's conflict, downgrade, and
// cycle reports the way a restore summary would, after the graph itself.
func printDiagnostics(w io.Writer, result *resolver.AnalyzeResult) {
	if len(result.VersionConflicts) > 0 {
		colorHeader.Fprintln(w, "\nVersion conflicts:")
		for _, c := range result.VersionConflicts {
			fmt.Fprintf(w, "  %s: accepted %s\n", c.Name, c.Accepted.Item.Version)
			fmt.Fprintf(w, "    %s\n", c.AcceptedPath)
			for i, r := range c.Rejected {
				colorRejected.Fprintf(w, "  rejected %s\n", r.String())
				fmt.Fprintf(w, "    %s\n", c.RejectedPaths[i])
			}
		}
	}

	if len(result.Downgrades) > 0 {
		colorHeader.Fprintln(w, "\nDowngrades:")
		for _, d := range result.Downgrades {
			colorDowngraded.Fprintf(w, "  %s -> %s\n", d.DowngradedFrom.String(), d.DowngradedTo.String())
		}
	}

	if len(result.Cycles) > 0 {
		colorHeader.Fprintln(w, "\nCycles:")
		for _, c := range result.Cycles {
			colorCycle.Fprintf(w, "  %s\n", c.Path)
		}
	}

	fmt.Fprintf(w, "\nconverged in %d iteration(s)\n", result.Iterations)
}

// printUnresolved renders the walker's NU1xxx diagnostics for packages no
// source could satisfy, sorted by ID for deterministic output.
func printUnresolved(w io.Writer, unresolved []resolver.UnresolvedPackage) {
	if len(unresolved) == 0 {
		return
	}
	sorted := make([]resolver.UnresolvedPackage, len(unresolved))
	copy(sorted, unresolved)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	colorHeader.Fprintln(w, "\nUnresolved packages:")
	for _, u := range sorted {
		colorRejected.Fprintf(w, "  %s : error %s", u.ID, u.ErrorCode)
		fmt.Fprintf(w, ": %s\n", u.Message)
	}
}
