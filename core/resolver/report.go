package resolver

import "github.com/willibrandon/depresolve/graph"

// buildReport assembles the final AnalyzeResult from a graph whose every
// node has reached a terminal disposition: it groups candidates by name
// to find version conflicts, filters downgrades down to the
// non-ephemeral set (only downgrades whose lower-version target actually
// made it to Accepted survive), and collects cycle paths.
func (r *Resolver) buildReport(g *graph.Graph) *AnalyzeResult {
	result := &AnalyzeResult{Graph: g}

	byName := make(map[string][]*graph.Node)
	for _, n := range g.Nodes() {
		byName[n.Key.FoldedName()] = append(byName[n.Key.FoldedName()], n)
	}

	for name, candidates := range byName {
		if len(candidates) < 2 {
			continue
		}

		var accepted *graph.Node
		var allRejected []*graph.Node
		for _, n := range candidates {
			switch n.Disposition {
			case graph.Accepted:
				accepted = n
			case graph.Rejected:
				allRejected = append(allRejected, n)
			}
		}
		if accepted == nil || len(allRejected) == 0 {
			continue
		}

		var conflicting []*graph.Node
		for _, rej := range allRejected {
			if hasAcceptedParent(rej) && isVersionConflict(rej, accepted) {
				conflicting = append(conflicting, rej)
			}
		}
		if len(conflicting) > 0 {
			conflictingPaths := make([]string, len(conflicting))
			for i, rej := range conflicting {
				conflictingPaths[i] = graph.GetPath(rej)
			}
			result.VersionConflicts = append(result.VersionConflicts, VersionConflict{
				Name:          name,
				Accepted:      accepted,
				Rejected:      conflicting,
				AcceptedPath:  graph.GetPath(accepted),
				RejectedPaths: conflictingPaths,
			})
		}

		for _, rej := range allRejected {
			// Ephemeral filter: a rejection only counts as a reported
			// downgrade if it was specifically classified as
			// EclipsedDowngrade at decide time AND the candidate it
			// lost to actually survived to Accepted. A node rejected
			// for any other reason (its own parent chain died, a
			// sibling simply won outright) never reached here as a
			// live contender in the first place.
			if !r.downgradeCandidates[rej] {
				continue
			}
			result.Downgrades = append(result.Downgrades, DowngradeReport{
				DowngradedFrom: rej,
				DowngradedTo:   accepted,
			})
		}
	}

	for _, n := range g.Nodes() {
		if n.Disposition == graph.Cycle {
			result.Cycles = append(result.Cycles, CycleReport{
				Node: n,
				Path: graph.GetPath(n),
			})
		}
	}

	return result
}

// hasAcceptedParent reports whether at least one of n's own parents
// reached Accepted. A node rejected because its entire parent chain died
// out was never a live contender for its name in the first place, so it
// doesn't belong in a VersionConflict even if its range happens not to
// admit whatever version was accepted elsewhere in the graph.
func hasAcceptedParent(n *graph.Node) bool {
	for _, p := range n.Outer {
		if p.Disposition == graph.Accepted {
			return true
		}
	}
	return false
}

// isVersionConflict reports whether rejecting rej in favor of accepted is
// a genuine cousin conflict: rej names a non-null range, accepted carries
// a concrete version, their type constraints intersect, accepted isn't a
// project/external-project overriding a package (those bypass range
// checks entirely), and accepted's version does not actually satisfy
// rej's requested range. A rejection whose range the accepted version
// happens to satisfy anyway — the common nearest-wins case — is not a
// conflict, just an ordinary supersession.
func isVersionConflict(rej, accepted *graph.Node) bool {
	if rej.Key.Range == nil {
		return false
	}
	if accepted.Item == nil || accepted.Item.Version == nil {
		return false
	}
	if !rej.Key.TypeConstraint.Intersects(accepted.Key.TypeConstraint) {
		return false
	}
	if accepted.Item.Kind.BypassesRangeCheck() {
		return false
	}
	return !rej.Key.Range.Satisfies(accepted.Item.Version)
}
