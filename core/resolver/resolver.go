package resolver

import (
	"github.com/willibrandon/depresolve/graph"
	"github.com/willibrandon/depresolve/observability"
)

// ResolveOptions tunes a single Resolver run.
type ResolveOptions struct {
	// Patience bounds the number of fixpoint passes before the resolver
	// gives up and returns ErrDidNotConverge. Zero uses the default (1000).
	Patience int

	// Logger receives structured diagnostics for each disposition change.
	// A nil Logger is replaced with observability.NewNullLogger().
	Logger observability.Logger

	// GraphLabel identifies this graph in metrics emitted during the run
	// (e.g. the project name). Empty is fine; it becomes the "graph" label.
	GraphLabel string
}

func (o ResolveOptions) patience() int {
	if o.Patience <= 0 {
		return 1000
	}
	return o.Patience
}

// VersionConflict reports a package name for which more than one
// candidate version was considered, naming which one was ultimately
// accepted. AcceptedPath and RejectedPaths hold each candidate's
// root-to-node path (graph.GetPath), RejectedPaths index-aligned with
// Rejected, so a report can show where in the graph each competing
// request came from.
type VersionConflict struct {
	Name          string
	Accepted      *graph.Node
	Rejected      []*graph.Node
	AcceptedPath  string
	RejectedPaths []string
}

// DowngradeReport reports that accepting From's rival (To) instead of
// From is a version downgrade: some rejected candidate outranked the
// version the resolver actually picked.
type DowngradeReport struct {
	DowngradedFrom *graph.Node // the higher-version candidate that was rejected
	DowngradedTo   *graph.Node // the lower-version candidate that was accepted
}

// CycleReport names a node whose presence in its own ancestor chain
// forced a Cycle disposition, along with the path that exhibits it.
type CycleReport struct {
	Node *graph.Node
	Path string
}

// AnalyzeResult is everything a resolve pass produces besides the graph's
// own, now-final, node dispositions.
type AnalyzeResult struct {
	Graph            *graph.Graph
	VersionConflicts []VersionConflict
	Downgrades       []DowngradeReport
	Cycles           []CycleReport
	Iterations       int
}

// Resolver walks a pre-expanded graph.Graph to a fixpoint: every node
// ends in a terminal disposition (Accepted, Rejected, or Cycle), central
// package pins are enforced, and cousin conflicts and downgrades are
// reported.
type Resolver struct {
	opts    ResolveOptions
	tracker *Tracker

	// downgradeCandidates marks nodes rejected specifically because the
	// tracker's eclipse check classified them as EclipsedDowngrade (every
	// path to them blocked by a strictly-lower-version rival). Rejections
	// for any other reason — an unreachable parent chain, a plain
	// eclipse, a sibling that already won outright — never count as
	// downgrades even if their version happens to be higher than
	// whatever the graph finally accepted for that name.
	downgradeCandidates map[*graph.Node]bool
}

// NewResolver creates a Resolver with the given options. A zero-value
// ResolveOptions is valid and uses all defaults.
func NewResolver(opts ResolveOptions) *Resolver {
	if opts.Logger == nil {
		opts.Logger = observability.NewNullLogger()
	}
	return &Resolver{
		opts:                opts,
		tracker:             NewTracker(),
		downgradeCandidates: make(map[*graph.Node]bool),
	}
}

// Analyze resolves g to a fixpoint and returns the conflict/downgrade/
// cycle report. g must already satisfy graph.Validate; Analyze wraps any
// structural violation in an *Error with Kind == ErrInvalidGraph.
func (r *Resolver) Analyze(g *graph.Graph) (*AnalyzeResult, error) {
	if g.Root() == nil {
		return nil, invalidGraph("graph has no root")
	}
	if err := g.Validate(); err != nil {
		return nil, invalidGraph("%s", err)
	}

	log := r.opts.Logger.ForContext("component", "resolver")

	r.tracker.TrackRootNode(g.Root())

	patience := r.opts.patience()
	iterations := 0
	for {
		iterations++
		if iterations > patience {
			return nil, didNotConverge("exceeded patience of %d iterations without reaching a fixpoint", patience)
		}

		changed := false

		for _, n := range graph.EnumerateTopological(g.Root()) {
			if n.Disposition.Terminal() {
				continue
			}
			if r.decide(g, n, log) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	result := r.buildReport(g)
	result.Iterations = iterations

	observability.ResolveIterations.WithLabelValues(r.opts.GraphLabel).Observe(float64(iterations))
	observability.NodesAcceptedTotal.WithLabelValues(r.opts.GraphLabel).Add(float64(countDisposition(g, graph.Accepted)))
	observability.NodesRejectedTotal.WithLabelValues(r.opts.GraphLabel).Add(float64(countDisposition(g, graph.Rejected)))
	observability.CyclesDetectedTotal.WithLabelValues(r.opts.GraphLabel).Add(float64(len(result.Cycles)))
	observability.DowngradesReportedTotal.WithLabelValues(r.opts.GraphLabel).Add(float64(len(result.Downgrades)))
	observability.VersionConflictsTotal.WithLabelValues(r.opts.GraphLabel).Add(float64(len(result.VersionConflicts)))

	return result, nil
}

// decide applies one Decide(N) transition to n, per the disposition state
// machine: Cycle nodes are severed and tracked out immediately; a node
// whose parents haven't all settled waits; a node with every parent
// rejected — or a central-transitive pin whose every real-demand parent
// is rejected — is rejected (and untracked if it was also eclipsed); an
// otherwise-acceptable node is accepted if it is the best surviving
// candidate for its name, rejected (as a plain conflict or as a
// downgrade) if eclipsed, or rejected outright if a sibling already won.
// It returns whether n's disposition changed this pass.
func (r *Resolver) decide(g *graph.Graph, n *graph.Node, log observability.Logger) bool {
	if isSelfReferential(n) {
		g.SeverInbound(n)
		r.tracker.Remove(n)
		n.Disposition = graph.Cycle
		log.Debug("{Node} forms a dependency cycle", graph.GetPath(n))
		return true
	}

	if !allParentsSettled(n) {
		return false
	}

	if allParentsRejected(n) || isAbandonedCentralPin(g, n) {
		if res, _ := r.tracker.IsEclipsed(n); res != NotEclipsed {
			r.tracker.Remove(n)
		}
		n.Disposition = graph.Rejected
		return true
	}

	switch res, _ := r.tracker.IsEclipsed(n); res {
	case EclipsedDowngrade:
		r.tracker.Remove(n)
		n.Disposition = graph.Rejected
		r.downgradeCandidates[n] = true
		log.Debug("{Node} rejected as a downgrade", graph.GetPath(n))
		return true
	case EclipsedRejection:
		r.tracker.Remove(n)
		n.Disposition = graph.Rejected
		return true
	}

	if r.tracker.IsBestVersion(n) {
		n.Disposition = graph.Accepted
		log.Debug("{Node} accepted", graph.GetPath(n))
		return true
	}

	if r.tracker.IsAnyVersionAccepted(n) {
		r.tracker.Untrack(n)
		n.Disposition = graph.Rejected
		return true
	}

	return false
}

// isSelfReferential reports whether n's own name already appears among
// its ancestors on any root-attached path, i.e. the graph already closes
// a dependency cycle back on itself. This is a static property of the
// graph's structure, independent of disposition, so it walks every Outer
// parent rather than relying on the tracker's (disposition-sensitive)
// ascendant multiset.
func isSelfReferential(n *graph.Node) bool {
	name := n.Key.FoldedName()
	visited := make(map[*graph.Node]bool)
	var walk func(nodes []*graph.Node) bool
	walk = func(nodes []*graph.Node) bool {
		for _, p := range nodes {
			if visited[p] {
				continue
			}
			visited[p] = true
			if p.Key.FoldedName() == name {
				return true
			}
			if walk(p.Outer) {
				return true
			}
		}
		return false
	}
	return walk(n.Outer)
}

func allParentsSettled(n *graph.Node) bool {
	for _, p := range n.Outer {
		if p.Disposition != graph.Accepted && p.Disposition != graph.Rejected {
			return false
		}
	}
	return true
}

func allParentsRejected(n *graph.Node) bool {
	if len(n.Outer) == 0 {
		return false
	}
	for _, p := range n.Outer {
		if p.Disposition != graph.Rejected {
			return false
		}
	}
	return true
}

// isAbandonedCentralPin reports whether n is a central-transitive package
// pin that has lost every reason to exist: root's own edge to a central
// pin represents the pin's declaration, not a "real demand", so it is
// excluded here, but any other parent reflects a package that actually
// depends on n by name. Once every one of those real-demand parents is
// rejected, the pin itself is rejected right along with them — exactly
// the cascade a central-transitive node's ordinary children already get
// for free from allParentsRejected, since by the time a rejected pin's
// own children are visited later in the same topological pass, their
// only parent is already terminal.
//
// A pin reached solely by root's own edge (no real demand anywhere) has
// nothing to abandon it, so it falls through to the ordinary decide
// rules and is accepted like any other uncontested candidate.
func isAbandonedCentralPin(g *graph.Graph, n *graph.Node) bool {
	if !n.IsCentralTransitive {
		return false
	}
	root := g.Root()
	sawRealParent := false
	for _, p := range n.Outer {
		if p == root {
			continue
		}
		sawRealParent = true
		if p.Disposition != graph.Rejected {
			return false
		}
	}
	return sawRealParent
}

func countDisposition(g *graph.Graph, d graph.Disposition) int {
	count := 0
	for _, n := range g.Nodes() {
		if n.Disposition == d {
			count++
		}
	}
	return count
}
