package resolver

import (
	"sort"

	"github.com/willibrandon/depresolve/graph"
)

// Tracker is the resolver's per-name registry of candidate nodes plus the
// ascendant-path bookkeeping that answers the three core predicates:
// IsBestVersion, IsEclipsed, and IsAnyVersionAccepted.
//
// A Tracker is owned exclusively by one Resolver pass; nothing here is
// safe for concurrent use by more than one goroutine (see restore.Restorer
// for how independent resolvers run their own Tracker in parallel).
type Tracker struct {
	root *graph.Node

	// entries maps a case-folded dependency name to every candidate node
	// seen for that name, in the order TrackRootNode discovered them.
	entries map[string][]*graph.Node

	// ascendants[n] maps each ancestor of n (n included, with count 1) to
	// the number of distinct root-attached paths from that ancestor to n.
	ascendants map[*graph.Node]map[*graph.Node]int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		entries:    make(map[string][]*graph.Node),
		ascendants: make(map[*graph.Node]map[*graph.Node]int64),
	}
}

// TrackRootNode (re)initializes the tracker from root: it walks every
// reachable node in topological order (parents before children), builds
// each node's ascendant multiset by summing its parents' ascendant maps
// and adding a self-entry, and registers the node under its folded name.
func (t *Tracker) TrackRootNode(root *graph.Node) {
	t.root = root
	t.entries = make(map[string][]*graph.Node)
	t.ascendants = make(map[*graph.Node]map[*graph.Node]int64)

	for _, n := range graph.EnumerateTopological(root) {
		asc := make(map[*graph.Node]int64)
		for _, p := range n.Outer {
			for anc, count := range t.ascendants[p] {
				asc[anc] += count
			}
		}
		asc[n]++
		t.ascendants[n] = asc

		name := n.Key.FoldedName()
		t.entries[name] = append(t.entries[name], n)
	}
}

// Untrack removes n's contribution from every descendant's ascendant
// map, without removing n from its name-entry (see Remove).
func (t *Tracker) Untrack(n *graph.Node) {
	delta, ok := t.ascendants[n]
	if !ok {
		return
	}
	for _, d := range t.descendantsInOrder(n) {
		da := t.ascendants[d]
		if da == nil {
			continue
		}
		for anc, count := range delta {
			da[anc] -= count
			if da[anc] <= 0 {
				delete(da, anc)
			}
		}
	}
}

// Remove untracks n and removes it from its name-entry.
func (t *Tracker) Remove(n *graph.Node) {
	t.Untrack(n)
	name := n.Key.FoldedName()
	t.entries[name] = removeFromSlice(t.entries[name], n)
}

func removeFromSlice(nodes []*graph.Node, target *graph.Node) []*graph.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// descendantsInOrder returns every strict descendant of n (following
// Inner edges transitively, each yielded once) ordered so that an
// ancestor is always yielded before its descendants — required so
// Untrack's subtraction cascades correctly down multi-level chains.
func (t *Tracker) descendantsInOrder(n *graph.Node) []*graph.Node {
	visited := map[*graph.Node]bool{n: true}
	var collected []*graph.Node
	queue := append([]*graph.Node{}, n.Inner...)
	for _, c := range queue {
		visited[c] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		collected = append(collected, cur)
		for _, c := range cur.Inner {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}

	rank := make(map[*graph.Node]int, len(collected))
	for i, node := range graph.EnumerateTopological(t.root) {
		rank[node] = i
	}
	sort.Slice(collected, func(i, j int) bool { return rank[collected[i]] < rank[collected[j]] })
	return collected
}

// IsBestVersion reports whether, among every other non-rejected candidate
// sharing n's name, n either carries a version at least as high, or the
// rival is itself an ancestor of n (nearest-wins: a deeper node never
// displaces a shallower one of the same name regardless of version).
func (t *Tracker) IsBestVersion(n *graph.Node) bool {
	for _, k := range t.entries[n.Key.FoldedName()] {
		if k == n || k.Disposition == graph.Rejected {
			continue
		}
		if n.Item != nil && k.Item != nil && n.Item.Version.GreaterThanOrEqual(k.Item.Version) {
			continue
		}
		if t.isAncestor(k, n) {
			continue
		}
		return false
	}
	return true
}

// isAncestor reports whether candidate is an ancestor of (or equal to) of
// node, i.e. some root-attached path reaches "of" via "candidate".
func (t *Tracker) isAncestor(candidate, of *graph.Node) bool {
	asc := t.ascendants[of]
	if asc == nil {
		return false
	}
	return asc[candidate] > 0
}

// IsAnyVersionAccepted reports whether any candidate sharing n's name has
// already reached Accepted.
func (t *Tracker) IsAnyVersionAccepted(n *graph.Node) bool {
	for _, k := range t.entries[n.Key.FoldedName()] {
		if k.Disposition == graph.Accepted {
			return true
		}
	}
	return false
}

// EclipseResult classifies the outcome of IsEclipsed.
type EclipseResult int

const (
	// NotEclipsed means some root-to-n path is not blocked by any
	// same-name rival chosen nearer the root.
	NotEclipsed EclipseResult = iota
	// EclipsedRejection means n is blocked by a rival of equal or higher
	// version: plain rejection, not a downgrade.
	EclipsedRejection
	// EclipsedDowngrade means n is blocked only by rivals of strictly
	// lower version: accepting the rival instead of n is a downgrade.
	EclipsedDowngrade
)

// IsEclipsed answers: is every root-to-n path blocked by another
// same-name candidate chosen nearer the root? It returns the
// classification plus the blocking node that determined it (nil if not
// eclipsed).
//
// Each same-name non-rejected rival's Outer parents are "choke"
// candidates: nodes a root-to-n path must pass through before it could
// possibly reach the rival instead. Using the ascendant counts, the
// number of root-to-n paths blocked by at least one choke is computed by
// inclusion-exclusion over the poset of chokes (choke sets that are not
// totally ordered by ancestry cannot share a path, so they contribute
// independently; choke sets that are totally ordered contribute the
// product of the per-hop path counts along the chain).
func (t *Tracker) IsEclipsed(n *graph.Node) (EclipseResult, *graph.Node) {
	name := n.Key.FoldedName()

	var rivals []*graph.Node
	var chokes []*graph.Node
	seen := make(map[*graph.Node]bool)
	for _, k := range t.entries[name] {
		if k == n || k.Disposition == graph.Rejected {
			continue
		}
		rivals = append(rivals, k)
		for _, c := range k.Outer {
			if !seen[c] && t.isAncestor(c, n) {
				seen[c] = true
				chokes = append(chokes, c)
			}
		}
	}

	if len(chokes) == 0 {
		return NotEclipsed, nil
	}

	total := t.ascendants[n][t.root]
	if total == 0 {
		return NotEclipsed, nil
	}

	blocked := t.pathsThroughAnyChoke(n, chokes)
	if blocked < total {
		return NotEclipsed, nil
	}

	// Eclipsed: classify by the versions of the rivals that blocked it.
	allLower := n.Item != nil
	var blocker *graph.Node
	for _, k := range rivals {
		if k.Item == nil || n.Item == nil {
			allLower = false
			blocker = k
			continue
		}
		if !k.Item.Version.LessThan(n.Item.Version) {
			allLower = false
		}
		blocker = k
	}

	if allLower {
		return EclipsedDowngrade, blocker
	}
	return EclipsedRejection, blocker
}

// pathsThroughAnyChoke computes, via inclusion-exclusion, the number of
// root-to-n paths that pass through at least one member of chokes.
func (t *Tracker) pathsThroughAnyChoke(n *graph.Node, chokes []*graph.Node) int64 {
	k := len(chokes)
	var total int64
	for mask := 1; mask < (1 << uint(k)); mask++ {
		var subset []*graph.Node
		for i := 0; i < k; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, chokes[i])
			}
		}
		count, ok := t.chainPathCount(n, subset)
		if !ok {
			continue
		}
		if popcount(mask)%2 == 1 {
			total += count
		} else {
			total -= count
		}
	}
	return total
}

// chainPathCount returns the number of root-to-n paths passing through
// every node in subset, or ok=false if subset has no total order by
// ancestry (in which case no single path can pass through all of them,
// so the subset contributes nothing to the inclusion-exclusion sum).
func (t *Tracker) chainPathCount(n *graph.Node, subset []*graph.Node) (int64, bool) {
	remaining := append([]*graph.Node{}, subset...)
	ordered := make([]*graph.Node, 0, len(subset))

	for len(remaining) > 0 {
		idx := -1
		for i, cand := range remaining {
			isRootmost := true
			for j, other := range remaining {
				if i == j {
					continue
				}
				if !t.isAncestor(cand, other) {
					isRootmost = false
					break
				}
			}
			if isRootmost {
				idx = i
				break
			}
		}
		if idx == -1 {
			return 0, false
		}
		ordered = append(ordered, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	count := t.ascendants[ordered[0]][t.root]
	if count == 0 {
		return 0, false
	}
	for i := 0; i+1 < len(ordered); i++ {
		step := t.ascendants[ordered[i+1]][ordered[i]]
		if step == 0 {
			return 0, false
		}
		count *= step
	}
	last := ordered[len(ordered)-1]
	finalStep := t.ascendants[n][last]
	if finalStep == 0 {
		return 0, false
	}
	count *= finalStep
	return count, true
}

func popcount(mask int) int {
	n := 0
	for mask > 0 {
		n += mask & 1
		mask >>= 1
	}
	return n
}
