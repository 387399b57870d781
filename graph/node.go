package graph

import (
	"fmt"
	"strings"

	"github.com/willibrandon/depresolve/version"
)

// Key identifies a dependency edge's request: a name, an optional version
// range (absent for projects, which bypass range checks), and a type
// constraint mask. Two keys are equal when all three match; name
// comparison is case-insensitive for keying purposes, case-sensitive for
// display.
type Key struct {
	Name           string
	Range          *version.Range
	TypeConstraint TypeConstraint
}

// FoldedName returns the case-insensitive form of Name used for map keys.
func (k Key) FoldedName() string { return strings.ToLower(k.Name) }

// Equal reports whether two keys match under the case-insensitive naming
// and range/constraint equality the resolver uses for deduplication.
func (k Key) Equal(o Key) bool {
	if k.FoldedName() != o.FoldedName() {
		return false
	}
	if !k.TypeConstraint.Intersects(o.TypeConstraint) {
		return false
	}
	return rangeEqual(k.Range, o.Range)
}

func rangeEqual(a, b *version.Range) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}

func (k Key) String() string {
	if k.Range == nil {
		return k.Name
	}
	return fmt.Sprintf("%s %s", k.Name, k.Range.String())
}

// Item is a resolved package candidate: a concrete name, version, and
// kind. A node with a nil Item is unresolved.
type Item struct {
	Name    string
	Version *version.Version
	Kind    LibraryKind
}

// Key returns a stable identity string for this item, suitable for map
// keys ("name|version").
func (i *Item) Key() string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("%s|%s", i.Name, i.Version)
}

func (i *Item) String() string {
	if i == nil {
		return "<unresolved>"
	}
	if i.Kind == KindProject || i.Kind == KindExternalProject {
		return i.Name
	}
	return fmt.Sprintf("%s %s", i.Name, i.Version)
}

// SatisfiesRange reports whether this item satisfies rng, honoring the
// range-check bypass for projects and external projects.
func (i *Item) SatisfiesRange(rng *version.Range) bool {
	if i == nil {
		return false
	}
	if i.Kind.BypassesRangeCheck() {
		return true
	}
	if rng == nil {
		return true
	}
	return rng.Satisfies(i.Version)
}

// Disposition tracks the resolution state of a node. Dispositions
// progress monotonically from {Acceptable, PotentiallyDowngraded} to a
// terminal state; they never regress.
type Disposition int

const (
	Acceptable Disposition = iota
	PotentiallyDowngraded
	Cycle
	Accepted
	Rejected
)

func (d Disposition) String() string {
	switch d {
	case Acceptable:
		return "Acceptable"
	case PotentiallyDowngraded:
		return "PotentiallyDowngraded"
	case Cycle:
		return "Cycle"
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Terminal reports whether d is one of the resolver's terminal states.
func (d Disposition) Terminal() bool {
	return d == Accepted || d == Rejected || d == Cycle
}

// Node is a single vertex in the dependency DAG. A node may be reached
// through more than one parent, so Outer is a slice, not a single
// pointer; Inner lists the node's own dependencies.
//
// ID is the node's index in the owning Graph's arena, so the whole graph
// is trivially serializable by walking the arena rather than following
// pointers.
type Node struct {
	ID    int
	Key   Key
	Item  *Item
	Outer []*Node
	Inner []*Node

	Disposition         Disposition
	IsCentralTransitive bool
}

func (n *Node) String() string {
	if n.Item != nil {
		return n.Item.String()
	}
	return n.Key.String()
}

// Graph owns the node arena for a single resolve pass.
type Graph struct {
	nodes []*Node
	root  *Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// NewNode allocates a node in the arena and returns it. The returned
// node has no edges; wire it with AddEdge.
func (g *Graph) NewNode(key Key) *Node {
	n := &Node{ID: len(g.nodes), Key: key, Disposition: Acceptable}
	g.nodes = append(g.nodes, n)
	return n
}

// SetRoot designates n as the graph's root. The root must already be in
// this graph's arena.
func (g *Graph) SetRoot(n *Node) { g.root = n }

// Root returns the graph's root node, or nil if none was set.
func (g *Graph) Root() *Node { return g.root }

// Nodes returns the arena in allocation order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// AddEdge links parent -> child, maintaining both sides of the
// invariant: parent appears in child.Outer iff child appears in
// parent.Inner.
func (g *Graph) AddEdge(parent, child *Node) {
	parent.Inner = append(parent.Inner, child)
	child.Outer = append(child.Outer, parent)
}

// RemoveEdge severs parent -> child. It is used when a Cycle node's
// inbound edges are cut during resolution: the child keeps its Outer
// pointer (for path printing) but the parent forgets the child.
func (g *Graph) RemoveEdge(parent, child *Node) {
	parent.Inner = removeNode(parent.Inner, child)
}

// SeverInbound removes n from every one of its current parents' Inner
// lists, without touching n.Outer. After this call n is unreachable by
// downward traversal from the root, but GetPath(n) still works.
func (g *Graph) SeverInbound(n *Node) {
	for _, p := range n.Outer {
		p.Inner = removeNode(p.Inner, n)
	}
}

func removeNode(nodes []*Node, target *Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks the outer/inner invariant across every node in the
// arena: for every edge p -> c, p must appear in c.Outer iff c appears
// in p.Inner. Returns an error describing the first violation found.
func (g *Graph) Validate() error {
	if g.root == nil {
		return fmt.Errorf("graph has no root")
	}
	for _, p := range g.nodes {
		for _, c := range p.Inner {
			if !containsNode(c.Outer, p) {
				return fmt.Errorf("invalid graph: %s -> %s is in Inner but not mirrored in Outer", p, c)
			}
		}
		for _, c := range p.Outer {
			if !containsNode(c.Inner, p) {
				return fmt.Errorf("invalid graph: %s -> %s is in Outer but not mirrored in Inner", c, p)
			}
		}
	}
	return nil
}

func containsNode(nodes []*Node, target *Node) bool {
	for _, n := range nodes {
		if n == target {
			return true
		}
	}
	return false
}
