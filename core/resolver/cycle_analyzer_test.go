package resolver

import (
	"testing"

	"github.com/willibrandon/depresolve/graph"
	"github.com/willibrandon/depresolve/version"
)

func mustVersion(t *testing.T, s string) *version.Version {
	t.Helper()
	v, err := version.Parse(s)
	if err != nil {
		t.Fatalf("parse version %q: %v", s, err)
	}
	return v
}

func TestCycleAnalyzer_SimpleCycle(t *testing.T) {
	// A -> B -> A (back edge placeholder, the way the walker lays one
	// down for a structural cycle).
	g := graph.New()
	a := g.NewNode(graph.Key{Name: "A"})
	a.Item = &graph.Item{Name: "A", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.SetRoot(a)

	b := g.NewNode(graph.Key{Name: "B"})
	b.Item = &graph.Item{Name: "B", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.AddEdge(a, b)

	backEdge := g.NewNode(graph.Key{Name: "A"})
	g.AddEdge(b, backEdge)

	resolver := NewResolver(ResolveOptions{})
	result, err := resolver.Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if len(result.Cycles) != 1 {
		t.Fatalf("expected 1 cycle report, got %d", len(result.Cycles))
	}
	if result.Cycles[0].Node.Key.Name != "A" {
		t.Errorf("expected the cycle to be reported on A, got %s", result.Cycles[0].Node.Key.Name)
	}

	analyzer := NewCycleAnalyzer()
	descriptions := analyzer.Describe(result)
	if len(descriptions) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descriptions))
	}
	want := "Circular dependency: " + result.Cycles[0].Path
	if descriptions[0] != want {
		t.Errorf("Describe() = %q, want %q", descriptions[0], want)
	}
}

func TestCycleAnalyzer_NoCycles(t *testing.T) {
	g := graph.New()
	a := g.NewNode(graph.Key{Name: "A"})
	a.Item = &graph.Item{Name: "A", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.SetRoot(a)

	b := g.NewNode(graph.Key{Name: "B"})
	b.Item = &graph.Item{Name: "B", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.AddEdge(a, b)

	c := g.NewNode(graph.Key{Name: "C"})
	c.Item = &graph.Item{Name: "C", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.AddEdge(b, c)

	resolver := NewResolver(ResolveOptions{})
	result, err := resolver.Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if len(result.Cycles) != 0 {
		t.Fatalf("expected 0 cycles, got %d", len(result.Cycles))
	}

	analyzer := NewCycleAnalyzer()
	if got := analyzer.Describe(result); len(got) != 0 {
		t.Errorf("expected no descriptions, got %v", got)
	}
}

func TestCycleAnalyzer_GroupByName(t *testing.T) {
	// Two independent cycles closing back on B and on D.
	g := graph.New()
	a := g.NewNode(graph.Key{Name: "A"})
	a.Item = &graph.Item{Name: "A", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.SetRoot(a)

	b := g.NewNode(graph.Key{Name: "B"})
	b.Item = &graph.Item{Name: "B", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.AddEdge(a, b)

	bBack := g.NewNode(graph.Key{Name: "B"})
	g.AddEdge(b, bBack)

	d := g.NewNode(graph.Key{Name: "D"})
	d.Item = &graph.Item{Name: "D", Version: mustVersion(t, "1.0.0"), Kind: graph.KindPackage}
	g.AddEdge(a, d)

	dBack := g.NewNode(graph.Key{Name: "D"})
	g.AddEdge(d, dBack)

	resolver := NewResolver(ResolveOptions{})
	result, err := resolver.Analyze(g)
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}
	if len(result.Cycles) != 2 {
		t.Fatalf("expected 2 cycle reports, got %d", len(result.Cycles))
	}

	analyzer := NewCycleAnalyzer()
	groups := analyzer.GroupByName(result)
	if len(groups) != 2 {
		t.Fatalf("expected 2 distinct cycle groups, got %d", len(groups))
	}
	if len(groups["b"]) != 1 || len(groups["d"]) != 1 {
		t.Errorf("expected one cycle each for b and d, got %v", groups)
	}
}
