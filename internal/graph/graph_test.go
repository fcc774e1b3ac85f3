package graph

import "testing"

func TestAddNodeIsIdempotent(t *testing.T) {
	g := New[string, int]()
	if !g.AddNode("a", 1) {
		t.Fatalf("expected first AddNode to report new")
	}
	if g.AddNode("a", 2) {
		t.Fatalf("expected second AddNode to report not-new")
	}
	v, _ := g.Value("a")
	if v != 1 {
		t.Fatalf("expected first value to stick, got %d", v)
	}
}

func TestAddEdgeRequiresBothNodes(t *testing.T) {
	g := New[string, struct{}]()
	g.AddNode("a", struct{}{})
	g.AddEdge("a", "b") // b unregistered, must be a no-op
	if g.OutDegree("a") != 0 {
		t.Fatalf("expected no edge recorded to an unregistered node")
	}
}

func TestAddEdgeDedupes(t *testing.T) {
	g := New[string, struct{}]()
	g.AddNode("a", struct{}{})
	g.AddNode("b", struct{}{})
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	if g.OutDegree("a") != 1 || g.InDegree("b") != 1 {
		t.Fatalf("expected duplicate edge to be deduped, got out=%d in=%d", g.OutDegree("a"), g.InDegree("b"))
	}
}

func buildChain(t *testing.T) *Graph[string, struct{}] {
	t.Helper()
	g := New[string, struct{}]()
	for _, n := range []string{"nor_gate", "and_gate", "top"} {
		g.AddNode(n, struct{}{})
	}
	// top's architecture instantiates nor_gate and and_gate: edges dep -> owner.
	g.AddEdge("nor_gate", "top")
	g.AddEdge("and_gate", "top")
	return g
}

func TestFindRootsSingleRoot(t *testing.T) {
	g := buildChain(t)
	roots := g.FindRoots()
	if len(roots) != 1 || roots[0] != "top" {
		t.Fatalf("expected single root 'top', got %v", roots)
	}
}

func TestFindRootsAmbiguousWhenMultiple(t *testing.T) {
	g := New[string, struct{}]()
	g.AddNode("a", struct{}{})
	g.AddNode("b", struct{}{})
	roots := g.FindRoots()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots when nothing depends on either, got %v", roots)
	}
}

func TestMinimalTopologicalSortOrdersDependenciesFirst(t *testing.T) {
	g := buildChain(t)
	order := g.MinimalTopologicalSort("top")
	if len(order) != 3 {
		t.Fatalf("expected 3 nodes in closure, got %v", order)
	}
	if order[len(order)-1] != "top" {
		t.Fatalf("expected top last, got %v", order)
	}
	posNor, posAnd := -1, -1
	for i, k := range order {
		if k == "nor_gate" {
			posNor = i
		}
		if k == "and_gate" {
			posAnd = i
		}
	}
	if posNor < 0 || posAnd < 0 || posNor >= len(order)-1 || posAnd >= len(order)-1 {
		t.Fatalf("expected both dependencies before top, got %v", order)
	}
}

func TestMinimalTopologicalSortIsDeterministicUnderDiamond(t *testing.T) {
	// top depends on mid1 and mid2, both depend on leaf.
	g := New[string, struct{}]()
	for _, n := range []string{"leaf", "mid1", "mid2", "top"} {
		g.AddNode(n, struct{}{})
	}
	g.AddEdge("leaf", "mid1")
	g.AddEdge("leaf", "mid2")
	g.AddEdge("mid1", "top")
	g.AddEdge("mid2", "top")

	first := g.MinimalTopologicalSort("top")
	second := g.MinimalTopologicalSort("top")
	if len(first) != len(second) {
		t.Fatalf("non-deterministic lengths: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("non-deterministic order: %v vs %v", first, second)
		}
	}
	if first[len(first)-1] != "top" {
		t.Fatalf("expected top last, got %v", first)
	}
	// leaf must appear exactly once despite being reachable via two paths.
	count := 0
	for _, k := range first {
		if k == "leaf" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected leaf exactly once, got %d in %v", count, first)
	}
}
