// Package graph implements the small directed-multigraph primitive the
// planner builds its design-unit dependency graph on top of: nodes keyed by
// design-unit identifier, edges recorded dep -> owner (the node being
// pointed to is the one that uses the node doing the pointing), insertion
// order preserved everywhere so root-finding and topological sort are
// reproducible across runs on the same input (spec §4.3, grounded on
// original_source/src/commands/plan.rs's GraphMap usage of add_node /
// add_edge_by_key / find_root / minimal_topological_sort).
package graph

// Graph is a directed graph over comparable keys K, each carrying a value
// of type V. AddNode and AddEdge are idempotent: adding a node twice keeps
// its first value, and adding the same edge twice records it once.
type Graph[K comparable, V any] struct {
	order    []K
	values   map[K]V
	present  map[K]bool
	succ     map[K][]K
	succSeen map[K]map[K]bool
	pred     map[K][]K
	predSeen map[K]map[K]bool
}

// New returns an empty graph.
func New[K comparable, V any]() *Graph[K, V] {
	return &Graph[K, V]{
		values:   make(map[K]V),
		present:  make(map[K]bool),
		succ:     make(map[K][]K),
		succSeen: make(map[K]map[K]bool),
		pred:     make(map[K][]K),
		predSeen: make(map[K]map[K]bool),
	}
}

// AddNode registers k with value v. If k is already present its value is
// left unchanged; AddNode reports whether k was newly added.
func (g *Graph[K, V]) AddNode(k K, v V) bool {
	if g.present[k] {
		return false
	}
	g.present[k] = true
	g.values[k] = v
	g.order = append(g.order, k)
	return true
}

// HasNode reports whether k has been registered.
func (g *Graph[K, V]) HasNode(k K) bool { return g.present[k] }

// Value returns the value registered for k.
func (g *Graph[K, V]) Value(k K) (V, bool) {
	v, ok := g.values[k]
	return v, ok
}

// Nodes returns every registered key in the order it was first added.
func (g *Graph[K, V]) Nodes() []K {
	out := make([]K, len(g.order))
	copy(out, g.order)
	return out
}

// AddEdge records an edge from -> to. Both endpoints must already be
// registered via AddNode; AddEdge silently does nothing if either is
// missing, since the planner's suffix-only matching (spec §9) only calls
// AddEdge once it has confirmed the target exists as a node.
func (g *Graph[K, V]) AddEdge(from, to K) {
	if !g.present[from] || !g.present[to] {
		return
	}
	if g.succSeen[from] == nil {
		g.succSeen[from] = make(map[K]bool)
	}
	if !g.succSeen[from][to] {
		g.succSeen[from][to] = true
		g.succ[from] = append(g.succ[from], to)
	}
	if g.predSeen[to] == nil {
		g.predSeen[to] = make(map[K]bool)
	}
	if !g.predSeen[to][from] {
		g.predSeen[to][from] = true
		g.pred[to] = append(g.pred[to], from)
	}
}

// Successors returns the nodes k points to, in the order their edges were
// first added.
func (g *Graph[K, V]) Successors(k K) []K {
	out := make([]K, len(g.succ[k]))
	copy(out, g.succ[k])
	return out
}

// Predecessors returns the nodes that point to k - k's direct dependencies
// under the dep -> owner edge convention - in the order their edges were
// first added.
func (g *Graph[K, V]) Predecessors(k K) []K {
	out := make([]K, len(g.pred[k]))
	copy(out, g.pred[k])
	return out
}

// OutDegree is the number of distinct nodes k points to.
func (g *Graph[K, V]) OutDegree(k K) int { return len(g.succ[k]) }

// InDegree is the number of distinct nodes that point to k.
func (g *Graph[K, V]) InDegree(k K) int { return len(g.pred[k]) }

// FindRoots returns every node with out-degree zero: noding else depends on
// it, so it is a candidate top-level design unit. Order follows node
// insertion order. A well-formed single-IP design has exactly one root;
// more than one means the caller must disambiguate (spec §4.6.1's top/bench
// selection).
func (g *Graph[K, V]) FindRoots() []K {
	var roots []K
	for _, k := range g.order {
		if g.OutDegree(k) == 0 {
			roots = append(roots, k)
		}
	}
	return roots
}

// MinimalTopologicalSort walks the dependency closure of from (following
// Predecessors, i.e. "what from depends on", transitively) and returns it
// ordered so every dependency appears before anything that depends on it,
// with from itself last. Ties are broken deterministically by edge
// discovery order, matching the original's minimal_topological_sort.
func (g *Graph[K, V]) MinimalTopologicalSort(from K) []K {
	visited := make(map[K]bool)
	var order []K
	var visit func(K)
	visit = func(k K) {
		if visited[k] {
			return
		}
		visited[k] = true
		for _, dep := range g.Predecessors(k) {
			visit(dep)
		}
		order = append(order, k)
	}
	visit(from)
	return order
}
