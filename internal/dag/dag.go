// Package dag builds dependency graphs from analyzed diagrams. Inheritance,
// implementation, and the other relation kinds become directed edges so
// tooling can topologically order entities and surface cycles.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over entity names.
type Graph struct {
	nodes   map[string]bool
	edges   map[string][]string // from -> targets
	parents map[string][]string // to -> sources
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]bool),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if !g.nodes[id] {
		g.nodes[id] = true
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	}
}

// AddEdge adds a directed edge. Both endpoints must exist; duplicate edges
// collapse. Self-loops are allowed so source-level self-inheritance still
// shows up as a cycle.
func (g *Graph) AddEdge(from, to string) error {
	if !g.nodes[from] {
		return fmt.Errorf("node %q does not exist", from)
	}
	if !g.nodes[to] {
		return fmt.Errorf("node %q does not exist", to)
	}
	if !contains(g.edges[from], to) {
		g.edges[from] = append(g.edges[from], to)
		g.parents[to] = append(g.parents[to], from)
	}
	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// Nodes returns all node names, sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Children returns the direct successors of a node.
func (g *Graph) Children(id string) []string {
	return g.edges[id]
}

// Parents returns the direct predecessors of a node.
func (g *Graph) Parents(id string) []string {
	return g.parents[id]
}

// Roots returns nodes with no incoming edges, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no outgoing edges, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// HasCycle reports whether the graph contains a cycle, and if so returns
// one cycle path with the entry node repeated at both ends.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	cameFrom := make(map[string]string)

	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true

		for _, next := range g.edges[id] {
			if !visited[next] {
				cameFrom[next] = id
				if dfs(next) {
					return true
				}
			} else if onStack[next] {
				cycle = []string{next}
				for curr := id; curr != next; curr = cameFrom[curr] {
					cycle = append([]string{curr}, cycle...)
				}
				cycle = append([]string{next}, cycle...)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.Nodes() {
		if !visited[id] {
			if dfs(id) {
				return true, cycle
			}
		}
	}
	return false, nil
}

// TopologicalSort returns node names with every edge target before its
// source: an edge means the source depends on the target, so dependencies
// come first. It fails if the graph is cyclic. Ties break alphabetically,
// so the order is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if cyclic, cycle := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("cycle detected: %v", cycle)
	}

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		sorted := append([]string(nil), g.edges[id]...)
		sort.Strings(sorted)
		for _, dep := range sorted {
			visit(dep)
		}
		result = append(result, id)
	}

	for _, id := range g.Nodes() {
		visit(id)
	}
	return result, nil
}

// Layers groups nodes by dependency depth: layer 0 holds nodes with no
// outgoing edges, layer N nodes whose deepest dependency sits in layer N-1.
// It fails on a cyclic graph.
func (g *Graph) Layers() ([][]string, error) {
	if cyclic, cycle := g.HasCycle(); cyclic {
		return nil, fmt.Errorf("cycle detected: %v", cycle)
	}

	depth := make(map[string]int)

	var layerOf func(id string) int
	layerOf = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		max := -1
		for _, dep := range g.edges[id] {
			if d := layerOf(dep); d > max {
				max = d
			}
		}
		depth[id] = max + 1
		return max + 1
	}

	maxDepth := 0
	for id := range g.nodes {
		if d := layerOf(id); d > maxDepth {
			maxDepth = d
		}
	}

	layers := make([][]string, maxDepth+1)
	for id, d := range depth {
		layers[d] = append(layers[d], id)
	}
	for i := range layers {
		sort.Strings(layers[i])
	}
	if len(g.nodes) == 0 {
		return nil, nil
	}
	return layers, nil
}

// Reachable returns every node reachable from the given starting nodes,
// including the starting nodes themselves, sorted.
func (g *Graph) Reachable(from []string) []string {
	seen := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, next := range g.edges[id] {
			mark(next)
		}
	}

	for _, id := range from {
		if g.nodes[id] {
			mark(id)
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
