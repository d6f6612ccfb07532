package dag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isomorph-labs/isomorph/internal/dag"
	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

func buildGraph(t *testing.T, edges [][2]string) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		g.AddNode(e[0])
		g.AddNode(e[1])
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func TestTopologicalSort(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"a", "c"},
	})

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order, 3)

	// An edge means its source depends on its target, so targets sort first.
	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["c"], pos["b"])
	assert.Less(t, pos["b"], pos["a"])
}

func TestHasCycle(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})
		cyclic, _ := g.HasCycle()
		assert.False(t, cyclic)
	})

	t.Run("cycle path wraps around", func(t *testing.T) {
		g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
		cyclic, cycle := g.HasCycle()
		require.True(t, cyclic)
		require.GreaterOrEqual(t, len(cycle), 2)
		assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	})

	t.Run("self loop", func(t *testing.T) {
		g := dag.New()
		g.AddNode("a")
		require.NoError(t, g.AddEdge("a", "a"))
		cyclic, _ := g.HasCycle()
		assert.True(t, cyclic)
	})
}

func TestLayers(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"mid1", "base"},
		{"mid2", "base"},
		{"top", "mid1"},
		{"top", "mid2"},
	})

	layers, err := g.Layers()
	require.NoError(t, err)
	require.Len(t, layers, 3)
	assert.Equal(t, []string{"base"}, layers[0])
	assert.Equal(t, []string{"mid1", "mid2"}, layers[1])
	assert.Equal(t, []string{"top"}, layers[2])
}

func TestRootsAndLeaves(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}})
	assert.Equal(t, []string{"a"}, g.Roots())
	assert.Equal(t, []string{"c"}, g.Leaves())
}

func TestReachable(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"a", "b"},
		{"b", "c"},
		{"x", "y"},
	})
	assert.Equal(t, []string{"a", "b", "c"}, g.Reachable([]string{"a"}))
	assert.Equal(t, []string{"x", "y"}, g.Reachable([]string{"x"}))
	assert.Empty(t, g.Reachable([]string{"missing"}))
}

func TestAddEdgeRequiresNodes(t *testing.T) {
	g := dag.New()
	g.AddNode("a")
	err := g.AddEdge("a", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestFromDiagram(t *testing.T) {
	parsed := parser.Parse(`
diagram D : class {
    interface Base {}
    class Mid extends Base {}
    class Leaf extends Mid implements Base {}
    Leaf --> Mid
    Leaf --> Ghost
}
`)
	require.Empty(t, parsed.Errors)
	res := semantic.Analyze(parsed.Program)

	g, edges := dag.FromDiagram(res.IOM.Diagrams[0])
	assert.Equal(t, 3, g.NodeCount())

	// Unresolved endpoints never become edges.
	for _, e := range edges {
		assert.NotEqual(t, "Ghost", e.To)
	}

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"Base", "Mid", "Leaf"}, order)
}
