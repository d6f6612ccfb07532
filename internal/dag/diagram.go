package dag

import (
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// Edge describes one dependency edge derived from a diagram, keeping the
// relation kind that produced it for display.
type Edge struct {
	From string
	To   string
	Kind string
}

// FromDiagram builds the dependency graph of one analyzed diagram. Extends
// and implements clauses become edges from child to parent; explicit
// relations become edges from their From endpoint to their To endpoint.
// Unresolved names are skipped, so the graph only ever contains declared
// entities.
func FromDiagram(d *semantic.Diagram) (*Graph, []Edge) {
	g := New()
	for _, name := range d.EntityNames {
		g.AddNode(name)
	}

	var edges []Edge
	addEdge := func(from, to, kind string) {
		if err := g.AddEdge(from, to); err == nil {
			edges = append(edges, Edge{From: from, To: to, Kind: kind})
		}
	}

	for _, name := range d.EntityNames {
		e := d.Entities[name]
		for _, parent := range e.Extends {
			addEdge(name, parent, "extends")
		}
		for _, iface := range e.Implements {
			addEdge(name, iface, "implements")
		}
	}
	for _, r := range d.Relations {
		addEdge(r.From, r.To, string(r.Kind))
	}
	return g, edges
}
