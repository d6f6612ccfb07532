package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isomorph-labs/isomorph/internal/dag"
	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// dagDump is the JSON shape of one diagram's dependency graph.
type dagDump struct {
	Diagram string     `json:"diagram"`
	Nodes   []string   `json:"nodes"`
	Edges   []dag.Edge `json:"edges"`
	Order   []string   `json:"order,omitempty"`
	Layers  [][]string `json:"layers,omitempty"`
	Cycle   []string   `json:"cycle,omitempty"`
}

// NewDagCommand creates the dag command.
func NewDagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dag <file>",
		Short: "Show the dependency graph of each diagram",
		Long: `Build the dependency graph of every diagram in a file and print its
topological order and dependency layers. Extends and implements clauses and
explicit relations all contribute edges. A cyclic graph is reported with one
offending path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", args[0], err)
			}

			parsed := parser.Parse(string(source))
			if len(parsed.LexErrors) > 0 || len(parsed.Errors) > 0 {
				return fmt.Errorf("%s has syntax errors; run 'isomorph check' first", args[0])
			}
			res := semantic.Analyze(parsed.Program)

			var dumps []dagDump
			cyclic := false
			for _, d := range res.IOM.Diagrams {
				g, edges := dag.FromDiagram(d)
				dump := dagDump{
					Diagram: d.Name,
					Nodes:   g.Nodes(),
					Edges:   edges,
				}
				if has, cycle := g.HasCycle(); has {
					dump.Cycle = cycle
					cyclic = true
				} else {
					dump.Order, _ = g.TopologicalSort()
					dump.Layers, _ = g.Layers()
				}
				dumps = append(dumps, dump)
			}

			if rt.Renderer.IsJSON() {
				if err := rt.Renderer.JSON(dumps); err != nil {
					return err
				}
			} else {
				renderDags(cmd, dumps)
			}

			if cyclic {
				return fmt.Errorf("dependency cycle detected")
			}
			return nil
		},
	}
	return cmd
}

func renderDags(cmd *cobra.Command, dumps []dagDump) {
	r := RuntimeFrom(cmd).Renderer

	for _, dump := range dumps {
		r.Header(fmt.Sprintf("diagram %s", dump.Diagram))

		rows := make([][]string, 0, len(dump.Edges))
		for _, e := range dump.Edges {
			rows = append(rows, []string{e.From, e.Kind, e.To})
		}
		r.Table([]string{"From", "Edge", "To"}, rows)

		if len(dump.Cycle) > 0 {
			r.Error("cycle: %s", strings.Join(dump.Cycle, " -> "))
			continue
		}

		r.Info("order: %s", strings.Join(dump.Order, ", "))
		for i, layer := range dump.Layers {
			r.Detail("layer %s: %s", strconv.Itoa(i), strings.Join(layer, ", "))
		}
	}
}
