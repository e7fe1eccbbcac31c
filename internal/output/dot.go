// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"extricrate/internal/graph"
	"extricrate/internal/resolver"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

func (d *DOTGenerator) Generate(cycles [][]resolver.ModulePath) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.5;\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	cycleEdges := cycleEdgeSet(cycles)
	cycleModules := cycleModuleSet(cycles)
	metrics := d.graph.Metrics()

	// Local modules cluster
	buf.WriteString("  subgraph cluster_local {\n")
	buf.WriteString("    label=\"Crate Modules\";\n")
	buf.WriteString("    style=filled;\n")
	buf.WriteString("    color=\"whitesmoke\";\n")
	buf.WriteString("    node [fillcolor=\"white\", style=\"rounded,filled\"];\n")

	for _, module := range d.graph.Modules() {
		m := metrics[module]
		label := fmt.Sprintf("%s\\n(in=%d out=%d)", module, m.FanIn, m.FanOut)
		if cycleModules[module] {
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", module, label))
		} else {
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", module, label))
		}
	}
	buf.WriteString("  }\n\n")

	// External crates and the standard library are opaque leaves.
	buf.WriteString("  node [fillcolor=\"gainsboro\", style=\"rounded,filled\", color=\"grey\"];\n")
	for _, module := range d.graph.ExternalTargets() {
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\"];\n", module, module))
	}
	buf.WriteString("\n")

	for _, from := range d.graph.Modules() {
		for _, to := range d.graph.Dependencies(from) {
			switch {
			case cycleEdges[edgeKey(from, to)]:
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", from, to))
			case to.IsLocal():
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.8];\n", from, to))
			default:
				buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"grey\", style=dashed];\n", from, to))
			}
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_local [label=\"Crate Module\", fillcolor=\"white\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_external [label=\"External/Stdlib\", fillcolor=\"gainsboro\", style=\"rounded,filled\"];\n")
	buf.WriteString("    legend_cycle [label=\"Circular Import\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")

	return buf.String(), nil
}

func edgeKey(from, to resolver.ModulePath) string {
	return string(from) + "->" + string(to)
}

func cycleEdgeSet(cycles [][]resolver.ModulePath) map[string]bool {
	out := make(map[string]bool)
	for _, cycle := range cycles {
		if len(cycle) < 2 {
			continue
		}
		for i := 0; i < len(cycle); i++ {
			out[edgeKey(cycle[i], cycle[(i+1)%len(cycle)])] = true
		}
	}
	return out
}

func cycleModuleSet(cycles [][]resolver.ModulePath) map[resolver.ModulePath]bool {
	out := make(map[resolver.ModulePath]bool)
	for _, cycle := range cycles {
		for _, mod := range cycle {
			out[mod] = true
		}
	}
	return out
}
