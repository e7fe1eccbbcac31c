package output

import (
	"fmt"
	"strings"
	"unicode"

	"extricrate/internal/graph"
	"extricrate/internal/resolver"
)

type MermaidGenerator struct {
	graph *graph.Graph
}

// Above this many external targets the diagram collapses them into a single
// aggregate node so the crate's own structure stays readable.
const externalAggregationThreshold = 10

const externalAggregateNodeID = "__external_aggregate__"

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate(cycles [][]resolver.ModulePath) (string, error) {
	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 80, 'rankSpacing': 110, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	localNames := m.graph.Modules()
	localSet := make(map[resolver.ModulePath]bool, len(localNames))
	for _, name := range localNames {
		localSet[name] = true
	}

	externalNames := m.graph.ExternalTargets()
	aggregateExternal := len(externalNames) > externalAggregationThreshold

	allNames := append(append([]resolver.ModulePath{}, localNames...), externalNames...)
	if aggregateExternal {
		allNames = append(allNames, externalAggregateNodeID)
	}
	ids := makeMermaidIDs(allNames)

	cycleEdges := cycleEdgeSet(cycles)
	cycleModules := cycleModuleSet(cycles)
	metrics := m.graph.Metrics()

	for _, name := range localNames {
		metric := metrics[name]
		label := fmt.Sprintf("%s\\n(in=%d out=%d)", name, metric.FanIn, metric.FanOut)
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[name], escapeMermaidLabel(label)))
	}

	if aggregateExternal {
		b.WriteString(fmt.Sprintf("  %s[\"External/Stdlib\\n(%d modules)\"]\n", ids[externalAggregateNodeID], len(externalNames)))
	} else {
		for _, name := range externalNames {
			b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[name], escapeMermaidLabel(string(name))))
		}
	}

	b.WriteString("\n")
	if len(localNames) > 0 {
		b.WriteString("  classDef localNode fill:#f7fbff,stroke:#4d6480,stroke-width:1px;\n")
		b.WriteString("  class ")
		b.WriteString(strings.Join(toIDs(localNames, ids), ","))
		b.WriteString(" localNode;\n")
	}
	if len(externalNames) > 0 {
		b.WriteString("  classDef externalNode fill:#efefef,stroke:#808080,stroke-dasharray:4 3;\n")
		if aggregateExternal {
			b.WriteString(fmt.Sprintf("  class %s externalNode;\n", ids[externalAggregateNodeID]))
		} else {
			b.WriteString("  class ")
			b.WriteString(strings.Join(toIDs(externalNames, ids), ","))
			b.WriteString(" externalNode;\n")
		}
	}
	if len(cycleModules) > 0 {
		cycleNames := intersectOrdered(localNames, cycleModules)
		if len(cycleNames) > 0 {
			b.WriteString("  classDef cycleNode fill:#ffecec,stroke:#cc0000,stroke-width:2px;\n")
			b.WriteString("  class ")
			b.WriteString(strings.Join(toIDs(cycleNames, ids), ","))
			b.WriteString(" cycleNode;\n")
		}
	}

	b.WriteString("\n")
	linkIndex := 0
	cycleLinkIndexes := make([]int, 0)
	externalLinkIndexes := make([]int, 0)
	externalEdgeCounts := make(map[resolver.ModulePath]int)
	for _, from := range localNames {
		for _, to := range m.graph.Dependencies(from) {
			if !localSet[to] {
				externalEdgeCounts[from]++
				if aggregateExternal {
					continue
				}
			}
			edgeLabel := ""
			if cycleEdges[edgeKey(from, to)] {
				edgeLabel = "|CYCLE|"
				cycleLinkIndexes = append(cycleLinkIndexes, linkIndex)
			} else if !localSet[to] {
				externalLinkIndexes = append(externalLinkIndexes, linkIndex)
			}
			b.WriteString(fmt.Sprintf("  %s -->%s %s\n", ids[from], edgeLabel, ids[to]))
			linkIndex++
		}
	}
	if aggregateExternal {
		for _, from := range localNames {
			count := externalEdgeCounts[from]
			if count == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s -->|ext:%d| %s\n", ids[from], count, ids[externalAggregateNodeID]))
			externalLinkIndexes = append(externalLinkIndexes, linkIndex)
			linkIndex++
		}
	}

	if len(cycleLinkIndexes) > 0 || len(externalLinkIndexes) > 0 {
		b.WriteString("\n")
	}
	if len(cycleLinkIndexes) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#cc0000,stroke-width:3px;\n", joinInts(cycleLinkIndexes)))
	}
	if len(externalLinkIndexes) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#777777,stroke-dasharray:4 3;\n", joinInts(externalLinkIndexes)))
	}

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_metrics[\"Node line 1: module path\\nline 2: fan-in/fan-out\"]\n")
	b.WriteString("    legend_edges[\"Edge labels: CYCLE=import cycle, ext:N=external dependency count\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px;\n")
	b.WriteString("  class legend_metrics,legend_edges legendNode;\n")

	return b.String(), nil
}

func sanitizeMermaidID(module resolver.ModulePath) string {
	if module == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range module {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "m"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

func makeMermaidIDs(names []resolver.ModulePath) map[resolver.ModulePath]string {
	ids := make(map[resolver.ModulePath]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func toIDs(names []resolver.ModulePath, ids map[resolver.ModulePath]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}

func intersectOrdered(ordered []resolver.ModulePath, set map[resolver.ModulePath]bool) []resolver.ModulePath {
	out := make([]resolver.ModulePath, 0)
	for _, item := range ordered {
		if set[item] {
			out = append(out, item)
		}
	}
	return out
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v))
	for _, n := range v {
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	return strings.Join(parts, ",")
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
