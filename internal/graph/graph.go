// # internal/graph/graph.go
package graph

import (
	"sort"

	"extricrate/internal/observability"
	"extricrate/internal/resolver"
)

// Graph is the module dependency graph derived from a finished ImportIndex.
// Nodes are module paths; an edge records "imports from". Immutable after
// Build.
type Graph struct {
	edges      map[resolver.ModulePath]map[resolver.ModulePath]bool
	importedBy map[resolver.ModulePath]map[resolver.ModulePath]bool
}

type ModuleMetrics struct {
	FanIn  int
	FanOut int
}

// Build folds every import record into the graph. The fold is a pure set
// union, so the result is identical regardless of file iteration order.
// Self-loops and cycles are preserved; the builder reports structure, it
// never validates it.
func Build(index resolver.ImportIndex) *Graph {
	g := &Graph{
		edges:      make(map[resolver.ModulePath]map[resolver.ModulePath]bool),
		importedBy: make(map[resolver.ModulePath]map[resolver.ModulePath]bool),
	}

	for _, records := range index {
		for _, record := range records {
			from := record.Module
			if g.edges[from] == nil {
				g.edges[from] = make(map[resolver.ModulePath]bool)
			}
			for _, to := range record.Targets() {
				g.edges[from][to] = true
				if g.importedBy[to] == nil {
					g.importedBy[to] = make(map[resolver.ModulePath]bool)
				}
				g.importedBy[to][from] = true
			}
		}
	}

	observability.GraphNodes.Set(float64(len(g.edges)))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	return g
}

// Modules returns every module with at least one recorded declaration,
// sorted.
func (g *Graph) Modules() []resolver.ModulePath {
	return sortedPaths(g.edges)
}

// Dependencies returns the sorted set of modules that module imports from.
func (g *Graph) Dependencies(module resolver.ModulePath) []resolver.ModulePath {
	return sortedPaths(g.edges[module])
}

// Dependents returns the sorted set of modules importing from module.
func (g *Graph) Dependents(module resolver.ModulePath) []resolver.ModulePath {
	return sortedPaths(g.importedBy[module])
}

func (g *Graph) HasEdge(from, to resolver.ModulePath) bool {
	return g.edges[from][to]
}

func (g *Graph) ModuleCount() int {
	return len(g.edges)
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// ExternalTargets returns imported modules that are not local to the crate,
// sorted. These are opaque leaves: the resolver records their paths but never
// walks into them.
func (g *Graph) ExternalTargets() []resolver.ModulePath {
	set := make(map[resolver.ModulePath]bool)
	for _, targets := range g.edges {
		for to := range targets {
			if !to.IsLocal() {
				set[to] = true
			}
		}
	}
	return sortedPaths(set)
}

// Metrics computes fan-in/fan-out per declaring module.
func (g *Graph) Metrics() map[resolver.ModulePath]ModuleMetrics {
	metrics := make(map[resolver.ModulePath]ModuleMetrics, len(g.edges))
	for _, module := range g.Modules() {
		metrics[module] = ModuleMetrics{
			FanIn:  len(g.importedBy[module]),
			FanOut: len(g.edges[module]),
		}
	}
	return metrics
}

func sortedPaths[V any](set map[resolver.ModulePath]V) []resolver.ModulePath {
	out := make([]resolver.ModulePath, 0, len(set))
	for path := range set {
		out = append(out, path)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
