// # internal/graph/detect.go
package graph

import "extricrate/internal/resolver"

// DetectCycles finds import cycles between modules. Deterministic: traversal
// follows sorted module order.
func (g *Graph) DetectCycles() [][]resolver.ModulePath {
	var cycles [][]resolver.ModulePath
	visited := make(map[resolver.ModulePath]bool)
	onStack := make(map[resolver.ModulePath]bool)

	for _, module := range g.Modules() {
		if !visited[module] {
			g.findCycles(module, visited, onStack, nil, &cycles)
		}
	}

	return cycles
}

func (g *Graph) findCycles(curr resolver.ModulePath, visited, onStack map[resolver.ModulePath]bool, path []resolver.ModulePath, cycles *[][]resolver.ModulePath) {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range g.Dependencies(curr) {
		if onStack[next] {
			cycleStart := -1
			for i, mod := range path {
				if mod == next {
					cycleStart = i
					break
				}
			}
			if cycleStart != -1 {
				cycle := make([]resolver.ModulePath, len(path)-cycleStart)
				copy(cycle, path[cycleStart:])
				*cycles = append(*cycles, cycle)
			}
		} else if !visited[next] {
			g.findCycles(next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
}

// CyclesInvolving filters detected cycles down to those touching the given
// module or its descendants. A module that both depends on and is depended on
// by the rest of the crate cannot be cleanly extracted; callers use this to
// decide before attempting a split.
func (g *Graph) CyclesInvolving(module resolver.ModulePath) [][]resolver.ModulePath {
	var out [][]resolver.ModulePath
	for _, cycle := range g.DetectCycles() {
		for _, mod := range cycle {
			if mod.HasPrefix(module) {
				out = append(out, cycle)
				break
			}
		}
	}
	return out
}
