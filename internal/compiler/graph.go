package compiler

import (
	"sort"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
)

// nodeState is a DFS color for cycle detection.
type nodeState int

const (
	unvisited nodeState = iota
	visiting
	done
)

// detectCycle runs DFS with color states over the non-delay subgraph and
// returns the cycle's signal paths if one exists. Delay edges are excluded
// from the graph entirely: they deliberately break algebraic loops per
// spec.md §4.5 step 5. Node visitation order is the sorted SignalId order so
// the reported cycle is deterministic across runs with the same spec.
func detectCycle(edges []ir.CompiledEdge, signalNS *namespace.Namespace[ir.SignalId]) []string {
	adjacency := make(map[ir.SignalId][]ir.SignalId)
	nodeSet := make(map[ir.SignalId]bool)
	for _, e := range edges {
		if e.IsDelay {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		nodeSet[e.Source] = true
		nodeSet[e.Target] = true
	}

	nodes := make([]ir.SignalId, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	state := make(map[ir.SignalId]nodeState)
	var stack []ir.SignalId
	var cycle []ir.SignalId

	var dfs func(ir.SignalId) bool
	dfs = func(node ir.SignalId) bool {
		state[node] = visiting
		stack = append(stack, node)

		neighbors := append([]ir.SignalId(nil), adjacency[node]...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, next := range neighbors {
			switch state[next] {
			case unvisited:
				if dfs(next) {
					return true
				}
			case visiting:
				start := 0
				for i, n := range stack {
					if n == next {
						start = i
						break
					}
				}
				cycle = append(append([]ir.SignalId(nil), stack[start:]...), next)
				return true
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
		return false
	}

	for _, n := range nodes {
		if state[n] == unvisited {
			if dfs(n) {
				break
			}
		}
	}

	if cycle == nil {
		return nil
	}

	paths := make([]string, len(cycle))
	for i, id := range cycle {
		paths[i] = signalNS.Lookup(id)
	}
	return paths
}

// topologicalSort reorders edges so that every is_delay edge comes first (in
// spec order), followed by the non-delay edges in Kahn topological order with
// a deterministic tie-break: among ready signals, the smallest SignalId goes
// first. Assumes detectCycle already confirmed the non-delay subgraph is
// acyclic.
func topologicalSort(edges []ir.CompiledEdge) []ir.CompiledEdge {
	var delayEdges, immediateEdges []ir.CompiledEdge
	for _, e := range edges {
		if e.IsDelay {
			delayEdges = append(delayEdges, e)
		} else {
			immediateEdges = append(immediateEdges, e)
		}
	}

	outgoing := make(map[ir.SignalId][]int)
	inDegree := make(map[ir.SignalId]int)
	nodeSet := make(map[ir.SignalId]bool)
	for i, e := range immediateEdges {
		outgoing[e.Source] = append(outgoing[e.Source], i)
		inDegree[e.Target]++
		nodeSet[e.Source] = true
		nodeSet[e.Target] = true
	}

	ready := make(map[ir.SignalId]bool)
	for n := range nodeSet {
		if inDegree[n] == 0 {
			ready[n] = true
		}
	}

	processed := make(map[int]bool)
	sorted := make([]ir.CompiledEdge, 0, len(immediateEdges))

	for len(ready) > 0 {
		var candidates []ir.SignalId
		for n := range ready {
			candidates = append(candidates, n)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
		sig := candidates[0]
		delete(ready, sig)

		edgeIdxs := append([]int(nil), outgoing[sig]...)
		sort.Ints(edgeIdxs)
		for _, idx := range edgeIdxs {
			if processed[idx] {
				continue
			}
			processed[idx] = true
			sorted = append(sorted, immediateEdges[idx])
			target := immediateEdges[idx].Target
			inDegree[target]--
			if inDegree[target] == 0 {
				ready[target] = true
			}
		}
	}

	out := make([]ir.CompiledEdge, 0, len(edges))
	out = append(out, delayEdges...)
	out = append(out, sorted...)
	return out
}
