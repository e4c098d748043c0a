// Package mincostflow solves min-cost flow problems on directed graphs
// with per-node demands and per-edge capacities and costs.
//
// A node with negative demand supplies flow; a node with positive demand
// consumes it. Solving finds the cheapest flow that satisfies every
// demand exactly, or reports that no such flow exists.
package mincostflow

import (
	"errors"
	"fmt"
	"math"
)

// ErrInfeasible is returned when the node demands cannot be satisfied.
var ErrInfeasible = errors.New("mincostflow: node demands cannot be satisfied")

// edge is one directed arc in the residual graph. Arcs are stored in
// forward/reverse pairs: arc i and arc i^1 are reverses of each other.
type edge struct {
	to   int
	cap  int
	cost float64
}

// Graph is a directed flow network under construction.
type Graph struct {
	names  []string
	index  map[string]int
	demand []int
	adj    [][]int
	edges  []edge
	solved bool
}

// NewGraph creates an empty flow network.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds a node with the given demand. Negative demand supplies
// flow into the network; positive demand consumes it. Adding a node
// twice replaces its demand.
func (g *Graph) AddNode(name string, demand int) {
	if idx, ok := g.index[name]; ok {
		g.demand[idx] = demand
		return
	}
	g.index[name] = len(g.names)
	g.names = append(g.names, name)
	g.demand = append(g.demand, demand)
	g.adj = append(g.adj, nil)
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// AddEdge adds a directed arc with the given capacity and per-unit cost.
// Parallel arcs are allowed. Both endpoints must already exist.
func (g *Graph) AddEdge(from, to string, capacity int, cost float64) error {
	fromIdx, ok := g.index[from]
	if !ok {
		return fmt.Errorf("mincostflow: unknown node %q", from)
	}
	toIdx, ok := g.index[to]
	if !ok {
		return fmt.Errorf("mincostflow: unknown node %q", to)
	}
	if capacity < 0 {
		return fmt.Errorf("mincostflow: negative capacity %d on edge %s->%s", capacity, from, to)
	}

	g.addArc(fromIdx, toIdx, capacity, cost)
	return nil
}

func (g *Graph) addArc(from, to, capacity int, cost float64) {
	g.adj[from] = append(g.adj[from], len(g.edges))
	g.edges = append(g.edges, edge{to: to, cap: capacity, cost: cost})
	g.adj[to] = append(g.adj[to], len(g.edges))
	g.edges = append(g.edges, edge{to: from, cap: 0, cost: -cost})
}

// Result holds the solved flow.
type Result struct {
	// Cost is the total cost of the flow.
	Cost float64

	graph *Graph
	flows []int // flow on each forward arc, indexed by arc/2
}

// Solve finds the cheapest flow satisfying every node demand, using
// successive shortest augmenting paths found with SPFA. It returns
// ErrInfeasible if the demands cannot all be met. A graph can only be
// solved once.
func (g *Graph) Solve() (*Result, error) {
	if g.solved {
		return nil, errors.New("mincostflow: graph already solved")
	}
	g.solved = true

	// Demand-to-capacity transformation: a super source feeds every
	// supplying node and a super sink drains every consuming node.
	// The demands are satisfiable iff the super source can push its
	// full supply.
	userArcCount := len(g.edges)

	source := len(g.names)
	sink := source + 1
	g.names = append(g.names, "_source", "_sink")
	g.demand = append(g.demand, 0, 0)
	g.adj = append(g.adj, nil, nil)

	required := 0
	for idx, d := range g.demand {
		if d < 0 {
			g.addArc(source, idx, -d, 0)
			required += -d
		} else if d > 0 {
			g.addArc(idx, sink, d, 0)
		}
	}

	pushed, cost := g.augment(source, sink)
	if pushed < required {
		return nil, ErrInfeasible
	}

	flows := make([]int, userArcCount/2)
	for i := 0; i < userArcCount; i += 2 {
		// flow on a forward arc equals the residual capacity of its
		// reverse arc
		flows[i/2] = g.edges[i^1].cap
	}

	return &Result{Cost: cost, graph: g, flows: flows}, nil
}

// augment repeatedly finds the cheapest augmenting path from source to
// sink in the residual graph and saturates it.
func (g *Graph) augment(source, sink int) (int, float64) {
	numNodes := len(g.names)
	totalFlow := 0
	totalCost := 0.0

	dist := make([]float64, numNodes)
	inQueue := make([]bool, numNodes)
	prevArc := make([]int, numNodes)

	for {
		for i := range dist {
			dist[i] = math.Inf(1)
			prevArc[i] = -1
		}
		dist[source] = 0

		// SPFA: Bellman-Ford with a queue, tolerant of the negative
		// residual costs introduced by reverse arcs
		queue := []int{source}
		inQueue[source] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			inQueue[u] = false

			for _, arcIdx := range g.adj[u] {
				arc := g.edges[arcIdx]
				if arc.cap <= 0 {
					continue
				}
				if next := dist[u] + arc.cost; next < dist[arc.to] {
					dist[arc.to] = next
					prevArc[arc.to] = arcIdx
					if !inQueue[arc.to] {
						queue = append(queue, arc.to)
						inQueue[arc.to] = true
					}
				}
			}
		}

		if prevArc[sink] == -1 {
			return totalFlow, totalCost
		}

		// bottleneck capacity along the path
		bottleneck := math.MaxInt
		for node := sink; node != source; {
			arcIdx := prevArc[node]
			if g.edges[arcIdx].cap < bottleneck {
				bottleneck = g.edges[arcIdx].cap
			}
			node = g.edges[arcIdx^1].to
		}

		for node := sink; node != source; {
			arcIdx := prevArc[node]
			g.edges[arcIdx].cap -= bottleneck
			g.edges[arcIdx^1].cap += bottleneck
			node = g.edges[arcIdx^1].to
		}

		totalFlow += bottleneck
		totalCost += dist[sink] * float64(bottleneck)
	}
}

// Flow returns the total flow across all arcs from one node to another.
func (r *Result) Flow(from, to string) int {
	fromIdx, ok := r.graph.index[from]
	if !ok {
		return 0
	}
	toIdx, ok := r.graph.index[to]
	if !ok {
		return 0
	}

	total := 0
	for _, arcIdx := range r.graph.adj[fromIdx] {
		if arcIdx%2 == 0 && arcIdx/2 < len(r.flows) && r.graph.edges[arcIdx].to == toIdx {
			total += r.flows[arcIdx/2]
		}
	}
	return total
}

// Outflow returns the positive flow leaving a node, keyed by head node.
func (r *Result) Outflow(from string) map[string]int {
	fromIdx, ok := r.graph.index[from]
	if !ok {
		return nil
	}

	flows := make(map[string]int)
	for _, arcIdx := range r.graph.adj[fromIdx] {
		if arcIdx%2 != 0 || arcIdx/2 >= len(r.flows) {
			continue
		}
		if flow := r.flows[arcIdx/2]; flow > 0 {
			flows[r.graph.names[r.graph.edges[arcIdx].to]] += flow
		}
	}
	return flows
}
