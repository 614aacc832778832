// SPDX-License-Identifier: MPL-2.0

package dag

import "fmt"

const (
	// Unvisited marks a vertex the traversal has not reached yet.
	Unvisited VisitState = iota
	// InProgress marks a vertex on the active traversal path.
	InProgress
	// Done marks a vertex whose reachable subgraph is fully explored without
	// finding a cycle.
	Done
)

type (
	// VisitState is the traversal color of a vertex: white, gray or black.
	VisitState uint8

	// Detector decides whether a Graph contains a directed cycle.
	// Visit state is kept in the Detector, keyed by VertexID, so the Graph
	// itself is never mutated. A Detector is not safe for concurrent use.
	Detector struct {
		graph *Graph
		state []VisitState
		stack []frame
	}

	// frame is one level of the explicit traversal stack.
	frame struct {
		vertex VertexID
		// next is the index into the vertex adjacency of the neighbor to try next.
		next int
	}
)

// String returns a lowercase name for the state.
func (s VisitState) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case InProgress:
		return "in-progress"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("VisitState(%d)", uint8(s))
	}
}

// NewDetector creates a Detector for g.
func NewDetector(g *Graph) *Detector {
	return &Detector{
		graph: g,
		state: make([]VisitState, g.Len()),
	}
}

// HasCycle reports whether g contains a directed cycle, including self-loops.
func HasCycle(g *Graph) bool {
	return NewDetector(g).HasCycle()
}

// HasCycle runs a full traversal and reports whether a back edge to an
// in-progress vertex exists. Every call starts from a clean state table, so
// repeated calls on the same Graph return the same verdict.
func (d *Detector) HasCycle() bool {
	clear(d.state)
	for root := range d.state {
		if d.state[root] != Unvisited {
			continue
		}
		if d.visit(VertexID(root)) {
			return true
		}
	}
	return false
}

// State returns the visit state id was left in by the last HasCycle call.
func (d *Detector) State(id VertexID) VisitState {
	d.graph.mustContain(id)
	return d.state[id]
}

// visit explores everything reachable from root. The work stack replaces
// native recursion so depth is bounded by memory rather than goroutine stack.
func (d *Detector) visit(root VertexID) bool {
	d.stack = append(d.stack[:0], frame{vertex: root})
	d.state[root] = InProgress

	for len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]
		adj := d.graph.neighbors(top.vertex)

		if top.next == len(adj) {
			d.state[top.vertex] = Done
			d.stack = d.stack[:len(d.stack)-1]
			continue
		}

		next := adj[top.next]
		top.next++

		switch d.state[next] {
		case Unvisited:
			d.state[next] = InProgress
			d.stack = append(d.stack, frame{vertex: next})
		case InProgress:
			return true
		case Done:
		}
	}
	return false
}
