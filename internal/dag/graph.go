// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"fmt"
	"maps"
	"slices"
)

type (
	// VertexID is the stable handle of a vertex within one Graph.
	// IDs are dense (0..n-1) and assigned in the order names are first seen.
	VertexID int

	// Graph is a directed graph whose edges point from an entity to the
	// entities it depends on. A Graph is immutable once returned by Builder.Graph.
	Graph struct {
		// names maps a VertexID to its external name.
		names []string
		// index provides O(1) name resolution.
		index map[string]VertexID
		// adjacency holds the outgoing edges of each vertex in insertion order.
		adjacency [][]VertexID
		edges     int
	}

	// edgeKey identifies one directed edge for deduplication.
	edgeKey struct {
		from, to VertexID
	}

	// Builder accumulates dependency records into a Graph.
	// The zero value is not usable; create builders with NewBuilder.
	Builder struct {
		graph *Graph
		seen  map[edgeKey]struct{}
	}
)

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		graph: newGraph(),
		seen:  make(map[edgeKey]struct{}),
	}
}

func newGraph() *Graph {
	return &Graph{index: make(map[string]VertexID)}
}

// Add records that source depends on each of dependencies.
//
// The source and every dependency are materialized as vertices on first sight.
// Repeated declarations of the same source append new dependencies rather than
// replacing earlier ones, and an edge that already exists is not added again.
// A source may depend on itself; the self-loop is kept.
func (b *Builder) Add(source string, dependencies ...string) {
	from := b.resolve(source)
	for _, dep := range dependencies {
		to := b.resolve(dep)
		key := edgeKey{from: from, to: to}
		if _, ok := b.seen[key]; ok {
			continue
		}
		b.seen[key] = struct{}{}
		b.graph.adjacency[from] = append(b.graph.adjacency[from], to)
		b.graph.edges++
	}
}

// resolve returns the id for name, creating a zero out-degree vertex when the
// name has not been seen yet.
func (b *Builder) resolve(name string) VertexID {
	if id, ok := b.graph.index[name]; ok {
		return id
	}
	id := VertexID(len(b.graph.names))
	b.graph.names = append(b.graph.names, name)
	b.graph.adjacency = append(b.graph.adjacency, nil)
	b.graph.index[name] = id
	return id
}

// Graph returns a snapshot of everything added so far. Later calls to Add do
// not affect a Graph that has already been returned.
func (b *Builder) Graph() *Graph {
	src := b.graph
	g := &Graph{
		names:     slices.Clone(src.names),
		index:     maps.Clone(src.index),
		adjacency: make([][]VertexID, len(src.adjacency)),
		edges:     src.edges,
	}
	for id, adj := range src.adjacency {
		g.adjacency[id] = slices.Clone(adj)
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.names)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Name returns the external name of id. It panics if id is not a vertex of g.
func (g *Graph) Name(id VertexID) string {
	g.mustContain(id)
	return g.names[id]
}

// Lookup resolves a name to its VertexID.
func (g *Graph) Lookup(name string) (VertexID, bool) {
	id, ok := g.index[name]
	return id, ok
}

// Names returns all vertex names in id order.
func (g *Graph) Names() []string {
	return slices.Clone(g.names)
}

// Dependencies returns the direct dependencies of id in insertion order.
// The returned slice is a copy.
func (g *Graph) Dependencies(id VertexID) []VertexID {
	g.mustContain(id)
	return slices.Clone(g.adjacency[id])
}

// neighbors returns the adjacency of id without copying. Callers must not
// modify the result.
func (g *Graph) neighbors(id VertexID) []VertexID {
	return g.adjacency[id]
}

func (g *Graph) mustContain(id VertexID) {
	if id < 0 || int(id) >= len(g.names) {
		panic(fmt.Sprintf("dag: vertex id %d out of range [0, %d)", id, len(g.names)))
	}
}
