// SPDX-License-Identifier: MPL-2.0

// Package dag builds directed dependency graphs from named records and decides
// whether they contain a cycle.
//
// A Builder resolves names to dense VertexID handles in first-seen order and
// keeps edges as a set per source. The resulting Graph is immutable. A Detector
// runs a three-color depth-first search over a Graph, keeping the visit state
// in its own table so the graph is never mutated by traversal.
package dag
