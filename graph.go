package peel

import (
	"github.com/mel2oo/go-peel/sets"
	"github.com/pkg/errors"
)

// NodeID is a dense integer handle assigned at insertion. Handles remain
// valid for the lifetime of the Graph; adding nodes never invalidates
// earlier handles.
type NodeID int

type node[S any] struct {
	id       NodeID
	parser   Parser[S]
	children []NodeID
}

// Graph is a directed graph of parser-bearing nodes defining the legal
// transitions between parsing steps. The zero value is not usable; build
// one with NewGraph.
//
// A Graph is never mutated by a traversal (see Driver.Traverse). Building
// the graph itself is not safe for concurrent use, but a fully built graph
// may be shared read-only across concurrent traversals as long as the
// parsers it holds are themselves safe for concurrent read-only use.
type Graph[S any] struct {
	nodes []node[S]

	// hasIncoming tracks which node IDs have at least one incoming edge, so
	// that Roots checks each node in O(1) rather than by rescanning every
	// edge; a Roots query still visits every node.
	hasIncoming sets.Set[NodeID]
}

// NewGraph returns an empty graph ready to accept parsers.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		hasIncoming: sets.NewSet[NodeID](),
	}
}

// NewParser inserts p as a new root-eligible node and returns its handle.
func (g *Graph[S]) NewParser(p Parser[S]) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node[S]{id: id, parser: p})
	return id
}

// LinkNewParser inserts p as a new node and adds an edge parent -> new. It
// returns an error if parent is not a known node ID.
func (g *Graph[S]) LinkNewParser(parent NodeID, p Parser[S]) (NodeID, error) {
	if !g.valid(parent) {
		return 0, errors.Errorf("peel: unknown parent node %d", parent)
	}
	child := g.NewParser(p)
	// Link cannot fail here: parent and child are both known-good.
	_ = g.Link(parent, child)
	return child, nil
}

// Link adds an edge between two existing nodes. Adding a duplicate edge is
// a no-op: at most one edge is kept per ordered (parent, child) pair.
func (g *Graph[S]) Link(parent, child NodeID) error {
	if !g.valid(parent) {
		return errors.Errorf("peel: unknown parent node %d", parent)
	}
	if !g.valid(child) {
		return errors.Errorf("peel: unknown child node %d", child)
	}

	p := &g.nodes[parent]
	for _, existing := range p.children {
		if existing == child {
			return nil
		}
	}
	p.children = append(p.children, child)
	g.hasIncoming.Insert(child)
	return nil
}

// Children returns n's outgoing neighbors in insertion (probe) order.
func (g *Graph[S]) Children(n NodeID) []NodeID {
	if !g.valid(n) {
		return nil
	}
	// Return a copy: callers must not be able to mutate graph structure
	// through the returned slice.
	out := make([]NodeID, len(g.nodes[n].children))
	copy(out, g.nodes[n].children)
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph[S]) NodeCount() int {
	return len(g.nodes)
}

// NodeIndices returns every handle returned by NewParser/LinkNewParser,
// each exactly once, in insertion order.
func (g *Graph[S]) NodeIndices() []NodeID {
	out := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].id
	}
	return out
}

// Roots returns the nodes with no incoming edge, in ascending ID order.
// The canonical graph shape has exactly one root.
func (g *Graph[S]) Roots() []NodeID {
	var roots []NodeID
	for i := range g.nodes {
		id := g.nodes[i].id
		if !g.hasIncoming.Contains(id) {
			roots = append(roots, id)
		}
	}
	return roots
}

// Variant returns the variant tag of the parser held by node n, or "" if n
// is not a valid node ID.
func (g *Graph[S]) Variant(n NodeID) VariantTag {
	if !g.valid(n) {
		return ""
	}
	return g.nodes[n].parser.Variant()
}

func (g *Graph[S]) valid(n NodeID) bool {
	return n >= 0 && int(n) < len(g.nodes)
}

func (g *Graph[S]) parserAt(n NodeID) Parser[S] {
	return g.nodes[n].parser
}
