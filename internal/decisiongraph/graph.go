// Package decisiongraph builds the eligibility decision graph: a tree of
// nodes rooted at Start, grown level by level (occupation, visas, states,
// pathways, rule summaries) as the caller's selection narrows. Construction
// is pure and deterministic; node keys encode the path that produced them,
// which is what makes repeated incremental builds idempotent.
package decisiongraph

import (
	"fmt"

	"github.com/visapath/visapath-cli/api/schemas"
)

// ErrDanglingEdge reports an edge whose endpoint node is absent. This is a
// graph-construction bug, not a data problem, so it surfaces as an error
// instead of being swallowed.
var ErrDanglingEdge = fmt.Errorf("edge references a node that does not exist")

// Graph is an append-only node/edge collection with a key index for
// idempotent insertion. The zero value is not usable; call New.
type Graph struct {
	nodes []schemas.Node
	links []schemas.Edge
	index map[string]int
	edges map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		edges: make(map[string]struct{}),
	}
}

// Clone returns an independent copy. Builders clone before appending so a
// base graph handed in by the caller is never mutated.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]schemas.Node, len(g.nodes)),
		links: make([]schemas.Edge, len(g.links)),
		index: make(map[string]int, len(g.index)),
		edges: make(map[string]struct{}, len(g.edges)),
	}
	copy(c.nodes, g.nodes)
	copy(c.links, g.links)
	for k, v := range g.index {
		c.index[k] = v
	}
	for k := range g.edges {
		c.edges[k] = struct{}{}
	}
	return c
}

// Has reports whether a node with the given key exists.
func (g *Graph) Has(key string) bool {
	_, ok := g.index[key]
	return ok
}

// Node returns the node with the given key.
func (g *Graph) Node(key string) (schemas.Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return schemas.Node{}, false
	}
	return g.nodes[i], true
}

// AddNode appends a node unless one with the same key already exists.
// Returns true when the node was inserted.
func (g *Graph) AddNode(n schemas.Node) bool {
	if _, exists := g.index[n.Key]; exists {
		return false
	}
	g.index[n.Key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return true
}

// AddEdge appends a directed edge. Both endpoints must already exist;
// re-adding an identical (from, to) pair is a no-op.
func (g *Graph) AddEdge(e schemas.Edge) error {
	if !g.Has(e.From) {
		return fmt.Errorf("%w: from %q", ErrDanglingEdge, e.From)
	}
	if !g.Has(e.To) {
		return fmt.Errorf("%w: to %q", ErrDanglingEdge, e.To)
	}
	key := e.From + "\x00" + e.To
	if _, exists := g.edges[key]; exists {
		return nil
	}
	g.edges[key] = struct{}{}
	g.links = append(g.links, e)
	return nil
}

// NodeCount and EdgeCount report graph sizes.
func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.links) }

// Payload projects the graph into the outward render contract. The slices
// are copies; mutating them does not affect the graph.
func (g *Graph) Payload() schemas.GraphPayload {
	nodes := make([]schemas.Node, len(g.nodes))
	links := make([]schemas.Edge, len(g.links))
	copy(nodes, g.nodes)
	copy(links, g.links)
	return schemas.GraphPayload{Nodes: nodes, Links: links}
}
