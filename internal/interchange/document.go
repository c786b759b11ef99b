package interchange

import (
	"maps"
	"slices"

	"github.com/vk/matfilt/internal/config"
)

// Document is an interchange document.
type Document struct {
	graphs []*NodeGraph
	nodes  []*Node
	defs   map[string]*config.NodeDefinition
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{defs: make(map[string]*config.NodeDefinition)}
}

// AddNodeGraph creates a new node graph. Callers guarantee name uniqueness.
func (d *Document) AddNodeGraph(name string) *NodeGraph {
	g := &NodeGraph{Name: name, doc: d}
	d.graphs = append(d.graphs, g)
	return g
}

// NodeGraph returns the graph with the given name.
func (d *Document) NodeGraph(name string) (*NodeGraph, bool) {
	for _, g := range d.graphs {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// NodeGraphs returns every graph in creation order.
func (d *Document) NodeGraphs() []*NodeGraph {
	return slices.Clone(d.graphs)
}

// LastNodeGraph returns the most recently created graph, or nil.
func (d *Document) LastNodeGraph() *NodeGraph {
	if len(d.graphs) == 0 {
		return nil
	}
	return d.graphs[len(d.graphs)-1]
}

// AddNode adds a top-level node.
func (d *Document) AddNode(category, name, outputType string) *Node {
	n := newNode(category, name, outputType)
	d.nodes = append(d.nodes, n)
	return n
}

// Node returns the top-level node with the given name.
func (d *Document) Node(name string) (*Node, bool) {
	return findNode(d.nodes, name)
}

// Nodes returns the top-level nodes in creation order.
func (d *Document) Nodes() []*Node {
	return slices.Clone(d.nodes)
}

// RemoveNode removes a top-level node. Inputs elsewhere that referenced it
// are disconnected.
func (d *Document) RemoveNode(name string) {
	n, ok := d.Node(name)
	if !ok {
		return
	}
	d.nodes = slices.DeleteFunc(d.nodes, func(x *Node) bool { return x == n })
	d.disconnect(n)
}

func (d *Document) disconnect(target *Node) {
	for _, n := range d.nodes {
		n.disconnect(target)
	}
	for _, g := range d.graphs {
		for _, n := range g.nodes {
			n.disconnect(target)
		}
	}
}

// AddNodeDef registers a node definition with the document.
func (d *Document) AddNodeDef(def *config.NodeDefinition) {
	d.defs[def.Identifier] = def
}

// NodeDef returns the node definition with the given identifier.
func (d *Document) NodeDef(identifier string) (*config.NodeDefinition, bool) {
	def, ok := d.defs[identifier]
	return def, ok
}

// NodeDefCount returns the number of node definitions.
func (d *Document) NodeDefCount() int {
	return len(d.defs)
}

// ImportLibrary copies every node definition of lib into d.
func (d *Document) ImportLibrary(lib *Document) {
	if lib == nil {
		return
	}
	maps.Copy(d.defs, lib.defs)
}

// NodeGraph is a named container of nodes.
type NodeGraph struct {
	Name  string
	doc   *Document
	nodes []*Node
}

// Document returns the owning document.
func (g *NodeGraph) Document() *Document {
	return g.doc
}

// AddNode adds a node to the graph, replacing any node with the same name.
func (g *NodeGraph) AddNode(category, name, outputType string) *Node {
	g.RemoveNode(name)
	n := newNode(category, name, outputType)
	n.graph = g
	g.nodes = append(g.nodes, n)
	return n
}

// Node returns the node with the given name.
func (g *NodeGraph) Node(name string) (*Node, bool) {
	return findNode(g.nodes, name)
}

// Nodes returns the graph's nodes in creation order.
func (g *NodeGraph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// RemoveNode removes a node and disconnects every input that referenced it.
func (g *NodeGraph) RemoveNode(name string) {
	n, ok := g.Node(name)
	if !ok {
		return
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(x *Node) bool { return x == n })
	if g.doc != nil {
		g.doc.disconnect(n)
	}
}

func findNode(nodes []*Node, name string) (*Node, bool) {
	for _, n := range nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}
