package network

import (
	"maps"
	"slices"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Node is a single record of a Network.
type Node struct {
	Type        string
	Parameters  map[string]cty.Value
	Connections map[string][]Connection
}

func newNode(nodeType string) *Node {
	return &Node{
		Type:        nodeType,
		Parameters:  make(map[string]cty.Value),
		Connections: make(map[string][]Connection),
	}
}

// Network is the in-memory implementation of Interface.
type Network struct {
	materialPath string
	nodes        map[string]*Node
	terminals    map[string]Connection
}

var _ Interface = (*Network)(nil)

// New creates an empty network owned by the given material path.
func New(materialPath string) *Network {
	return &Network{
		materialPath: materialPath,
		nodes:        make(map[string]*Node),
		terminals:    make(map[string]Connection),
	}
}

// MaterialPath implements Interface.
func (n *Network) MaterialPath() string { return n.materialPath }

// NodeNames implements Interface.
func (n *Network) NodeNames() []string {
	return sortedKeys(n.nodes)
}

// Node returns the underlying record of a node. Callers must not retain it
// across mutations.
func (n *Network) Node(name string) (*Node, bool) {
	node, ok := n.nodes[name]
	return node, ok
}

// NodeType implements Interface.
func (n *Network) NodeType(name string) string {
	if node, ok := n.nodes[name]; ok {
		return node.Type
	}
	return ""
}

// SetNodeType implements Interface.
func (n *Network) SetNodeType(name, nodeType string) {
	if node, ok := n.nodes[name]; ok {
		node.Type = nodeType
		return
	}
	n.nodes[name] = newNode(nodeType)
}

// DeleteNode implements Interface.
func (n *Network) DeleteNode(name string) {
	delete(n.nodes, name)
}

// Parameter implements Interface.
func (n *Network) Parameter(name, param string) (cty.Value, bool) {
	node, ok := n.nodes[name]
	if !ok {
		return cty.NilVal, false
	}
	v, ok := node.Parameters[param]
	return v, ok
}

// SetParameter implements Interface. It is a no-op for unknown nodes.
func (n *Network) SetParameter(name, param string, value cty.Value) {
	if node, ok := n.nodes[name]; ok {
		node.Parameters[param] = value
	}
}

// DeleteParameter implements Interface.
func (n *Network) DeleteParameter(name, param string) {
	if node, ok := n.nodes[name]; ok {
		delete(node.Parameters, param)
	}
}

// ParameterNames implements Interface.
func (n *Network) ParameterNames(name string) []string {
	node, ok := n.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(node.Parameters)
}

// Connections implements Interface.
func (n *Network) Connections(name, input string) []Connection {
	node, ok := n.nodes[name]
	if !ok {
		return nil
	}
	return slices.Clone(node.Connections[input])
}

// SetConnections implements Interface. It is a no-op for unknown nodes.
func (n *Network) SetConnections(name, input string, conns []Connection) {
	node, ok := n.nodes[name]
	if !ok {
		return
	}
	if len(conns) == 0 {
		delete(node.Connections, input)
		return
	}
	node.Connections[input] = slices.Clone(conns)
}

// DeleteConnections implements Interface.
func (n *Network) DeleteConnections(name, input string) {
	if node, ok := n.nodes[name]; ok {
		delete(node.Connections, input)
	}
}

// ConnectionNames implements Interface.
func (n *Network) ConnectionNames(name string) []string {
	node, ok := n.nodes[name]
	if !ok {
		return nil
	}
	return sortedKeys(node.Connections)
}

// TerminalConnection implements Interface.
func (n *Network) TerminalConnection(terminal string) (Connection, bool) {
	c, ok := n.terminals[terminal]
	return c, ok
}

// SetTerminalConnection implements Interface.
func (n *Network) SetTerminalConnection(terminal string, conn Connection) {
	n.terminals[terminal] = conn
}

// TerminalNames implements Interface.
func (n *Network) TerminalNames() []string {
	return sortedKeys(n.terminals)
}

// Clone returns an independent deep copy of the network. Parameter values
// are immutable cty values and are shared.
func (n *Network) Clone() *Network {
	out := New(n.materialPath)
	for name, node := range n.nodes {
		cp := newNode(node.Type)
		maps.Copy(cp.Parameters, node.Parameters)
		for input, conns := range node.Connections {
			cp.Connections[input] = slices.Clone(conns)
		}
		out.nodes[name] = cp
	}
	maps.Copy(out.terminals, n.terminals)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
