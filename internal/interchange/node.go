package interchange

import (
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Node is an interchange node.
type Node struct {
	Name     string
	Category string
	// Type is the node's output type.
	Type string
	// NodeDef is the identifier of the node definition the node instantiates.
	NodeDef string

	graph  *NodeGraph
	inputs []*Input
}

func newNode(category, name, outputType string) *Node {
	return &Node{Name: name, Category: category, Type: outputType}
}

// Graph returns the graph that owns the node, or nil for top-level nodes.
func (n *Node) Graph() *NodeGraph {
	return n.graph
}

// Input returns the input with the given name.
func (n *Node) Input(name string) (*Input, bool) {
	for _, in := range n.inputs {
		if in.Name == name {
			return in, true
		}
	}
	return nil, false
}

// Inputs returns the node's inputs in creation order.
func (n *Node) Inputs() []*Input {
	return slices.Clone(n.inputs)
}

// AddInput returns the named input, creating it with the given type if needed.
func (n *Node) AddInput(name, typeName string) *Input {
	if in, ok := n.Input(name); ok {
		return in
	}
	in := &Input{Name: name, Type: typeName, Value: cty.NilVal}
	n.inputs = append(n.inputs, in)
	return in
}

// SetInputValue sets an input's value and type, creating the input if needed.
func (n *Node) SetInputValue(name string, value cty.Value, typeName string) *Input {
	in := n.AddInput(name, typeName)
	in.Type = typeName
	in.Value = value
	return in
}

// RemoveInput removes the named input.
func (n *Node) RemoveInput(name string) {
	n.inputs = slices.DeleteFunc(n.inputs, func(in *Input) bool { return in.Name == name })
}

// Upstream returns the distinct nodes connected to the node's inputs, in
// input order.
func (n *Node) Upstream() []*Node {
	var out []*Node
	for _, in := range n.inputs {
		if in.connected != nil && !slices.Contains(out, in.connected) {
			out = append(out, in.connected)
		}
	}
	return out
}

func (n *Node) disconnect(target *Node) {
	for _, in := range n.inputs {
		if in.connected == target {
			in.connected = nil
			in.Output = ""
		}
	}
}

// Input is a typed input of a node holding either a value or a connection.
type Input struct {
	Name  string
	Type  string
	Value cty.Value
	// Output names the upstream output when connected to a multi-output node.
	Output string

	connected *Node
}

// ConnectedNode returns the upstream node, or nil.
func (in *Input) ConnectedNode() *Node {
	return in.connected
}

// SetConnectedNode connects the input to n. Passing nil disconnects it.
func (in *Input) SetConnectedNode(n *Node) {
	in.connected = n
	if n == nil {
		in.Output = ""
	}
}

// IsConnected reports whether the input has an upstream node.
func (in *Input) IsConnected() bool {
	return in.connected != nil
}
