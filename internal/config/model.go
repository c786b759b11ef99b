package config

import (
	"github.com/vk/matfilt/internal/network"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of everything loaded
// from configuration files.
type Model struct {
	// NodeDefs holds node definitions in load order.
	NodeDefs []*NodeDefinition
	// Materials holds the shading networks in load order.
	Materials []*Material
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Merge appends the content of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.NodeDefs = append(m.NodeDefs, other.NodeDefs...)
	m.Materials = append(m.Materials, other.Materials...)
}

// Material returns the material with the given path.
func (m *Model) Material(path string) (*Material, bool) {
	for _, mat := range m.Materials {
		if mat.Path == path {
			return mat, true
		}
	}
	return nil, false
}

// --- Node definition models ---

// NodeDefinition is the format-agnostic representation of a `nodedef` block.
type NodeDefinition struct {
	Identifier  string
	Node        string
	SourceType  string
	Family      string
	Description string
	Metadata    map[string]string
	Inputs      []*PortDefinition
	Outputs     []*PortDefinition
}

// PortDefinition defines a single input or output of a node definition.
type PortDefinition struct {
	Name        string
	Type        string // interchange type name, see package shadetype
	Description string
	Default     *cty.Value
}

// --- Network models ---

// Material is the format-agnostic representation of a `material` block.
type Material struct {
	Path      string
	Terminals map[string]Connection
	Nodes     []*Node
}

// Node is a single node of a material network.
type Node struct {
	Name        string
	Type        string
	Parameters  map[string]cty.Value
	Connections map[string][]Connection
}

// Connection references an output of a node.
type Connection struct {
	Node   string
	Output string
}

// Network converts the material into a mutable in-memory network.
func (m *Material) Network() *network.Network {
	net := network.New(m.Path)
	for _, n := range m.Nodes {
		net.SetNodeType(n.Name, n.Type)
		for name, v := range n.Parameters {
			net.SetParameter(n.Name, name, v)
		}
		for input, conns := range n.Connections {
			out := make([]network.Connection, len(conns))
			for i, c := range conns {
				out[i] = network.Connection{UpstreamNode: c.Node, UpstreamOutput: c.Output}
			}
			net.SetConnections(n.Name, input, out)
		}
	}
	for name, c := range m.Terminals {
		net.SetTerminalConnection(name, network.Connection{UpstreamNode: c.Node, UpstreamOutput: c.Output})
	}
	return net
}
