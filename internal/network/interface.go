package network

import "github.com/zclconf/go-cty/cty"

// SurfaceTerminal is the name of the terminal a renderer shades surfaces with.
const SurfaceTerminal = "surface"

// Connection references one output of an upstream node.
type Connection struct {
	UpstreamNode   string
	UpstreamOutput string
}

// Interface is the narrow view of a material network the rewrite works
// against.
//
// Implementations are not required to be safe for concurrent use; a rewrite
// pass owns the network exclusively for its duration.
type Interface interface {
	// MaterialPath returns the path of the material that owns the network.
	MaterialPath() string

	// NodeNames returns every node name in sorted order.
	NodeNames() []string
	// NodeType returns the node's type identifier, or "" if the node does
	// not exist.
	NodeType(node string) string
	// SetNodeType sets the node's type, creating the node if needed.
	SetNodeType(node, nodeType string)
	// DeleteNode removes the node with all its parameters and connections.
	DeleteNode(node string)

	// Parameter returns an authored parameter value.
	Parameter(node, name string) (cty.Value, bool)
	// SetParameter authors a parameter value on an existing node.
	SetParameter(node, name string, value cty.Value)
	// DeleteParameter removes an authored parameter.
	DeleteParameter(node, name string)
	// ParameterNames returns the authored parameter names in sorted order.
	ParameterNames(node string) []string

	// Connections returns the upstream connections of an input.
	Connections(node, input string) []Connection
	// SetConnections replaces the upstream connections of an input.
	SetConnections(node, input string, conns []Connection)
	// DeleteConnections removes every connection of an input.
	DeleteConnections(node, input string)
	// ConnectionNames returns the connected input names in sorted order.
	ConnectionNames(node string) []string

	// TerminalConnection returns the connection of a named terminal.
	TerminalConnection(terminal string) (Connection, bool)
	// SetTerminalConnection sets the connection of a named terminal.
	SetTerminalConnection(terminal string, conn Connection)
	// TerminalNames returns the terminal names in sorted order.
	TerminalNames() []string
}
