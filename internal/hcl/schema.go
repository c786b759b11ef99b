package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	NodeDefs  []*NodeDefinition `hcl:"nodedef,block"`
	Materials []*Material       `hcl:"material,block"`
	Remain    hcl.Body          `hcl:",remain"`
}

// --- Node definition schemas ---

// NodeDefinition represents a `nodedef` block:
//
//	nodedef "ND_image_color3" {
//	  node        = "image"
//	  source_type = "mtlx"
//	  metadata    = { primvars = "st" }
//	  input "file" {
//	    type    = filename
//	    default = ""
//	  }
//	  output "out" { type = color3 }
//	}
type NodeDefinition struct {
	Identifier  string            `hcl:"identifier,label"`
	Node        string            `hcl:"node"`
	SourceType  string            `hcl:"source_type,optional"`
	Family      string            `hcl:"family,optional"`
	Description string            `hcl:"description,optional"`
	Metadata    map[string]string `hcl:"metadata,optional"`
	Inputs      []*PortDefinition `hcl:"input,block"`
	Outputs     []*PortDefinition `hcl:"output,block"`
}

// PortDefinition defines a single input or output of a node definition.
type PortDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}

// --- Network schemas ---

// Material represents a `material` block holding one shading network.
type Material struct {
	Path      string      `hcl:"path,label"`
	Terminals []*Terminal `hcl:"terminal,block"`
	Nodes     []*Node     `hcl:"node,block"`
}

// Terminal binds a named material terminal to a node output.
type Terminal struct {
	Name   string `hcl:"name,label"`
	Node   string `hcl:"node"`
	Output string `hcl:"output,optional"`
}

// Node represents a `node` block of a material.
type Node struct {
	Name        string        `hcl:"name,label"`
	Type        string        `hcl:"type"`
	Parameters  *Parameters   `hcl:"parameters,block"`
	Connections []*Connection `hcl:"connection,block"`
}

// Parameters holds the free-form authored parameter values of a node.
type Parameters struct {
	Body hcl.Body `hcl:",remain"`
}

// Connection connects a node input to an upstream output. Repeated blocks
// with the same input label form an ordered connection list.
type Connection struct {
	Input  string `hcl:"input,label"`
	Node   string `hcl:"node"`
	Output string `hcl:"output,optional"`
}
