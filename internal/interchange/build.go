package interchange

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/nodeid"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// DefaultGraphName names the graph holding nodes that have no container.
const DefaultGraphName = "NG"

// Build is the result of translating a network into a document.
type Build struct {
	Document *Document
	// TextureNodes lists, sorted, the network names of nodes whose
	// definition declares a filename input.
	TextureNodes []string
	// MaterialNode and ShaderNode name the top-level nodes created for the
	// material and for the terminal's surface shader.
	MaterialNode string
	ShaderNode   string
}

// BuildDocument translates the part of net upstream of terminalNode into a
// document using the definitions of lib. Each upstream node lands in a graph
// named after its container segment; graphs whose names collide are
// suffixed with an index. The terminal becomes the `SR_<material>` shader
// node, referenced by a material node.
func BuildDocument(ctx context.Context, net network.Interface, terminalNode string, lib *Document) (*Build, error) {
	logger := ctxlog.FromContext(ctx)

	termType := net.NodeType(terminalNode)
	termDef, ok := lib.NodeDef(termType)
	if !ok {
		return nil, fmt.Errorf("no node definition for terminal '%s' of type '%s'", terminalNode, termType)
	}

	doc := NewDocument()
	doc.ImportLibrary(lib)
	b := &builder{
		ctx:      ctx,
		net:      net,
		doc:      doc,
		byParent: make(map[string]*NodeGraph),
		created:  make(map[string]*Node),
	}

	upstream := b.collectUpstream(terminalNode)
	for _, name := range upstream {
		b.createNode(name)
	}
	for _, name := range upstream {
		b.connectInputs(name, b.created[name])
	}

	materialName := "Material"
	if addr, err := nodeid.Parse(net.MaterialPath()); err == nil && addr.Name() != "" {
		materialName = addr.Name()
	}
	shaderName := "SR_" + materialName

	shader := doc.AddNode(termDef.Node, shaderName, OutputType(termDef))
	shader.NodeDef = termDef.Identifier
	b.setParameters(terminalNode, shader)
	b.connectInputs(terminalNode, shader)

	material := doc.AddNode("surfacematerial", materialName, "material")
	material.AddInput("surfaceshader", shadetype.SurfaceShader).SetConnectedNode(shader)

	logger.Debug("Built interchange document.",
		"graphs", len(doc.graphs), "nodes", len(upstream), "textures", len(b.textures))
	slices.Sort(b.textures)
	return &Build{
		Document:     doc,
		TextureNodes: b.textures,
		MaterialNode: materialName,
		ShaderNode:   shaderName,
	}, nil
}

type builder struct {
	ctx      context.Context
	net      network.Interface
	doc      *Document
	byParent map[string]*NodeGraph
	created  map[string]*Node
	textures []string
}

// collectUpstream returns every node reachable upstream of start, excluding
// start, in breadth-first order with sorted input traversal.
func (b *builder) collectUpstream(start string) []string {
	var order []string
	seen := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, input := range b.net.ConnectionNames(cur) {
			for _, c := range b.net.Connections(cur, input) {
				if _, ok := seen[c.UpstreamNode]; ok {
					continue
				}
				seen[c.UpstreamNode] = struct{}{}
				if b.net.NodeType(c.UpstreamNode) == "" {
					ctxlog.FromContext(b.ctx).Debug("Skipping connection to missing node.", "node", cur, "upstream", c.UpstreamNode)
					continue
				}
				order = append(order, c.UpstreamNode)
				queue = append(queue, c.UpstreamNode)
			}
		}
	}
	return order
}

// graphFor returns the graph for a network node, creating it on first use.
func (b *builder) graphFor(name string) (*NodeGraph, string) {
	parent, nodeName := DefaultGraphName, name
	parentKey := ""
	if addr, err := nodeid.Parse(name); err == nil {
		nodeName = addr.Name()
		if p := addr.Parent(); p != nil {
			parent = p.Name()
			parentKey = p.String()
		}
	}
	if g, ok := b.byParent[parentKey]; ok {
		return g, nodeName
	}
	graphName := parent
	for i := 2; ; i++ {
		if _, taken := b.doc.NodeGraph(graphName); !taken {
			break
		}
		graphName = parent + strconv.Itoa(i)
	}
	g := b.doc.AddNodeGraph(graphName)
	b.byParent[parentKey] = g
	return g, nodeName
}

func (b *builder) createNode(name string) {
	g, nodeName := b.graphFor(name)
	nodeType := b.net.NodeType(name)

	def, ok := b.doc.NodeDef(nodeType)
	if !ok {
		ctxlog.FromContext(b.ctx).Debug("Node has no interchange definition.", "node", name, "type", nodeType)
		n := g.AddNode("", nodeName, "")
		n.NodeDef = nodeType
		b.created[name] = n
		return
	}

	n := g.AddNode(def.Node, nodeName, OutputType(def))
	n.NodeDef = def.Identifier
	b.created[name] = n
	b.setParameters(name, n)

	for _, in := range def.Inputs {
		if in.Type == shadetype.Filename {
			b.textures = append(b.textures, name)
			break
		}
	}
}

// setParameters copies authored parameters onto n, typed by n's definition.
func (b *builder) setParameters(name string, n *Node) {
	def, hasDef := b.doc.NodeDef(n.NodeDef)
	for _, param := range b.net.ParameterNames(name) {
		v, _ := b.net.Parameter(name, param)
		typeName := ""
		if hasDef {
			if port, ok := DefInput(def, param); ok {
				typeName = port.Type
			}
		}
		if typeName == "" {
			n.SetInputValue(param, v, "")
			continue
		}
		coerced, err := shadetype.Coerce(v, typeName)
		if err != nil {
			ctxlog.FromContext(b.ctx).Debug("Keeping parameter with mismatched type.", "node", name, "parameter", param, "error", err)
			coerced = v
		}
		n.SetInputValue(param, coerced, typeName)
	}
}

// connectInputs wires n's inputs to the document nodes created for the
// network connections of name. Only the first connection of an input is used.
func (b *builder) connectInputs(name string, n *Node) {
	def, hasDef := b.doc.NodeDef(n.NodeDef)
	for _, input := range b.net.ConnectionNames(name) {
		conns := b.net.Connections(name, input)
		if len(conns) == 0 {
			continue
		}
		up, ok := b.created[conns[0].UpstreamNode]
		if !ok {
			continue
		}
		typeName := up.Type
		if hasDef {
			if port, ok := DefInput(def, input); ok {
				typeName = port.Type
			}
		}
		in := n.AddInput(input, typeName)
		in.Value = cty.NilVal
		in.SetConnectedNode(up)
		in.Output = conns[0].UpstreamOutput
	}
}
