package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined checks if an HCL expression was actually present in the source.
// The decoder populates omitted optional expression fields with zero-width
// placeholders, so a nil check is insufficient.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// translateNodeDefinition converts the HCL nodedef schema into the agnostic model.
func (l *Loader) translateNodeDefinition(ctx context.Context, nd *NodeDefinition) (*config.NodeDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("nodedef", nd.Identifier)
	logger.Debug("Translating node definition.")

	def := &config.NodeDefinition{
		Identifier:  nd.Identifier,
		Node:        nd.Node,
		SourceType:  nd.SourceType,
		Family:      nd.Family,
		Description: nd.Description,
		Metadata:    nd.Metadata,
	}
	for _, in := range nd.Inputs {
		port, err := translatePortDefinition(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("nodedef '%s', input '%s': %w", nd.Identifier, in.Name, err)
		}
		def.Inputs = append(def.Inputs, port)
	}
	for _, out := range nd.Outputs {
		port, err := translatePortDefinition(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("nodedef '%s', output '%s': %w", nd.Identifier, out.Name, err)
		}
		def.Outputs = append(def.Outputs, port)
	}
	return def, nil
}

// translatePortDefinition parses the type and optional default of a port.
func translatePortDefinition(ctx context.Context, p *PortDefinition) (*config.PortDefinition, error) {
	typeName, err := typeExprToName(ctx, p.Type)
	if err != nil {
		return nil, err
	}
	port := &config.PortDefinition{
		Name:        p.Name,
		Type:        typeName,
		Description: p.Description,
	}
	if isExprDefined(p.Default) {
		val, diags := p.Default.Value(EvalContext())
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid default value: %w", diags)
		}
		val, err = shadetype.Coerce(val, typeName)
		if err != nil {
			return nil, fmt.Errorf("invalid default value: %w", err)
		}
		if !val.IsNull() {
			port.Default = &val
		}
	}
	return port, nil
}

// translateMaterial converts the HCL material schema into the agnostic model.
func (l *Loader) translateMaterial(ctx context.Context, m *Material) (*config.Material, error) {
	logger := ctxlog.FromContext(ctx).With("material", m.Path)
	logger.Debug("Translating material.", "nodes", len(m.Nodes))

	mat := &config.Material{
		Path:      m.Path,
		Terminals: make(map[string]config.Connection, len(m.Terminals)),
	}
	for _, t := range m.Terminals {
		if _, dup := mat.Terminals[t.Name]; dup {
			return nil, fmt.Errorf("material '%s': duplicate terminal '%s'", m.Path, t.Name)
		}
		mat.Terminals[t.Name] = config.Connection{Node: t.Node, Output: t.Output}
	}

	seen := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if _, dup := seen[n.Name]; dup {
			return nil, fmt.Errorf("material '%s': duplicate node '%s'", m.Path, n.Name)
		}
		seen[n.Name] = struct{}{}

		params, err := evalParameters(n.Parameters)
		if err != nil {
			return nil, fmt.Errorf("material '%s', node '%s': %w", m.Path, n.Name, err)
		}
		node := &config.Node{
			Name:        n.Name,
			Type:        n.Type,
			Parameters:  params,
			Connections: make(map[string][]config.Connection),
		}
		for _, c := range n.Connections {
			node.Connections[c.Input] = append(node.Connections[c.Input], config.Connection{Node: c.Node, Output: c.Output})
		}
		mat.Nodes = append(mat.Nodes, node)
	}
	return mat, nil
}

// evalParameters evaluates every attribute of a parameters block.
func evalParameters(p *Parameters) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if p == nil || p.Body == nil {
		return out, nil
	}
	attrs, diags := p.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid parameters block: %w", diags)
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(EvalContext())
		if diags.HasErrors() {
			return nil, fmt.Errorf("parameter '%s': %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}
