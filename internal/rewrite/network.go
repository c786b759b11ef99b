package rewrite

import (
	"slices"

	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/registry"
)

// SubIdentifier tags the registry entries of compiled shaders.
const SubIdentifier = registry.SourceTypeInterchange

// reservedWords maps terminal input names that collide with reserved words of
// the target shading language to their replacements.
var reservedWords = map[string]string{
	"emission":   "emission_value",
	"subsurface": "subsurface_value",
	"normal":     "input_normal",
}

// defaultOutput is assumed for connections that name no output.
const defaultOutput = "out"

// networkRewrite tracks which network nodes were processed.
type networkRewrite struct {
	doc *interchange.Document
	// visited holds every node handled as a root or gathered upstream of one.
	visited map[string]struct{}
	// roots maps the nodes directly connected to the terminal to the entry of
	// their compiled shader, or nil when rewriting them failed. A failure is
	// reported once per node.
	roots map[string]*registry.Entry
	// toKeep holds the nodes directly connected to the terminal.
	toKeep map[string]struct{}
	// toRemove holds the nodes gathered upstream of rewritten roots.
	toRemove []string
	// retained holds the nodes still referenced by roots that failed.
	retained map[string]struct{}
}

// updateNetwork replaces every interchange node directly connected to the
// terminal with a compiled shader node and deletes the nodes the shaders
// absorbed.
func (p *pass) updateNetwork(doc *interchange.Document) {
	st := &networkRewrite{
		doc:      doc,
		visited:  make(map[string]struct{}),
		roots:    make(map[string]*registry.Entry),
		toKeep:   make(map[string]struct{}),
		retained: make(map[string]struct{}),
	}

	for _, input := range p.net.ConnectionNames(p.terminal) {
		conns := p.net.Connections(p.terminal, input)
		rename := false
		for _, c := range conns {
			renamed, ok := p.rewriteConnection(st, input, c)
			rename = rename || (ok && renamed)
		}
		if target, reserved := reservedWords[input]; rename && reserved {
			p.net.SetConnections(p.terminal, target, conns)
			p.net.DeleteConnections(p.terminal, input)
			p.logger.Debug("Renamed terminal input.", "from", input, "to", target)
		}
	}

	removed := 0
	for _, name := range st.toRemove {
		if _, keep := st.toKeep[name]; keep {
			continue
		}
		if _, keep := st.retained[name]; keep {
			continue
		}
		p.net.DeleteNode(name)
		removed++
	}
	p.logger.Debug("Network rewritten.", "roots", len(st.roots), "removed", removed)
}

// rewriteConnection handles one connection of a terminal input. ok reports
// whether the connection now references a compiled shader output; renamed
// whether the input must move to its reserved-word replacement.
func (p *pass) rewriteConnection(st *networkRewrite, input string, c network.Connection) (renamed, ok bool) {
	name := c.UpstreamNode
	output := c.UpstreamOutput
	if output == "" {
		output = defaultOutput
	}

	nodeType := p.net.NodeType(name)
	if nodeType == "" {
		p.report(KindLookup, name, "node '%s' connected to '%s' not found", name, input)
		return false, false
	}

	if entry, seen := st.roots[name]; seen {
		if entry == nil {
			p.logger.Debug("Skipping input fed by a node that failed to compile.", "node", name, "input", input)
			return false, false
		}
		if !entry.HasOutput(output) {
			p.report(KindLookup, name, "definition '%s' of node '%s' has no output '%s'", entry.Identifier, name, output)
			return false, false
		}
		return false, true
	}

	if _, ok := p.f.cfg.Registry.ByIdentifierAndType(nodeType, registry.SourceTypeInterchange); !ok {
		p.report(KindLookup, name, "node '%s' has unknown type '%s'", name, nodeType)
		return false, false
	}

	st.visited[name] = struct{}{}
	st.toKeep[name] = struct{}{}
	gathered := p.gatherUpstream(name, st.visited)

	entry := p.compileNode(st.doc, name)
	st.roots[name] = entry
	if entry == nil {
		p.retainUpstream(name, st.retained)
		return false, false
	}
	st.toRemove = append(st.toRemove, gathered...)

	p.net.SetNodeType(name, entry.Identifier)
	ok = entry.HasOutput(output)
	if !ok {
		p.report(KindLookup, name, "compiled shader '%s' of node '%s' has no output '%s'", entry.Identifier, name, output)
	}

	for _, in := range p.net.ConnectionNames(name) {
		p.net.DeleteConnections(name, in)
	}
	for _, param := range p.net.ParameterNames(name) {
		p.net.DeleteParameter(name, param)
	}
	_, reserved := reservedWords[input]
	return reserved, ok
}

// compileNode generates, compiles and registers the shader of one network
// node. It returns nil after reporting a failure.
func (p *pass) compileNode(doc *interchange.Document, name string) *registry.Entry {
	hint, nodeName := documentName(name)
	shaderName := nodeName + "Shader"

	sh := p.generateShaderCode(doc, shaderName, nodeName, hint)
	if sh == nil {
		return nil
	}
	path := p.compileShader(name, shaderName, sh.Source)
	if path == "" {
		return nil
	}
	entry, err := p.f.cfg.Registry.RegisterFromAsset(p.ctx, path, shaderMetadata(sh), SubIdentifier, registry.SourceTypeWGSL)
	if err != nil {
		p.report(KindCompilation, name, "cannot register compiled shader '%s': %v", shaderName, err)
		return nil
	}
	return entry
}

// gatherUpstream marks every node upstream of root as visited and returns
// the ones not visited before, depth first. The terminal is never gathered.
func (p *pass) gatherUpstream(root string, visited map[string]struct{}) []string {
	var gathered []string
	stack := []string{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var next []string
		for _, input := range p.net.ConnectionNames(cur) {
			for _, c := range p.net.Connections(cur, input) {
				up := c.UpstreamNode
				if up == p.terminal || p.net.NodeType(up) == "" {
					continue
				}
				if _, seen := visited[up]; seen {
					continue
				}
				visited[up] = struct{}{}
				gathered = append(gathered, up)
				next = append(next, up)
			}
		}
		slices.Reverse(next)
		stack = append(stack, next...)
	}
	return gathered
}

// retainUpstream adds every node upstream of root to retained.
func (p *pass) retainUpstream(root string, retained map[string]struct{}) {
	seen := map[string]struct{}{root: {}}
	stack := []string{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, input := range p.net.ConnectionNames(cur) {
			for _, c := range p.net.Connections(cur, input) {
				if _, ok := seen[c.UpstreamNode]; ok {
					continue
				}
				seen[c.UpstreamNode] = struct{}{}
				retained[c.UpstreamNode] = struct{}{}
				stack = append(stack, c.UpstreamNode)
			}
		}
	}
}
