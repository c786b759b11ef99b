package rewrite

import (
	"fmt"

	"github.com/vk/matfilt/internal/asset"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/registry"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// NativeTextureExtension is the extension of images the renderer reads
// without a plugin.
const NativeTextureExtension = "tex"

// Names of the texture node inputs the adaptor reads and writes.
const (
	fileInput     = "file"
	texcoordInput = "texcoord"
	uWrapInput    = "uaddressmode"
	vWrapInput    = "vaddressmode"
)

// Definitions of the nodes synthesized on texture coordinate paths.
const (
	texcoordNodeDef = "ND_geompropvalue_vector2"
	remapNodeDef    = "ND_remap_vector2"
	texcoordSuffix  = "__texcoord"
	remapSuffix     = "__remap"

	primvarsMetadata = "primvars"
)

// wrapMode maps an interchange address mode to the renderer's wrap mode.
// lossy is set when the renderer has no equivalent.
func wrapMode(mode string) (wrap string, lossy bool) {
	switch mode {
	case "constant":
		return "black", true
	case "clamp":
		return "clamp", false
	case "mirror":
		return "repeat", true
	default:
		return "repeat", false
	}
}

// updateTextureNodes points the file inputs of the document's texture nodes
// at resolved images and gives each of them an explicit coordinate source.
func (p *pass) updateTextureNodes(textureNodes []string, doc *interchange.Document) {
	for _, name := range textureNodes {
		p.updateTextureNode(name, doc)
	}
}

func (p *pass) updateTextureNode(name string, doc *interchange.Document) {
	nodeType := p.net.NodeType(name)
	if nodeType == "" {
		p.report(KindLookup, name, "texture node '%s' not found", name)
		return
	}

	v, ok := p.net.Parameter(name, fileInput)
	if !ok {
		p.report(KindTexture, name, "texture node '%s' has no '%s' parameter", name, fileInput)
		return
	}
	ref, ok := shadetype.AsAssetPath(v)
	if !ok {
		p.report(KindTexture, name, "'%s' of texture node '%s' is not an asset reference", fileInput, name)
		return
	}
	resolved, err := p.f.cfg.Resolver.Resolve(p.ctx, ref)
	if err != nil {
		p.report(KindTexture, name, "cannot resolve texture '%s' of '%s': %v", ref.Authored, name, err)
		return
	}
	ext := asset.Extension(resolved)

	hint, nodeName := documentName(name)
	_, node := FindGraphAndNode(doc, hint, nodeName)
	if node == nil {
		p.logger.Debug("Texture node is not part of the document.", "node", name)
		return
	}

	flip := false
	if ext != "" && ext != NativeTextureExtension {
		u := p.wrapParameter(name, uWrapInput)
		w := p.wrapParameter(name, vWrapInput)
		value := fmt.Sprintf("rtxplugin:%s?filename=%s&wrapS=%s&wrapT=%s", TexturePlugin, resolved, u, w)
		node.SetInputValue(fileInput, cty.StringVal(value), shadetype.Filename)
	} else {
		node.SetInputValue(fileInput, cty.StringVal(resolved), shadetype.Filename)
		flip = true
	}

	texcoord, ok := node.Input(texcoordInput)
	if !ok || !texcoord.IsConnected() {
		texcoord = p.addTexcoordSource(doc, node, nodeType)
	}
	if flip {
		p.insertFlip(doc, node, texcoord)
	}
	p.logger.Debug("Adapted texture node.", "node", name, "file", resolved, "flip", flip)
}

// wrapParameter reads one address mode of a texture node and maps it.
func (p *pass) wrapParameter(node, param string) string {
	mode := ""
	if v, ok := p.net.Parameter(node, param); ok && !shadetype.IsNull(v) && v.Type().Equals(cty.String) {
		mode = v.AsString()
	}
	wrap, lossy := wrapMode(mode)
	if lossy {
		p.report(KindTexture, node, "wrap mode '%s' of '%s' is not supported, using '%s'", mode, node, wrap)
	}
	return wrap
}

// addTexcoordSource connects the texcoord input of node to a new node
// reading the primary texture coordinate set of the node's definition.
func (p *pass) addTexcoordSource(doc *interchange.Document, node *interchange.Node, nodeType string) *interchange.Input {
	primvar := ""
	if e, ok := p.f.cfg.Registry.ByIdentifierAndType(nodeType, registry.SourceTypeInterchange); ok {
		primvar = e.MetadataValue(primvarsMetadata)
	}

	coord := addSibling(doc, node, "geompropvalue", node.Name+texcoordSuffix, shadetype.Vector2)
	coord.NodeDef = texcoordNodeDef
	coord.SetInputValue("geomprop", cty.StringVal(primvar), shadetype.String)

	in := node.AddInput(texcoordInput, shadetype.Vector2)
	in.Type = shadetype.Vector2
	in.Value = cty.NilVal
	in.SetConnectedNode(coord)
	return in
}

// insertFlip routes the coordinates feeding texcoord through a remap node
// that flips the vertical axis.
func (p *pass) insertFlip(doc *interchange.Document, node *interchange.Node, texcoord *interchange.Input) {
	remap := addSibling(doc, node, "remap", node.Name+remapSuffix, shadetype.Vector2)
	remap.NodeDef = remapNodeDef

	src := remap.AddInput("in", shadetype.Vector2)
	src.SetConnectedNode(texcoord.ConnectedNode())
	src.Output = texcoord.Output
	remap.SetInputValue("inhigh", shadetype.Vec(1, 0), shadetype.Vector2)
	remap.SetInputValue("inlow", shadetype.Vec(0, 1), shadetype.Vector2)

	texcoord.SetConnectedNode(remap)
	texcoord.Output = ""
}

// addSibling creates a node next to node, in its graph or at the top level.
func addSibling(doc *interchange.Document, node *interchange.Node, category, name, typeName string) *interchange.Node {
	if g := node.Graph(); g != nil {
		return g.AddNode(category, name, typeName)
	}
	return doc.AddNode(category, name, typeName)
}
