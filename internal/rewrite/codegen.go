package rewrite

import (
	"errors"

	"github.com/vk/matfilt/internal/compiler"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/shadergen"
)

// TextureMetadataPrefix prefixes the registry metadata keys that map a
// texture binding of a compiled shader to the file it samples.
const TextureMetadataPrefix = "texture."

// generateShaderCode returns the shader evaluating the document node
// nodeName, or nil after reporting why none could be generated.
func (p *pass) generateShaderCode(doc *interchange.Document, shaderName, nodeName, graphNameHint string) *shadergen.Shader {
	graph, node := FindGraphAndNode(doc, graphNameHint, nodeName)
	if node == nil {
		if graph == nil {
			p.report(KindLookup, nodeName, "node graph '%s' not found", graphNameHint)
		} else {
			p.report(KindLookup, nodeName, "node '%s' not found in '%s'", nodeName, graphNameHint)
		}
		return nil
	}

	sh, err := p.f.gen.GenerateShader(p.ctx, doc, shaderName, node)
	if err != nil {
		p.report(KindGeneration, nodeName, "failed to generate shader '%s': %v", shaderName, err)
		return nil
	}
	p.logger.Debug("Shader source.", "shader", shaderName, "source", sh.Source)
	return sh
}

// shaderMetadata returns the registry metadata of a compiled shader.
func shaderMetadata(sh *shadergen.Shader) map[string]string {
	md := make(map[string]string, len(sh.Textures))
	for binding, file := range sh.Textures {
		md[TextureMetadataPrefix+binding] = file
	}
	return md
}

// compileShader returns the path of the compiled artifact, or "" after
// reporting the failure.
func (p *pass) compileShader(node, shaderName, source string) string {
	if p.f.cfg.Compiler == nil {
		p.report(KindCompilation, node, "%v", compiler.ErrUnsupported)
		return ""
	}
	path, err := p.f.cfg.Compiler.Compile(p.ctx, shaderName, source, p.f.cfg.SearchPaths)
	if err != nil {
		if errors.Is(err, compiler.ErrUnsupported) {
			p.report(KindCompilation, node, "%v", compiler.ErrUnsupported)
		} else {
			p.report(KindCompilation, node, "failed to compile shader '%s': %v", shaderName, err)
		}
		return ""
	}
	return path
}
