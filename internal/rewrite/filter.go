package rewrite

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/matfilt/internal/asset"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/registry"
	"github.com/vk/matfilt/internal/shadergen"
)

// ShaderCompiler compiles generated shader source and returns the path of
// the compiled artifact. *compiler.Compiler implements it.
type ShaderCompiler interface {
	Compile(ctx context.Context, name, source string, searchPaths []string) (string, error)
}

// Config holds the collaborators of a Filter.
type Config struct {
	// Registry receives the entries of compiled shaders.
	Registry *registry.Registry
	// Library holds the interchange node definitions documents are built
	// against.
	Library *interchange.Document
	// Compiler compiles generated shaders. Nil disables compilation.
	Compiler ShaderCompiler
	// Resolver resolves texture asset references.
	Resolver asset.Resolver
	// SearchPaths are the library search paths used for shader includes.
	SearchPaths []string
	// Snippets is searched for shader implementation snippets after
	// SearchPaths.
	Snippets fs.FS
}

// Filter rewrites material networks for the target renderer.
type Filter struct {
	cfg Config
	gen *shadergen.Generator
}

// New creates a Filter.
func New(cfg Config) *Filter {
	if cfg.Library == nil {
		cfg.Library = interchange.NewDocument()
	}
	if cfg.Resolver == nil {
		cfg.Resolver = asset.NewFileResolver("", cfg.SearchPaths)
	}
	return &Filter{
		cfg: cfg,
		gen: shadergen.New(shadergen.Options{
			SearchPaths:             cfg.SearchPaths,
			Includes:                cfg.Snippets,
			FileTextureVerticalFlip: false,
		}),
	}
}

// Apply rewrites net in place and returns the diagnostics of the pass.
// Networks without a surface terminal, and networks whose surface terminal
// is not an interchange node, are left untouched.
func (f *Filter) Apply(ctx context.Context, net network.Interface) Diagnostics {
	if net == nil {
		return nil
	}
	conn, ok := net.TerminalConnection(network.SurfaceTerminal)
	if !ok || conn.UpstreamNode == "" {
		return nil
	}
	terminal := conn.UpstreamNode
	if _, ok := f.cfg.Registry.ByIdentifierAndType(net.NodeType(terminal), registry.SourceTypeInterchange); !ok {
		return nil
	}

	logger := ctxlog.FromContext(ctx).With("run", uuid.NewString(), "material", net.MaterialPath())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Rewrite started.", "terminal", terminal, "type", net.NodeType(terminal))

	p := &pass{f: f, ctx: ctx, logger: logger, net: net, terminal: terminal}
	if len(net.ConnectionNames(terminal)) > 0 {
		p.rewriteUpstream()
	}
	p.transformTerminalNode()

	logger.Debug("Rewrite finished.", "diagnostics", len(p.diags))
	return p.diags
}

// pass is the state of one Apply call.
type pass struct {
	f        *Filter
	ctx      context.Context
	logger   *slog.Logger
	net      network.Interface
	terminal string
	diags    Diagnostics
}

func (p *pass) report(kind Kind, node, format string, args ...any) {
	d := Diagnostic{Kind: kind, Node: node, Message: fmt.Sprintf(format, args...)}
	p.diags = append(p.diags, d)
	p.logger.Warn(d.Message, "kind", string(kind), "node", node)
}

// rewriteUpstream replaces the interchange nodes upstream of the terminal
// with compiled shaders.
func (p *pass) rewriteUpstream() {
	build, err := interchange.BuildDocument(p.ctx, p.net, p.terminal, p.f.cfg.Library)
	if err != nil {
		p.report(KindLookup, p.terminal, "cannot build interchange document: %v", err)
		return
	}
	doc := build.Document

	p.updateTextureNodes(build.TextureNodes, doc)

	doc.RemoveNode(build.MaterialNode)
	doc.RemoveNode(build.ShaderNode)

	p.updateNetwork(doc)
}
