package shadergen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/dag"
	"github.com/vk/matfilt/internal/fsutil"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/vk/matfilt/internal/stdlib"
	"github.com/zclconf/go-cty/cty"
)

// ErrNoImplementation is returned when a node category is neither built in
// nor backed by an implementation snippet.
var ErrNoImplementation = errors.New("no shader implementation")

// SnippetExtension is the extension of implementation snippets.
const SnippetExtension = ".wgsl"

// Options configures a Generator.
type Options struct {
	// SearchPaths are searched for `<nodedef>.wgsl` snippets, preferring the
	// stdlib.Dir subdirectory of each.
	SearchPaths []string
	// Includes is searched after SearchPaths.
	Includes fs.FS
	// FileTextureVerticalFlip flips the vertical texture coordinate on read.
	FileTextureVerticalFlip bool
}

// Generator produces WGSL source for interchange nodes.
type Generator struct {
	opts Options
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// hasSnippet reports whether an implementation snippet named file exists.
func (g *Generator) hasSnippet(file string) bool {
	for _, dir := range stdlib.IncludeDirs(g.opts.SearchPaths) {
		if fsutil.IsFile(filepath.Join(dir, file)) {
			return true
		}
	}
	if g.opts.Includes != nil {
		if _, err := fs.Stat(g.opts.Includes, path.Clean(file)); err == nil {
			return true
		}
	}
	return false
}

// Shader is a generated fragment shader.
type Shader struct {
	Source string
	// Textures maps each texture binding of Source to the file it samples.
	Textures map[string]string
}

// Generate returns the source of a fragment shader named shaderName that
// evaluates every declared output of target.
func (g *Generator) Generate(ctx context.Context, doc *interchange.Document, shaderName string, target *interchange.Node) (string, error) {
	sh, err := g.GenerateShader(ctx, doc, shaderName, target)
	if err != nil {
		return "", err
	}
	return sh.Source, nil
}

// GenerateShader is Generate that also reports the texture bindings of the
// shader.
func (g *Generator) GenerateShader(ctx context.Context, doc *interchange.Document, shaderName string, target *interchange.Node) (*Shader, error) {
	logger := ctxlog.FromContext(ctx)
	if target == nil {
		return nil, fmt.Errorf("no node to generate")
	}
	targetDef, ok := doc.NodeDef(target.NodeDef)
	if !ok {
		return nil, fmt.Errorf("%w for node '%s': unknown node definition '%s'", ErrNoImplementation, target.Name, target.NodeDef)
	}
	if len(targetDef.Outputs) == 0 {
		return nil, fmt.Errorf("node '%s' declares no outputs", target.Name)
	}

	gen := &generation{
		g:        g,
		doc:      doc,
		vars:     make(map[*interchange.Node]string),
		used:     make(map[string]struct{}),
		outputs:  make(map[*interchange.Node]map[string]typedExpr),
		textures: make(map[string]string),
	}

	order, err := gen.order(target)
	if err != nil {
		return nil, err
	}
	for _, n := range order {
		if err := gen.emit(n); err != nil {
			return nil, fmt.Errorf("node '%s': %w", n.Name, err)
		}
	}

	src, err := gen.assemble(Identifier(shaderName), target, targetDef)
	if err != nil {
		return nil, err
	}
	logger.Debug("Generated shader.", "shader", shaderName, "node", target.Name, "nodes", len(order), "textures", len(gen.textures), "bytes", len(src))
	return &Shader{Source: src, Textures: gen.textures}, nil
}

// typedExpr is a WGSL expression with its interchange type.
type typedExpr struct {
	expr string
	typ  string
}

type param struct {
	name string
	typ  string
}

// generation holds the state of one Generate call.
type generation struct {
	g        *Generator
	doc      *interchange.Document
	vars     map[*interchange.Node]string
	used     map[string]struct{}
	outputs  map[*interchange.Node]map[string]typedExpr
	includes []string
	bindings []string
	textures map[string]string
	binding  int
	params   []param
	body     []string
}

// order assigns variable names to every node upstream of target and returns
// them with dependencies first.
func (gen *generation) order(target *interchange.Node) ([]*interchange.Node, error) {
	graph := dag.New()
	byVar := make(map[string]*interchange.Node)

	stack := []*interchange.Node{target}
	var discovered []*interchange.Node
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := gen.vars[n]; seen {
			continue
		}
		v := gen.unique("v_" + Identifier(n.Name))
		gen.vars[n] = v
		byVar[v] = n
		graph.AddNode(v)
		discovered = append(discovered, n)

		up := n.Upstream()
		for i := len(up) - 1; i >= 0; i-- {
			stack = append(stack, up[i])
		}
	}
	for _, n := range discovered {
		for _, up := range n.Upstream() {
			if err := graph.AddEdge(gen.vars[up], gen.vars[n]); err != nil {
				return nil, fmt.Errorf("node '%s': %w", n.Name, err)
			}
		}
	}

	ids, err := graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	out := make([]*interchange.Node, len(ids))
	for i, id := range ids {
		out[i] = byVar[id]
	}
	return out, nil
}

func (gen *generation) unique(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, taken := gen.used[name]; !taken {
			gen.used[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}

// emit lowers one node into `let` bindings, one per declared output.
func (gen *generation) emit(n *interchange.Node) error {
	def, ok := gen.doc.NodeDef(n.NodeDef)
	if !ok {
		return fmt.Errorf("%w: unknown node definition '%s'", ErrNoImplementation, n.NodeDef)
	}

	var exprs map[string]string
	var err error
	if fn, builtin := builtins[def.Node]; builtin {
		exprs, err = fn(gen, n, def)
	} else {
		exprs, err = gen.emitSnippet(n, def)
	}
	if err != nil {
		return err
	}

	outs := make(map[string]typedExpr, len(def.Outputs))
	for _, o := range def.Outputs {
		expr, ok := exprs[o.Name]
		if !ok {
			return fmt.Errorf("implementation of '%s' does not produce output '%s'", def.Identifier, o.Name)
		}
		v := gen.vars[n]
		if len(def.Outputs) > 1 {
			v = gen.unique(v + "_" + Identifier(o.Name))
		}
		gen.body = append(gen.body, fmt.Sprintf("let %s = %s;", v, expr))
		outs[o.Name] = typedExpr{expr: v, typ: o.Type}
	}
	gen.outputs[n] = outs
	return nil
}

// emitSnippet calls the function provided by a `<nodedef>.wgsl` snippet.
func (gen *generation) emitSnippet(n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	file := def.Identifier + SnippetExtension
	if !gen.g.hasSnippet(file) {
		return nil, fmt.Errorf("%w for '%s' (category '%s'): %s not found", ErrNoImplementation, def.Identifier, def.Node, file)
	}
	if len(def.Outputs) != 1 {
		return nil, fmt.Errorf("snippet implementations must declare exactly one output, '%s' has %d", def.Identifier, len(def.Outputs))
	}
	gen.include(file)

	args := make([]string, 0, len(def.Inputs))
	for _, port := range def.Inputs {
		arg, err := gen.input(n, def, port.Name, port.Type)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	call := fmt.Sprintf("%s(%s)", Identifier(def.Identifier), strings.Join(args, ", "))
	return map[string]string{def.Outputs[0].Name: call}, nil
}

func (gen *generation) include(file string) {
	for _, f := range gen.includes {
		if f == file {
			return
		}
	}
	gen.includes = append(gen.includes, file)
}

// input resolves an input of n to an expression of type want: the connected
// upstream output, the authored value, the definition default, or zero.
func (gen *generation) input(n *interchange.Node, def *config.NodeDefinition, name, want string) (string, error) {
	in, hasInput := n.Input(name)
	if hasInput && in.IsConnected() {
		up, err := gen.upstreamOutput(in)
		if err != nil {
			return "", err
		}
		return convertExpr(up.expr, up.typ, want)
	}
	port, hasPort := interchange.DefInput(def, name)
	if hasInput && !shadetype.IsNull(in.Value) {
		typ := in.Type
		if !shadetype.IsKnown(typ) && hasPort {
			typ = port.Type
		}
		return typedLiteral(in.Value, typ, want)
	}
	if hasPort && port.Default != nil {
		return typedLiteral(*port.Default, port.Type, want)
	}
	return zero(want)
}

// typedLiteral renders v as its own type, then converts it to want.
func typedLiteral(v cty.Value, typ, want string) (string, error) {
	if !shadetype.IsKnown(typ) || typ == shadetype.String || typ == shadetype.Filename {
		return literal(v, want)
	}
	lit, err := literal(v, typ)
	if err != nil {
		return "", err
	}
	return convertExpr(lit, typ, want)
}

// inputOr is input with a scalar fallback used when neither a value nor a
// definition default exists.
func (gen *generation) inputOr(n *interchange.Node, def *config.NodeDefinition, name, want string, fallback float64) (string, error) {
	in, hasInput := n.Input(name)
	authored := hasInput && (in.IsConnected() || !shadetype.IsNull(in.Value))
	port, hasPort := interchange.DefInput(def, name)
	if !authored && !(hasPort && port.Default != nil) {
		return splat(fallback, want), nil
	}
	return gen.input(n, def, name, want)
}

func (gen *generation) upstreamOutput(in *interchange.Input) (typedExpr, error) {
	up := in.ConnectedNode()
	outs, ok := gen.outputs[up]
	if !ok {
		return typedExpr{}, fmt.Errorf("input '%s': upstream node '%s' was not generated", in.Name, up.Name)
	}
	if in.Output != "" {
		if e, ok := outs[in.Output]; ok {
			return e, nil
		}
	}
	if len(outs) == 1 {
		for _, e := range outs {
			return e, nil
		}
	}
	return typedExpr{}, fmt.Errorf("input '%s': node '%s' has no output '%s'", in.Name, up.Name, in.Output)
}

// stringInput returns the authored or default string value of an input.
func (gen *generation) stringInput(n *interchange.Node, def *config.NodeDefinition, name string) string {
	if in, ok := n.Input(name); ok && !shadetype.IsNull(in.Value) && in.Value.IsKnown() {
		if a, ok := shadetype.AsAssetPath(in.Value); ok {
			return a.Path()
		}
		if in.Value.Type().IsPrimitiveType() {
			if s, err := shadetype.Coerce(in.Value, shadetype.String); err == nil && !s.IsNull() {
				return s.AsString()
			}
		}
	}
	if port, ok := interchange.DefInput(def, name); ok && port.Default != nil && port.Default.Type().IsPrimitiveType() {
		if s, err := shadetype.Coerce(*port.Default, shadetype.String); err == nil && !s.IsNull() {
			return s.AsString()
		}
	}
	return ""
}

// addParam declares a fragment input and returns its name.
func (gen *generation) addParam(name, typeName string) (string, error) {
	id := Identifier(name)
	for _, p := range gen.params {
		if p.name == id {
			if p.typ != typeName {
				return "", fmt.Errorf("fragment input '%s' requested as both %s and %s", id, p.typ, typeName)
			}
			return id, nil
		}
	}
	if _, err := wgslType(typeName); err != nil {
		return "", err
	}
	gen.params = append(gen.params, param{name: id, typ: typeName})
	return id, nil
}

// addTexture declares a texture and sampler binding pair.
func (gen *generation) addTexture(base, file string) (tex, smp string) {
	tex = gen.unique(base + "_texture")
	smp = gen.unique(base + "_sampler")
	file = strings.NewReplacer("\n", " ", "\r", " ").Replace(file)
	gen.textures[tex] = file
	gen.bindings = append(gen.bindings,
		fmt.Sprintf("// %s: %s", tex, file),
		fmt.Sprintf("@group(0) @binding(%d) var %s: texture_2d<f32>;", gen.binding, tex),
		fmt.Sprintf("@group(0) @binding(%d) var %s: sampler;", gen.binding+1, smp),
	)
	gen.binding += 2
	return tex, smp
}

// assemble renders the final shader source.
func (gen *generation) assemble(shaderName string, target *interchange.Node, def *config.NodeDefinition) (string, error) {
	outStruct := shaderName + "Output"

	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s: generated from node '%s' (%s).\n", shaderName, target.Name, def.Identifier)
	for _, inc := range gen.includes {
		fmt.Fprintf(&sb, "#include \"%s\"\n", inc)
	}
	if len(gen.bindings) > 0 {
		sb.WriteString("\n")
		for _, b := range gen.bindings {
			sb.WriteString(b + "\n")
		}
	}

	sb.WriteString("\nstruct " + outStruct + " {\n")
	members := make([]string, len(def.Outputs))
	for i, o := range def.Outputs {
		ty, err := wgslType(o.Type)
		if err != nil || o.Type == shadetype.Boolean {
			return "", fmt.Errorf("output '%s' of type '%s' cannot be a shader output", o.Name, o.Type)
		}
		members[i] = Identifier(o.Name)
		fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", i, members[i], ty)
	}
	sb.WriteString("}\n")

	params := make([]string, len(gen.params))
	for i, p := range gen.params {
		ty, _ := wgslType(p.typ)
		interp := ""
		if p.typ == shadetype.Integer {
			interp = " @interpolate(flat)"
		}
		params[i] = fmt.Sprintf("@location(%d)%s %s: %s", i, interp, p.name, ty)
	}

	sb.WriteString("\n@fragment\n")
	fmt.Fprintf(&sb, "fn %s(%s) -> %s {\n", shaderName, strings.Join(params, ", "), outStruct)
	for _, line := range gen.body {
		sb.WriteString("    " + line + "\n")
	}
	fmt.Fprintf(&sb, "    var result: %s;\n", outStruct)
	outs := gen.outputs[target]
	for i, o := range def.Outputs {
		fmt.Fprintf(&sb, "    result.%s = %s;\n", members[i], outs[o.Name].expr)
	}
	sb.WriteString("    return result;\n}\n")
	return sb.String(), nil
}
