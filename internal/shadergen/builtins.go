package shadergen

import (
	"fmt"

	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/shadetype"
)

// emitter lowers a node to one expression per declared output.
type emitter func(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error)

// builtins maps node categories to their direct lowering.
var builtins map[string]emitter

func init() {
	builtins = map[string]emitter{
		"constant":      emitConstant,
		"dot":           emitDot,
		"image":         emitImage,
		"tiledimage":    emitImage,
		"geompropvalue": emitGeompropValue,
		"texcoord":      emitTexcoord,
		"remap":         emitRemap,
		"add":           binary("+"),
		"subtract":      binary("-"),
		"multiply":      binary("*"),
		"divide":        binary("/"),
		"mix":           emitMix,
		"clamp":         emitClamp,
	}
}

// Builtin reports whether a node category is lowered without a snippet.
func Builtin(category string) bool {
	_, ok := builtins[category]
	return ok
}

// single returns the name and type of a definition's only output.
func single(def *config.NodeDefinition) (string, string, error) {
	if len(def.Outputs) != 1 {
		return "", "", fmt.Errorf("category '%s' expects one output, '%s' has %d", def.Node, def.Identifier, len(def.Outputs))
	}
	return def.Outputs[0].Name, def.Outputs[0].Type, nil
}

func emitConstant(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	v, err := gen.input(n, def, "value", typ)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: v}, nil
}

// emitDot lowers the pass-through node.
func emitDot(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	v, err := gen.input(n, def, "in", typ)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: v}, nil
}

func binary(op string) emitter {
	return func(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
		out, typ, err := single(def)
		if err != nil {
			return nil, err
		}
		a, err := gen.input(n, def, "in1", typ)
		if err != nil {
			return nil, err
		}
		b, err := gen.input(n, def, "in2", typ)
		if err != nil {
			return nil, err
		}
		return map[string]string{out: fmt.Sprintf("(%s %s %s)", a, op, b)}, nil
	}
}

func emitMix(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	fg, err := gen.input(n, def, "fg", typ)
	if err != nil {
		return nil, err
	}
	bg, err := gen.input(n, def, "bg", typ)
	if err != nil {
		return nil, err
	}
	mixType := shadetype.Float
	if port, ok := interchange.DefInput(def, "mix"); ok && shadetype.IsVector(port.Type) {
		mixType = typ
	}
	t, err := gen.input(n, def, "mix", mixType)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: fmt.Sprintf("mix(%s, %s, %s)", bg, fg, t)}, nil
}

func emitClamp(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	in, err := gen.input(n, def, "in", typ)
	if err != nil {
		return nil, err
	}
	low, err := gen.inputOr(n, def, "low", typ, 0)
	if err != nil {
		return nil, err
	}
	high, err := gen.inputOr(n, def, "high", typ, 1)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: fmt.Sprintf("clamp(%s, %s, %s)", in, low, high)}, nil
}

// emitRemap maps `in` from [inlow, inhigh] to [outlow, outhigh].
func emitRemap(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	args := make(map[string]string, 5)
	for _, spec := range []struct {
		name     string
		fallback float64
	}{{"in", 0}, {"inlow", 0}, {"inhigh", 1}, {"outlow", 0}, {"outhigh", 1}} {
		v, err := gen.inputOr(n, def, spec.name, typ, spec.fallback)
		if err != nil {
			return nil, err
		}
		args[spec.name] = v
	}
	expr := fmt.Sprintf("(%s + (%s - %s) * (%s - %s) / (%s - %s))",
		args["outlow"], args["in"], args["inlow"], args["outhigh"], args["outlow"], args["inhigh"], args["inlow"])
	return map[string]string{out: expr}, nil
}

func emitGeompropValue(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	geomprop := gen.stringInput(n, def, "geomprop")
	if geomprop == "" {
		return nil, fmt.Errorf("geompropvalue node has no geomprop")
	}
	p, err := gen.addParam(geomprop, typ)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: p}, nil
}

func emitTexcoord(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}
	p, err := gen.addParam("texcoord", shadetype.Vector2)
	if err != nil {
		return nil, err
	}
	v, err := convertExpr(p, shadetype.Vector2, typ)
	if err != nil {
		return nil, err
	}
	return map[string]string{out: v}, nil
}

// emitImage samples a 2D texture. The file value is recorded next to the
// binding; the host binds the texture itself.
func emitImage(gen *generation, n *interchange.Node, def *config.NodeDefinition) (map[string]string, error) {
	out, typ, err := single(def)
	if err != nil {
		return nil, err
	}

	var uv string
	if in, ok := n.Input("texcoord"); ok && (in.IsConnected() || !shadetype.IsNull(in.Value)) {
		uv, err = gen.input(n, def, "texcoord", shadetype.Vector2)
		if err != nil {
			return nil, err
		}
	} else if uv, err = gen.addParam("texcoord", shadetype.Vector2); err != nil {
		return nil, err
	}

	if def.Node == "tiledimage" {
		tiling, err := gen.inputOr(n, def, "uvtiling", shadetype.Vector2, 1)
		if err != nil {
			return nil, err
		}
		offset, err := gen.inputOr(n, def, "uvoffset", shadetype.Vector2, 0)
		if err != nil {
			return nil, err
		}
		uv = fmt.Sprintf("(%s * %s + %s)", uv, tiling, offset)
	}

	v := gen.vars[n]
	uvVar := gen.unique(v + "_uv")
	gen.body = append(gen.body, fmt.Sprintf("let %s = %s;", uvVar, uv))
	uv = uvVar
	if gen.g.opts.FileTextureVerticalFlip {
		uv = fmt.Sprintf("vec2<f32>(%s.x, 1.0 - %s.y)", uvVar, uvVar)
	}

	tex, smp := gen.addTexture(v, gen.stringInput(n, def, "file"))
	return map[string]string{out: fmt.Sprintf("textureSample(%s, %s, %s)%s", tex, smp, uv, swizzle(typ))}, nil
}
