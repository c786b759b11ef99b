package shadergen

import (
	"fmt"
	"strings"

	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// keywords holds WGSL keywords and predeclared names that cannot be used as
// plain identifiers in generated code.
var keywords = map[string]struct{}{
	"alias": {}, "bitcast": {}, "bool": {}, "break": {}, "case": {}, "const": {},
	"const_assert": {}, "continue": {}, "continuing": {}, "default": {}, "diagnostic": {},
	"discard": {}, "else": {}, "enable": {}, "f16": {}, "f32": {}, "false": {}, "fn": {},
	"for": {}, "i32": {}, "if": {}, "let": {}, "loop": {}, "override": {}, "requires": {},
	"return": {}, "sampler": {}, "struct": {}, "switch": {}, "true": {}, "u32": {},
	"var": {}, "vec2": {}, "vec3": {}, "vec4": {}, "while": {}, "array": {}, "ptr": {},
	"texture_2d": {}, "mat2x2": {}, "mat3x3": {}, "mat4x4": {}, "atomic": {},
}

// Identifier turns an arbitrary name into a valid, non-reserved WGSL identifier.
func Identifier(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	id := sb.String()
	if id == "" || id == "_" {
		id = "v"
	}
	if strings.HasPrefix(id, "__") {
		id = "v" + id
	}
	if _, reserved := keywords[id]; reserved {
		id += "_"
	}
	return id
}

// wgslType returns the WGSL type used for an interchange type.
func wgslType(typeName string) (string, error) {
	switch typeName {
	case shadetype.Float:
		return "f32", nil
	case shadetype.Integer:
		return "i32", nil
	case shadetype.Boolean:
		return "bool", nil
	}
	if n := shadetype.Components(typeName); shadetype.IsVector(typeName) {
		return fmt.Sprintf("vec%d<f32>", n), nil
	}
	return "", fmt.Errorf("type '%s' has no shader representation", typeName)
}

// components returns the component count of a numeric type, 1 for scalars.
func components(typeName string) int {
	if shadetype.IsVector(typeName) {
		return shadetype.Components(typeName)
	}
	return 1
}

// literal renders v as a WGSL constant of the given interchange type.
func literal(v cty.Value, typeName string) (string, error) {
	coerced, err := shadetype.Coerce(v, typeName)
	if err != nil {
		return "", err
	}
	if coerced.IsNull() || !coerced.IsWhollyKnown() {
		return zero(typeName)
	}
	switch typeName {
	case shadetype.Boolean:
		if coerced.True() {
			return "true", nil
		}
		return "false", nil
	case shadetype.Integer:
		f, _ := coerced.AsBigFloat().Int64()
		return fmt.Sprintf("i32(%d)", f), nil
	case shadetype.Float:
		f, _ := coerced.AsBigFloat().Float64()
		return shadetype.FormatFloat(f), nil
	}
	if !shadetype.IsVector(typeName) {
		return "", fmt.Errorf("type '%s' has no shader representation", typeName)
	}
	floats, err := shadetype.Floats(coerced)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(floats))
	for i, f := range floats {
		parts[i] = shadetype.FormatFloat(f)
	}
	return fmt.Sprintf("vec%d<f32>(%s)", len(floats), strings.Join(parts, ", ")), nil
}

// zero renders the zero value of an interchange type.
func zero(typeName string) (string, error) {
	switch typeName {
	case shadetype.Boolean:
		return "false", nil
	case shadetype.Integer:
		return "i32(0)", nil
	case shadetype.Float:
		return "0.0", nil
	}
	if shadetype.IsVector(typeName) {
		return fmt.Sprintf("vec%d<f32>(0.0)", shadetype.Components(typeName)), nil
	}
	return "", fmt.Errorf("type '%s' has no shader representation", typeName)
}

// splat renders a scalar constant f as the given numeric type.
func splat(f float64, typeName string) string {
	s := shadetype.FormatFloat(f)
	if shadetype.IsVector(typeName) {
		return fmt.Sprintf("vec%d<f32>(%s)", shadetype.Components(typeName), s)
	}
	return s
}

// convertExpr converts expr of type from into type to.
func convertExpr(expr, from, to string) (string, error) {
	if from == to || (components(from) == components(to) && from != shadetype.Integer && to != shadetype.Integer &&
		from != shadetype.Boolean && to != shadetype.Boolean) {
		return expr, nil
	}
	switch {
	case from == shadetype.Boolean:
		expr = fmt.Sprintf("select(0.0, 1.0, %s)", expr)
		from = shadetype.Float
	case from == shadetype.Integer:
		expr = fmt.Sprintf("f32(%s)", expr)
		from = shadetype.Float
	}
	switch to {
	case shadetype.Integer:
		if components(from) > 1 {
			expr += ".x"
		}
		return fmt.Sprintf("i32(%s)", expr), nil
	case shadetype.Boolean:
		if components(from) > 1 {
			expr += ".x"
		}
		return fmt.Sprintf("(%s != 0.0)", expr), nil
	}

	fromN, toN := components(from), components(to)
	switch {
	case fromN == toN:
		return expr, nil
	case fromN == 1:
		return fmt.Sprintf("vec%d<f32>(%s)", toN, expr), nil
	case toN == 1:
		return expr + ".x", nil
	case fromN > toN:
		return expr + "." + "xyzw"[:toN], nil
	case fromN == 2 && toN == 3:
		return fmt.Sprintf("vec3<f32>(%s, 0.0)", expr), nil
	case fromN == 2 && toN == 4:
		return fmt.Sprintf("vec4<f32>(%s, 0.0, 1.0)", expr), nil
	case fromN == 3 && toN == 4:
		return fmt.Sprintf("vec4<f32>(%s, 1.0)", expr), nil
	}
	return "", fmt.Errorf("cannot convert %s to %s", from, to)
}

// swizzle selects the channels of a sampled texel for the given type.
func swizzle(typeName string) string {
	switch components(typeName) {
	case 1:
		return ".r"
	case 2:
		return ".rg"
	case 3:
		return ".rgb"
	}
	return ""
}
