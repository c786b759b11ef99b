package shadetype

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Interchange type names.
const (
	Float         = "float"
	Integer       = "integer"
	Boolean       = "boolean"
	String        = "string"
	Filename      = "filename"
	Vector2       = "vector2"
	Vector3       = "vector3"
	Vector4       = "vector4"
	Color3        = "color3"
	Color4        = "color4"
	SurfaceShader = "surfaceshader"
)

type typeInfo struct {
	ty         cty.Type
	components int
}

var known = map[string]typeInfo{
	Float:         {cty.Number, 1},
	Integer:       {cty.Number, 1},
	Boolean:       {cty.Bool, 1},
	String:        {cty.String, 0},
	Filename:      {cty.String, 0},
	Vector2:       {cty.List(cty.Number), 2},
	Vector3:       {cty.List(cty.Number), 3},
	Vector4:       {cty.List(cty.Number), 4},
	Color3:        {cty.List(cty.Number), 3},
	Color4:        {cty.List(cty.Number), 4},
	SurfaceShader: {cty.DynamicPseudoType, 0},
}

// IsKnown reports whether name is an interchange type this module understands.
func IsKnown(name string) bool {
	_, ok := known[name]
	return ok
}

// Names returns every known interchange type name in sorted order.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CtyType returns the cty type used to hold values of the named interchange type.
func CtyType(name string) (cty.Type, bool) {
	info, ok := known[name]
	return info.ty, ok
}

// Components returns the number of numeric components of a vector or color
// type, 1 for scalars and 0 for non-numeric types.
func Components(name string) int {
	return known[name].components
}

// IsVector reports whether the type is a numeric vector or color.
func IsVector(name string) bool {
	info, ok := known[name]
	return ok && info.components > 1
}

// Coerce converts v to the representation of the named interchange type.
// AssetPath capsules are accepted as-is for filename values.
func Coerce(v cty.Value, typeName string) (cty.Value, error) {
	info, ok := known[typeName]
	if !ok {
		return cty.NilVal, fmt.Errorf("unknown interchange type %q", typeName)
	}
	if IsNull(v) {
		return cty.NullVal(info.ty), nil
	}
	if typeName == Filename && v.Type().Equals(AssetPathType) {
		return v, nil
	}
	if info.ty == cty.DynamicPseudoType {
		return v, nil
	}

	converted, err := convert.Convert(v, info.ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w", v.Type().FriendlyName(), typeName, err)
	}
	if info.components > 1 && converted.IsKnown() && converted.LengthInt() != info.components {
		return cty.NilVal, fmt.Errorf("%s requires %d components, got %d", typeName, info.components, converted.LengthInt())
	}
	return converted, nil
}

// Vec builds a list-of-numbers value from the given components.
func Vec(components ...float64) cty.Value {
	if components == nil {
		components = []float64{}
	}
	v, err := gocty.ToCtyValue(components, cty.List(cty.Number))
	if err != nil {
		panic(fmt.Sprintf("shadetype: %v", err))
	}
	return v
}

// Floats extracts the numeric components of a scalar, list or tuple value.
func Floats(v cty.Value) ([]float64, error) {
	if IsNull(v) || !v.IsKnown() {
		return nil, fmt.Errorf("value is null or unknown")
	}
	ty := v.Type()
	switch {
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return []float64{f}, nil
	case ty == cty.Bool:
		if v.True() {
			return []float64{1}, nil
		}
		return []float64{0}, nil
	case ty.IsListType() || ty.IsTupleType():
		out := make([]float64, 0, v.LengthInt())
		for _, elem := range v.AsValueSlice() {
			num, err := convert.Convert(elem, cty.Number)
			if err != nil {
				return nil, fmt.Errorf("component is not a number: %w", err)
			}
			f, _ := num.AsBigFloat().Float64()
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value of type %s has no numeric components", ty.FriendlyName())
	}
}

// FormatFloat renders a float the way generated code and diagnostics expect:
// shortest exact representation, always with a decimal point.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'I' || r == 'N' {
			return s
		}
	}
	return s + ".0"
}

// IsNull reports whether v is the zero Value or a null value.
func IsNull(v cty.Value) bool {
	return v.Type() == cty.NilType || v.IsNull()
}
