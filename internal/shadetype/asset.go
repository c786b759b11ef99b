package shadetype

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// AssetPath is an authored reference to an external file (usually a texture),
// optionally carrying the path it resolved to.
type AssetPath struct {
	Authored string
	Resolved string
}

// Path returns the resolved path when known, else the authored one.
func (a AssetPath) Path() string {
	if a.Resolved != "" {
		return a.Resolved
	}
	return a.Authored
}

// AssetPathType is the cty capsule type wrapping *AssetPath.
var AssetPathType = cty.CapsuleWithOps("asset", reflect.TypeOf(AssetPath{}), &cty.CapsuleOps{
	GoString: func(val interface{}) string {
		a := val.(*AssetPath)
		return fmt.Sprintf("shadetype.AssetPathVal(%q, %q)", a.Authored, a.Resolved)
	},
	TypeGoString: func(_ reflect.Type) string {
		return "shadetype.AssetPathType"
	},
	RawEquals: func(a, b interface{}) bool {
		return *a.(*AssetPath) == *b.(*AssetPath)
	},
	Equals: func(a, b interface{}) cty.Value {
		return cty.BoolVal(*a.(*AssetPath) == *b.(*AssetPath))
	},
})

// AssetPathVal wraps an asset reference into a cty value.
func AssetPathVal(authored, resolved string) cty.Value {
	return cty.CapsuleVal(AssetPathType, &AssetPath{Authored: authored, Resolved: resolved})
}

// AsAssetPath returns the asset reference held by v, if any.
func AsAssetPath(v cty.Value) (AssetPath, bool) {
	if IsNull(v) || !v.IsKnown() || !v.Type().Equals(AssetPathType) {
		return AssetPath{}, false
	}
	return *v.EncapsulatedValue().(*AssetPath), true
}

// AssetFunc implements the `asset(path)` configuration function which marks a
// string as a resolvable asset reference.
var AssetFunc = function.New(&function.Spec{
	Description: "Marks a path as a resolvable asset reference.",
	Params: []function.Parameter{
		{Name: "path", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "resolved", Type: cty.String},
	Type:     function.StaticReturnType(AssetPathType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		authored := args[0].AsString()
		resolved := ""
		if len(args) > 2 {
			return cty.NilVal, fmt.Errorf("asset() takes at most two arguments")
		}
		if len(args) == 2 {
			resolved = args[1].AsString()
		}
		return AssetPathVal(authored, resolved), nil
	},
})
