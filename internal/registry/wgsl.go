package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/wgsl"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/shadetype"
)

// Well-known source types.
const (
	SourceTypeInterchange = "mtlx"
	SourceTypeWGSL        = "wgsl"
	SourceTypeRenderer    = "RmanCpp"
)

// SourceSuffix is appended to a compiled artifact's path to name the file
// holding the source it was compiled from.
const SourceSuffix = ".wgsl"

// ParseWGSLAsset describes a compiled WGSL shader by parsing the source stored
// next to the artifact. The `@fragment` entry point's parameters become the
// entry's inputs and the members of its returned struct become its outputs.
// The identifier is the entry point name followed by a short content hash.
func ParseWGSLAsset(ctx context.Context, assetPath string) (*Entry, error) {
	src, err := os.ReadFile(assetPath + SourceSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader source: %w", err)
	}
	return describeWGSL(ctx, string(src))
}

func describeWGSL(ctx context.Context, src string) (*Entry, error) {
	module, err := naga.Parse(src)
	if err != nil {
		return nil, err
	}

	entryPoint := findEntryPoint(module)
	if entryPoint == nil {
		return nil, fmt.Errorf("shader has no @fragment entry point")
	}

	sum := sha256.Sum256([]byte(src))
	e := &Entry{
		Identifier: entryPoint.Name + "_" + hex.EncodeToString(sum[:])[:8],
		Family:     "shader",
	}

	for _, p := range entryPoint.Params {
		if st := findStruct(module, p.Type); st != nil {
			for _, m := range st.Members {
				e.Inputs = append(e.Inputs, Property{Name: m.Name, Type: typeName(m.Type)})
			}
			continue
		}
		e.Inputs = append(e.Inputs, Property{Name: p.Name, Type: typeName(p.Type)})
	}

	if st := findStruct(module, entryPoint.ReturnType); st != nil {
		for _, m := range st.Members {
			e.Outputs = append(e.Outputs, Property{Name: m.Name, Type: typeName(m.Type)})
		}
	} else if entryPoint.ReturnType != nil {
		e.Outputs = append(e.Outputs, Property{Name: "out", Type: typeName(entryPoint.ReturnType)})
	}

	ctxlog.FromContext(ctx).Debug("Parsed shader signature.",
		"entry_point", entryPoint.Name, "inputs", len(e.Inputs), "outputs", len(e.Outputs))
	return e, nil
}

func findEntryPoint(m *wgsl.Module) *wgsl.FunctionDecl {
	for _, fn := range m.Functions {
		for _, attr := range fn.Attributes {
			if attr.Name == "fragment" {
				return fn
			}
		}
	}
	return nil
}

func findStruct(m *wgsl.Module, t wgsl.Type) *wgsl.StructDecl {
	named, ok := t.(*wgsl.NamedType)
	if !ok {
		return nil
	}
	for _, st := range m.Structs {
		if st.Name == named.Name {
			return st
		}
	}
	return nil
}

// typeName maps a WGSL type to the closest interchange type name. Colors and
// vectors share a representation, so three and four component vectors map
// to the vector types.
func typeName(t wgsl.Type) string {
	named, ok := t.(*wgsl.NamedType)
	if !ok {
		return ""
	}
	switch strings.TrimSuffix(named.Name, "f") {
	case "f32":
		return shadetype.Float
	case "i32", "u32":
		return shadetype.Integer
	case "bool":
		return shadetype.Boolean
	case "vec2":
		return shadetype.Vector2
	case "vec3":
		return shadetype.Vector3
	case "vec4":
		return shadetype.Vector4
	}
	return ""
}
