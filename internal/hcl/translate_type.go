// This file contains the logic for parsing HCL type expressions (e.g. `color3`,
// `"vector2"`) into interchange type names.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToName converts an HCL type expression into a known interchange
// type name. Both bare keywords and quoted strings are accepted.
func typeExprToName(ctx context.Context, expr hcl.Expression) (string, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return "", fmt.Errorf("missing type expression")
	}

	var name string
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name = v.Traversal.RootName()
		logger.Debug("Parsing type expression as a keyword.", "keyword", name)
	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", fmt.Errorf("unsupported expression for type definition: %w", diags)
		}
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return "", fmt.Errorf("type must be a keyword or string, got %s", val.Type().FriendlyName())
		}
		name = val.AsString()
	}

	if !shadetype.IsKnown(name) {
		return "", fmt.Errorf("unknown type %q", name)
	}
	return name, nil
}
