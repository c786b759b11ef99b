package hcl

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

// FormatNetwork renders a network as a `material` block. Nodes, parameters,
// connections and terminals are emitted in sorted order so equal networks
// produce identical bytes.
func FormatNetwork(net network.Interface) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	mat := f.Body().AppendNewBlock("material", []string{net.MaterialPath()}).Body()

	for _, name := range net.TerminalNames() {
		conn, _ := net.TerminalConnection(name)
		tb := mat.AppendNewBlock("terminal", []string{name}).Body()
		tb.SetAttributeValue("node", cty.StringVal(conn.UpstreamNode))
		tb.SetAttributeValue("output", cty.StringVal(conn.UpstreamOutput))
	}

	for _, name := range net.NodeNames() {
		mat.AppendNewline()
		nb := mat.AppendNewBlock("node", []string{name}).Body()
		nb.SetAttributeValue("type", cty.StringVal(net.NodeType(name)))

		if params := net.ParameterNames(name); len(params) > 0 {
			pb := nb.AppendNewBlock("parameters", nil).Body()
			for _, param := range params {
				v, _ := net.Parameter(name, param)
				tokens, err := valueTokens(v)
				if err != nil {
					return nil, fmt.Errorf("node '%s', parameter '%s': %w", name, param, err)
				}
				pb.SetAttributeRaw(param, tokens)
			}
		}

		for _, input := range net.ConnectionNames(name) {
			for _, conn := range net.Connections(name, input) {
				cb := nb.AppendNewBlock("connection", []string{input}).Body()
				cb.SetAttributeValue("node", cty.StringVal(conn.UpstreamNode))
				cb.SetAttributeValue("output", cty.StringVal(conn.UpstreamOutput))
			}
		}
	}
	return f.Bytes(), nil
}

// WriteNetwork writes the HCL rendering of net to w.
func WriteNetwork(w io.Writer, net network.Interface) error {
	b, err := FormatNetwork(net)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// valueTokens renders a parameter value, using `asset(...)` for asset paths.
func valueTokens(v cty.Value) (hclwrite.Tokens, error) {
	if shadetype.IsNull(v) {
		return hclwrite.TokensForValue(cty.NullVal(cty.DynamicPseudoType)), nil
	}
	if a, ok := shadetype.AsAssetPath(v); ok {
		args := []hclwrite.Tokens{hclwrite.TokensForValue(cty.StringVal(a.Authored))}
		if a.Resolved != "" {
			args = append(args, hclwrite.TokensForValue(cty.StringVal(a.Resolved)))
		}
		return hclwrite.TokensForFunctionCall("asset", args...), nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if v.Type().IsCapsuleType() {
		return nil, fmt.Errorf("cannot write value of type %s", v.Type().FriendlyName())
	}
	return hclwrite.TokensForValue(v), nil
}
