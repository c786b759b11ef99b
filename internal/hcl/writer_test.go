package hcl

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

func TestWriteNetwork_RoundTrip(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().LoadBytes(context.Background(), []byte(materialHCL), "mat.hcl")
	require.NoError(t, err)
	original := model.Materials[0].Network()

	var buf bytes.Buffer
	require.NoError(t, WriteNetwork(&buf, original))

	reloaded, err := NewLoader().LoadBytes(context.Background(), buf.Bytes(), "out.hcl")
	require.NoError(t, err)
	require.Len(t, reloaded.Materials, 1)
	again := reloaded.Materials[0].Network()

	second, err := FormatNetwork(again)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(second), "Writing a reloaded network should be byte-identical")

	file, ok := again.Parameter("img", "file")
	require.True(t, ok)
	a, ok := shadetype.AsAssetPath(file)
	require.True(t, ok)
	assert.Equal(t, "/abs/tex/wood.png", a.Resolved)
}

func TestFormatNetwork_SortedAndDeterministic(t *testing.T) {
	t.Parallel()

	build := func(order []string) *network.Network {
		net := network.New("/M")
		for _, n := range order {
			net.SetNodeType(n, "ND_constant_float")
			net.SetParameter(n, "value", cty.NumberIntVal(1))
		}
		net.SetTerminalConnection(network.SurfaceTerminal, network.Connection{UpstreamNode: "b"})
		return net
	}

	a, err := FormatNetwork(build([]string{"c", "a", "b"}))
	require.NoError(t, err)
	b, err := FormatNetwork(build([]string{"b", "c", "a"}))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	aIdx := bytes.Index(a, []byte(`node "a"`))
	cIdx := bytes.Index(a, []byte(`node "c"`))
	assert.True(t, aIdx >= 0 && aIdx < cIdx, "nodes should be written in sorted order")
}

func TestFormatNetwork_RejectsUnknownValues(t *testing.T) {
	t.Parallel()

	net := network.New("/M")
	net.SetNodeType("a", "x")
	net.SetParameter("a", "v", cty.UnknownVal(cty.Number))

	_, err := FormatNetwork(net)
	require.Error(t, err)
}
