package interchange

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty"
)

func testLibrary() *Document {
	return NewLibrary(&config.Model{NodeDefs: []*config.NodeDefinition{
		{
			Identifier: "ND_standard_surface_surfaceshader",
			Node:       "standard_surface",
			Inputs: []*config.PortDefinition{
				{Name: "base", Type: shadetype.Float},
				{Name: "base_color", Type: shadetype.Color3},
			},
			Outputs: []*config.PortDefinition{{Name: "out", Type: shadetype.SurfaceShader}},
		},
		{
			Identifier: "ND_image_color3",
			Node:       "image",
			Inputs: []*config.PortDefinition{
				{Name: "file", Type: shadetype.Filename},
				{Name: "texcoord", Type: shadetype.Vector2},
			},
			Outputs: []*config.PortDefinition{{Name: "out", Type: shadetype.Color3}},
		},
		{
			Identifier: "ND_multiply_color3",
			Node:       "multiply",
			Inputs: []*config.PortDefinition{
				{Name: "in1", Type: shadetype.Color3},
				{Name: "in2", Type: shadetype.Color3},
			},
			Outputs: []*config.PortDefinition{{Name: "out", Type: shadetype.Color3}},
		},
		{Identifier: "PxrSurface", Node: "PxrSurface", SourceType: "RmanCpp"},
	}})
}

func testNetwork() *network.Network {
	net := network.New("/Looks/Wood")
	net.SetNodeType("/Looks/Wood/SS", "ND_standard_surface_surfaceshader")
	net.SetParameter("/Looks/Wood/SS", "base", cty.NumberIntVal(1))
	net.SetConnections("/Looks/Wood/SS", "base_color", []network.Connection{{UpstreamNode: "/Looks/Wood/NG/mult", UpstreamOutput: "out"}})

	net.SetNodeType("/Looks/Wood/NG/mult", "ND_multiply_color3")
	net.SetParameter("/Looks/Wood/NG/mult", "in2", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(1), cty.NumberIntVal(1)}))
	net.SetConnections("/Looks/Wood/NG/mult", "in1", []network.Connection{{UpstreamNode: "/Looks/Wood/NG/img", UpstreamOutput: "out"}})

	net.SetNodeType("/Looks/Wood/NG/img", "ND_image_color3")
	net.SetParameter("/Looks/Wood/NG/img", "file", shadetype.AssetPathVal("wood.png", ""))

	net.SetNodeType("/Looks/Wood/NG/unused", "ND_image_color3")
	net.SetTerminalConnection(network.SurfaceTerminal, network.Connection{UpstreamNode: "/Looks/Wood/SS", UpstreamOutput: "out"})
	return net
}

func TestNewLibrary_SkipsForeignSourceTypes(t *testing.T) {
	t.Parallel()
	lib := testLibrary()
	assert.Equal(t, 3, lib.NodeDefCount())
	_, ok := lib.NodeDef("PxrSurface")
	assert.False(t, ok)
}

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	t.Run("Success: Translates the upstream network", func(t *testing.T) {
		t.Parallel()
		b, err := BuildDocument(context.Background(), testNetwork(), "/Looks/Wood/SS", testLibrary())
		require.NoError(t, err)

		doc := b.Document
		assert.Equal(t, "Wood", b.MaterialNode)
		assert.Equal(t, "SR_Wood", b.ShaderNode)
		assert.Equal(t, []string{"/Looks/Wood/NG/img"}, b.TextureNodes)

		g, ok := doc.NodeGraph("NG")
		require.True(t, ok)
		names := []string{}
		for _, n := range g.Nodes() {
			names = append(names, n.Name)
		}
		assert.Equal(t, []string{"mult", "img"}, names, "unreachable nodes are not translated")

		mult, _ := g.Node("mult")
		img, _ := g.Node("img")
		assert.Equal(t, "multiply", mult.Category)
		assert.Equal(t, shadetype.Color3, mult.Type)
		in1, ok := mult.Input("in1")
		require.True(t, ok)
		assert.Same(t, img, in1.ConnectedNode())
		assert.Equal(t, "out", in1.Output)

		in2, ok := mult.Input("in2")
		require.True(t, ok)
		assert.True(t, in2.Value.RawEquals(shadetype.Vec(1, 1, 1)), "parameters are coerced to the declared type")

		file, ok := img.Input("file")
		require.True(t, ok)
		assert.Equal(t, shadetype.Filename, file.Type)

		shader, ok := doc.Node("SR_Wood")
		require.True(t, ok)
		assert.Equal(t, "standard_surface", shader.Category)
		bc, ok := shader.Input("base_color")
		require.True(t, ok)
		assert.Same(t, mult, bc.ConnectedNode())

		material, ok := doc.Node("Wood")
		require.True(t, ok)
		ss, _ := material.Input("surfaceshader")
		assert.Same(t, shader, ss.ConnectedNode())

		doc.RemoveNode("SR_Wood")
		assert.Nil(t, ss.ConnectedNode(), "removing a node disconnects its consumers")
	})

	t.Run("Success: Colliding container names are uniquified", func(t *testing.T) {
		t.Parallel()
		net := network.New("/M")
		net.SetNodeType("/M/SS", "ND_standard_surface_surfaceshader")
		net.SetConnections("/M/SS", "base_color", []network.Connection{{UpstreamNode: "/A/NG/x", UpstreamOutput: "out"}})
		net.SetConnections("/M/SS", "base", []network.Connection{{UpstreamNode: "/B/NG/y", UpstreamOutput: "out"}})
		net.SetNodeType("/A/NG/x", "ND_image_color3")
		net.SetNodeType("/B/NG/y", "ND_image_color3")

		b, err := BuildDocument(context.Background(), net, "/M/SS", testLibrary())
		require.NoError(t, err)

		graphs := b.Document.NodeGraphs()
		require.Len(t, graphs, 2)
		assert.Equal(t, "NG", graphs[0].Name)
		assert.Equal(t, "NG2", graphs[1].Name)
		assert.Same(t, graphs[1], b.Document.LastNodeGraph())
	})

	t.Run("Failure: Terminal without definition", func(t *testing.T) {
		t.Parallel()
		net := network.New("/M")
		net.SetNodeType("/M/SS", "ND_unknown")
		_, err := BuildDocument(context.Background(), net, "/M/SS", testLibrary())
		require.Error(t, err)
	})
}
