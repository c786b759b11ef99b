package rewrite

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/vk/matfilt/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

// textureNetwork returns a surface fed by the texture node /M/NG/img. When
// withTexcoord is set the texture reads its coordinates from /M/NG/uv.
func textureNetwork(t *testing.T, file, params string, withTexcoord bool) *network.Network {
	t.Helper()
	texcoord := ""
	if withTexcoord {
		texcoord = `
    connection "texcoord" {
      node   = "/M/NG/uv"
      output = "out"
    }`
	}
	return testutil.LoadNetwork(t, fmt.Sprintf(`
material "/M" {
  terminal "surface" { node = "/M/SS" }
  node "/M/SS" {
    type = "ND_standard_surface_surfaceshader"
    connection "base_color" {
      node   = "/M/NG/img"
      output = "out"
    }
  }
  node "/M/NG/img" {
    type = "ND_image_color3"
    parameters {
      file = %s
      %s
    }%s
  }
  node "/M/NG/uv" { type = "ND_texcoord_vector2" }
}`, file, params, texcoord))
}

// adaptTextures builds the document of net and runs the texture adaptor.
func adaptTextures(t *testing.T, net *network.Network) (*interchange.NodeGraph, Diagnostics) {
	t.Helper()
	return adaptTextureNodes(t, net, nil)
}

// adaptTextureNodes is adaptTextures over the given texture node names, or
// over the document's texture nodes when names is nil.
func adaptTextureNodes(t *testing.T, net *network.Network, names []string) (*interchange.NodeGraph, Diagnostics) {
	t.Helper()
	fx := newFixture(t)
	ctx, _ := testutil.Context(t)

	build, err := interchange.BuildDocument(ctx, net, "/M/SS", fx.filter.cfg.Library)
	require.NoError(t, err)
	require.Equal(t, []string{"/M/NG/img"}, build.TextureNodes)

	p := &pass{f: fx.filter, ctx: ctx, logger: ctxlog.FromContext(ctx), net: net, terminal: "/M/SS"}
	if names == nil {
		names = build.TextureNodes
	}
	p.updateTextureNodes(names, build.Document)

	g, ok := build.Document.NodeGraph("NG")
	require.True(t, ok)
	return g, p.diags
}

func fileValue(t *testing.T, g *interchange.NodeGraph) string {
	t.Helper()
	img, ok := g.Node("img")
	require.True(t, ok)
	in, ok := img.Input("file")
	require.True(t, ok)
	require.True(t, in.Value.Type().Equals(cty.String))
	return in.Value.AsString()
}

func countNodes(g *interchange.NodeGraph, suffix string) int {
	n := 0
	for _, node := range g.Nodes() {
		if strings.HasSuffix(node.Name, suffix) {
			n++
		}
	}
	return n
}

func TestWrapMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode      string
		wantWrap  string
		wantLossy bool
	}{
		{mode: "constant", wantWrap: "black", wantLossy: true},
		{mode: "clamp", wantWrap: "clamp"},
		{mode: "mirror", wantWrap: "repeat", wantLossy: true},
		{mode: "periodic", wantWrap: "repeat"},
		{mode: "", wantWrap: "repeat"},
		{mode: "bogus", wantWrap: "repeat"},
	}
	for _, tc := range testCases {
		t.Run("Success: "+tc.mode, func(t *testing.T) {
			t.Parallel()
			wrap, lossy := wrapMode(tc.mode)
			assert.Equal(t, tc.wantWrap, wrap)
			assert.Equal(t, tc.wantLossy, lossy)
		})
	}
}

func TestUpdateTextureNodes(t *testing.T) {
	t.Parallel()

	t.Run("Success: Non-native image gets a plugin indirection and a coordinate source", func(t *testing.T) {
		t.Parallel()
		g, diags := adaptTextures(t, textureNetwork(t, `asset("wood.png", "/tex/wood.png")`, "", false))
		assert.Empty(t, diags)

		assert.Equal(t, "rtxplugin:"+TexturePlugin+"?filename=/tex/wood.png&wrapS=repeat&wrapT=repeat", fileValue(t, g))

		img, _ := g.Node("img")
		texcoord, ok := img.Input("texcoord")
		require.True(t, ok)
		assert.Equal(t, shadetype.Vector2, texcoord.Type)
		coord := texcoord.ConnectedNode()
		require.NotNil(t, coord)
		assert.Equal(t, "img__texcoord", coord.Name)
		assert.Equal(t, "geompropvalue", coord.Category)
		assert.Equal(t, "ND_geompropvalue_vector2", coord.NodeDef)
		geomprop, ok := coord.Input("geomprop")
		require.True(t, ok)
		assert.Equal(t, "st", geomprop.Value.AsString())

		assert.Equal(t, 1, countNodes(g, texcoordSuffix))
		assert.Equal(t, 0, countNodes(g, remapSuffix), "non-native images are not flipped")
	})

	t.Run("Success: Lossy wrap modes are reported", func(t *testing.T) {
		t.Parallel()
		params := "uaddressmode = \"constant\"\n      vaddressmode = \"mirror\""
		g, diags := adaptTextures(t, textureNetwork(t, `asset("wood.png", "/tex/wood.png")`, params, false))
		require.Len(t, diags, 2, diags.String())
		assert.Equal(t, 2, diags.Count(KindTexture))
		assert.Contains(t, diags[0].Message, "constant")
		assert.Contains(t, diags[1].Message, "mirror")
		assert.True(t, strings.HasSuffix(fileValue(t, g), "&wrapS=black&wrapT=repeat"))
	})

	t.Run("Success: Native texture is flipped through a remap node", func(t *testing.T) {
		t.Parallel()
		g, diags := adaptTextures(t, textureNetwork(t, `asset("wood.tex", "/tex/wood.tex")`, "", false))
		assert.Empty(t, diags)
		assert.Equal(t, "/tex/wood.tex", fileValue(t, g))

		img, _ := g.Node("img")
		texcoord, _ := img.Input("texcoord")
		remap := texcoord.ConnectedNode()
		require.NotNil(t, remap)
		assert.Equal(t, "img__remap", remap.Name)
		assert.Equal(t, "ND_remap_vector2", remap.NodeDef)

		in, ok := remap.Input("in")
		require.True(t, ok)
		require.NotNil(t, in.ConnectedNode())
		assert.Equal(t, "img__texcoord", in.ConnectedNode().Name)

		inhigh, _ := remap.Input("inhigh")
		inlow, _ := remap.Input("inlow")
		assert.True(t, inhigh.Value.RawEquals(shadetype.Vec(1, 0)))
		assert.True(t, inlow.Value.RawEquals(shadetype.Vec(0, 1)))
	})

	t.Run("Success: Authored coordinates are kept and flipped", func(t *testing.T) {
		t.Parallel()
		g, diags := adaptTextures(t, textureNetwork(t, `asset("wood.tex", "/tex/wood.tex")`, "", true))
		assert.Empty(t, diags)
		assert.Equal(t, 0, countNodes(g, texcoordSuffix))

		img, _ := g.Node("img")
		texcoord, _ := img.Input("texcoord")
		remap := texcoord.ConnectedNode()
		require.NotNil(t, remap)
		in, _ := remap.Input("in")
		assert.Equal(t, "uv", in.ConnectedNode().Name)
		assert.Equal(t, "out", in.Output)
	})

	t.Run("Failure: File is not an asset reference", func(t *testing.T) {
		t.Parallel()
		g, diags := adaptTextures(t, textureNetwork(t, `"wood.png"`, "", false))
		require.Len(t, diags, 1)
		assert.Equal(t, KindTexture, diags[0].Kind)
		assert.Equal(t, 0, countNodes(g, texcoordSuffix), "the node is skipped")
	})

	t.Run("Success: Extension case is significant", func(t *testing.T) {
		t.Parallel()
		g, diags := adaptTextures(t, textureNetwork(t, `asset("WOOD.TEX", "/tex/WOOD.TEX")`, "", false))
		assert.Empty(t, diags)
		assert.Equal(t, "rtxplugin:"+TexturePlugin+"?filename=/tex/WOOD.TEX&wrapS=repeat&wrapT=repeat", fileValue(t, g))
		assert.Equal(t, 0, countNodes(g, remapSuffix))
	})

	t.Run("Failure: Texture node missing from the network", func(t *testing.T) {
		t.Parallel()
		net := textureNetwork(t, `asset("wood.png", "/tex/wood.png")`, "", false)
		g, diags := adaptTextureNodes(t, net, []string{"/M/NG/ghost"})
		require.Len(t, diags, 1)
		assert.Equal(t, KindLookup, diags[0].Kind)
		assert.Equal(t, "texture node '/M/NG/ghost' not found", diags[0].Message)
		assert.Equal(t, 0, countNodes(g, texcoordSuffix))
	})

	t.Run("Failure: Missing file parameter", func(t *testing.T) {
		t.Parallel()
		net := textureNetwork(t, `asset("wood.png", "/tex/wood.png")`, "", false)
		net.DeleteParameter("/M/NG/img", "file")
		g, diags := adaptTextures(t, net)
		require.Len(t, diags, 1)
		assert.Equal(t, KindTexture, diags[0].Kind)
		assert.Equal(t, "texture node '/M/NG/img' has no 'file' parameter", diags[0].Message)
		assert.Equal(t, 0, countNodes(g, texcoordSuffix), "the node is skipped")
	})

	t.Run("Failure: Unresolvable asset", func(t *testing.T) {
		t.Parallel()
		_, diags := adaptTextures(t, textureNetwork(t, `asset("does/not/exist.png")`, "", false))
		require.Len(t, diags, 1)
		assert.Contains(t, diags[0].Message, "does/not/exist.png")
	})
}
