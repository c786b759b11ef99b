package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/shadetype"
)

const imageShader = `
struct imgShaderOutput {
    @location(0) out: vec3<f32>,
    @location(1) alpha: f32,
}

@fragment
fn imgShader(@location(0) st: vec2<f32>) -> imgShaderOutput {
    var result: imgShaderOutput;
    result.out = vec3<f32>(st, 0.0);
    result.alpha = 1.0;
    return result;
}
`

// writeArtifact writes a fake compiled artifact and its source sidecar.
func writeArtifact(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name+".spv")
	require.NoError(t, os.WriteFile(path, []byte{0x03, 0x02, 0x23, 0x07}, 0o644))
	require.NoError(t, os.WriteFile(path+SourceSuffix, []byte(src), 0o644))
	return path
}

func TestRegisterFromAsset(t *testing.T) {
	t.Parallel()

	t.Run("Success: Describes the fragment entry point", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeArtifact(t, dir, "a", imageShader)

		r := New()
		e, err := r.RegisterFromAsset(context.Background(), path, map[string]string{"k": "v"}, "mtlx", SourceTypeWGSL)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(e.Identifier, "imgShader_"))
		assert.Len(t, e.Identifier, len("imgShader_")+8)
		assert.Equal(t, SourceTypeWGSL, e.SourceType)
		assert.Equal(t, "mtlx", e.SubIdentifier)
		assert.Equal(t, path, e.AssetPath)
		assert.Equal(t, "v", e.MetadataValue("k"))

		require.Len(t, e.Inputs, 1)
		assert.Equal(t, Property{Name: "st", Type: shadetype.Vector2}, e.Inputs[0])
		assert.True(t, e.HasOutput("out"))
		assert.True(t, e.HasOutput("alpha"))
		out, _ := e.Output("alpha")
		assert.Equal(t, shadetype.Float, out.Type)

		found, ok := r.ByIdentifier(e.Identifier, SourceTypeWGSL)
		require.True(t, ok)
		assert.Same(t, e, found)
	})

	t.Run("Success: Identical content reuses the entry", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		first := writeArtifact(t, dir, "first", imageShader)
		second := writeArtifact(t, dir, "second", imageShader)

		r := New()
		e1, err := r.RegisterFromAsset(context.Background(), first, nil, "mtlx", SourceTypeWGSL)
		require.NoError(t, err)
		e2, err := r.RegisterFromAsset(context.Background(), second, nil, "mtlx", SourceTypeWGSL)
		require.NoError(t, err)
		assert.Same(t, e1, e2)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("Failure: Unknown source type", func(t *testing.T) {
		t.Parallel()
		_, err := New().RegisterFromAsset(context.Background(), "x.oso", nil, "mtlx", "osl")
		require.True(t, errors.Is(err, ErrNoParser))
	})

	t.Run("Failure: Missing or unusable source", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		r := New()

		_, err := r.RegisterFromAsset(context.Background(), filepath.Join(dir, "missing.spv"), nil, "mtlx", SourceTypeWGSL)
		require.Error(t, err)

		noEntry := writeArtifact(t, dir, "vs", "fn helper() -> f32 { return 1.0; }\n")
		_, err = r.RegisterFromAsset(context.Background(), noEntry, nil, "mtlx", SourceTypeWGSL)
		require.ErrorContains(t, err, "no @fragment entry point")
		assert.Equal(t, 0, r.Len())
	})
}

func TestRegisterParser_Duplicate(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		New().RegisterParser(SourceTypeWGSL, ParseWGSLAsset)
	})
}
