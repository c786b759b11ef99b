package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/shadetype"
)

func TestFileResolver_Resolve(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	search := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "wood.png"), []byte("png"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(search, "tex"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(search, "tex", "brick.tex"), []byte("tex"), 0o644))

	r := NewFileResolver(base, []string{search})
	ctx := context.Background()

	t.Run("Success: Pre-resolved paths win", func(t *testing.T) {
		got, err := r.Resolve(ctx, shadetype.AssetPath{Authored: "x.png", Resolved: "/cache/x.png"})
		require.NoError(t, err)
		assert.Equal(t, "/cache/x.png", got)
	})

	t.Run("Success: Relative to base directory", func(t *testing.T) {
		got, err := r.Resolve(ctx, shadetype.AssetPath{Authored: "wood.png"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "wood.png"), got)
	})

	t.Run("Success: Relative to a search path", func(t *testing.T) {
		got, err := r.Resolve(ctx, shadetype.AssetPath{Authored: "tex/brick.tex"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(search, "tex", "brick.tex"), got)
	})

	t.Run("Success: Absolute path", func(t *testing.T) {
		abs := filepath.Join(base, "wood.png")
		got, err := r.Resolve(ctx, shadetype.AssetPath{Authored: abs})
		require.NoError(t, err)
		assert.Equal(t, abs, got)
	})

	t.Run("Failure: Unresolvable references", func(t *testing.T) {
		for _, ref := range []shadetype.AssetPath{
			{},
			{Authored: "missing.png"},
			{Authored: filepath.Join(base, "missing.png")},
		} {
			_, err := r.Resolve(ctx, ref)
			assert.True(t, errors.Is(err, ErrNotFound), "ref %+v", ref)
		}
	})
}

func TestExtension(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/a/b/wood.PNG":              "PNG",
		"/a/b/WOOD.TEX":              "TEX",
		"brick.tex":                  "tex",
		"noext":                      "",
		"/pkg/model.usdz[tex/c.jpg]": "jpg",
		"dir.d/file":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Extension(in), in)
	}
}
