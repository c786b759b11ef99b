package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/registry"
	"github.com/vk/matfilt/internal/stdlib"
)

// ErrUnsupported is returned by every Compile call when no backend is
// configured.
var ErrUnsupported = errors.New("shader compilation is disabled; enable a compiler backend for full interchange support")

// ArtifactExtension is the extension of compiled artifacts.
const ArtifactExtension = ".spv"

// Config configures a Compiler.
type Config struct {
	// Backend compiles expanded source. A nil backend disables compilation.
	Backend Backend
	// TempDir receives the artifacts. Empty means os.TempDir().
	TempDir string
	// Includes is searched for include files after the include directories.
	Includes fs.FS
}

// Compiler compiles generated shaders into temporary artifacts.
type Compiler struct {
	cfg Config
}

// New creates a Compiler.
func New(cfg Config) *Compiler {
	return &Compiler{cfg: cfg}
}

// Enabled reports whether a backend is configured.
func (c *Compiler) Enabled() bool {
	return c.cfg.Backend != nil
}

// Compile compiles source and returns the path of the artifact. The include
// directories are derived from searchPaths with stdlib.IncludeDirs. The
// expanded source is stored at the artifact path plus registry.SourceSuffix.
func (c *Compiler) Compile(ctx context.Context, name, source string, searchPaths []string) (string, error) {
	if !c.Enabled() {
		return "", ErrUnsupported
	}
	logger := ctxlog.FromContext(ctx)

	dirs := stdlib.IncludeDirs(searchPaths)
	expanded, err := ExpandIncludes(source, dirs, c.cfg.Includes)
	if err != nil {
		return "", fmt.Errorf("failed to expand includes of shader '%s': %w", name, err)
	}

	artifact, err := c.cfg.Backend.Compile(ctx, expanded, dirs)
	if err != nil {
		return "", fmt.Errorf("failed to compile shader '%s' with %s: %w", name, c.cfg.Backend.Name(), err)
	}

	f, err := os.CreateTemp(c.cfg.TempDir, "MX."+sanitize(name)+".*"+ArtifactExtension)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact for shader '%s': %w", name, err)
	}
	path := f.Name()
	if _, err := f.Write(artifact); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	if err := os.WriteFile(path+registry.SourceSuffix, []byte(expanded), 0o644); err != nil {
		return "", fmt.Errorf("failed to write shader source next to %s: %w", path, err)
	}

	logger.Debug("Compiled shader.", "shader", name, "backend", c.cfg.Backend.Name(), "artifact", path, "bytes", len(artifact))
	return path, nil
}

// sanitize keeps name usable inside a temporary file pattern.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
