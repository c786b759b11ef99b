// Package asset resolves authored asset references to concrete file paths.
package asset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/fsutil"
	"github.com/vk/matfilt/internal/shadetype"
)

// ErrNotFound is returned when an asset reference cannot be resolved.
var ErrNotFound = errors.New("asset not found")

// Resolver turns an asset reference into a concrete path.
type Resolver interface {
	Resolve(ctx context.Context, ref shadetype.AssetPath) (string, error)
}

// FileResolver resolves references against the local file system. A
// reference that already carries a resolved path is returned as-is.
// Relative references are tried against BaseDir, then each search path.
type FileResolver struct {
	BaseDir     string
	SearchPaths []string
}

var _ Resolver = (*FileResolver)(nil)

// NewFileResolver creates a resolver rooted at baseDir.
func NewFileResolver(baseDir string, searchPaths []string) *FileResolver {
	return &FileResolver{BaseDir: baseDir, SearchPaths: searchPaths}
}

// Resolve implements Resolver.
func (r *FileResolver) Resolve(ctx context.Context, ref shadetype.AssetPath) (string, error) {
	if ref.Resolved != "" {
		return ref.Resolved, nil
	}
	if ref.Authored == "" {
		return "", fmt.Errorf("%w: empty asset path", ErrNotFound)
	}

	authored, err := homedir.Expand(ref.Authored)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", ref.Authored, err)
	}
	if filepath.IsAbs(authored) {
		if fsutil.IsFile(authored) {
			return authored, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, authored)
	}

	var candidates []string
	if r.BaseDir != "" {
		candidates = append(candidates, filepath.Join(r.BaseDir, authored))
	}
	for _, sp := range r.SearchPaths {
		candidates = append(candidates, filepath.Join(sp, authored))
	}
	for _, c := range candidates {
		if fsutil.IsFile(c) {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, nil
			}
			ctxlog.FromContext(ctx).Debug("Resolved asset.", "authored", ref.Authored, "resolved", abs)
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, ref.Authored)
}

// Extension returns the extension of path, case preserved, without the
// leading dot. For package-relative paths of the form `pkg.usdz[inner.png]` the
// inner path's extension is returned.
func Extension(path string) string {
	if strings.HasSuffix(path, "]") {
		if i := strings.LastIndex(path, "["); i >= 0 {
			path = path[i+1 : len(path)-1]
		}
	}
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}
