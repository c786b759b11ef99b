package config

import (
	"context"
	"io/fs"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories and
	// translates it into the format-agnostic model. Paths that do not exist
	// are skipped.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadFS is like Load but reads every matching file below root in fsys.
	LoadFS(ctx context.Context, fsys fs.FS, root string) (*Model, error)
}
