// Package stdlib embeds the standard node-definition library and the WGSL
// implementation snippets for definitions that are not lowered directly by
// the shader generator.
package stdlib

import (
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/vk/matfilt/internal/fsutil"
)

// Dir is the conventional standard-library subdirectory of a search path.
var Dir = filepath.Join("stdlib", "wgsl")

//go:embed defs/*.hcl
var defs embed.FS

//go:embed wgsl/*.wgsl
var snippets embed.FS

// Definitions returns the embedded node-definition HCL files.
func Definitions() fs.FS {
	sub, err := fs.Sub(defs, "defs")
	if err != nil {
		panic(err)
	}
	return sub
}

// Snippets returns the embedded `<nodedef>.wgsl` implementation snippets.
func Snippets() fs.FS {
	sub, err := fs.Sub(snippets, "wgsl")
	if err != nil {
		panic(err)
	}
	return sub
}

// IncludeDirs returns the directories to search for shader includes: for
// each search path its Dir subdirectory if present, else the path itself.
func IncludeDirs(searchPaths []string) []string {
	dirs := make([]string, 0, len(searchPaths))
	for _, sp := range searchPaths {
		if std := filepath.Join(sp, Dir); fsutil.IsDir(std) {
			dirs = append(dirs, std)
			continue
		}
		dirs = append(dirs, sp)
	}
	return dirs
}
