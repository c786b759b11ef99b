package compiler

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const includeDirective = "#include"

// ExpandIncludes replaces every `#include "file"` line of source with the
// contents of file, looked up in dirs and then in fsys. Included files are
// expanded recursively and each file is inserted at most once.
func ExpandIncludes(source string, dirs []string, fsys fs.FS) (string, error) {
	var sb strings.Builder
	seen := make(map[string]struct{})
	if err := expandInto(&sb, source, dirs, fsys, seen, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// maxIncludeDepth bounds nested includes.
const maxIncludeDepth = 32

func expandInto(sb *strings.Builder, source string, dirs []string, fsys fs.FS, seen map[string]struct{}, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("includes nested deeper than %d levels", maxIncludeDepth)
	}
	scanner := bufio.NewScanner(strings.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		file, ok := parseInclude(line)
		if !ok {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}
		if _, done := seen[file]; done {
			continue
		}
		seen[file] = struct{}{}

		content, err := readInclude(file, dirs, fsys)
		if err != nil {
			return err
		}
		if err := expandInto(sb, content, dirs, fsys, seen, depth+1); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return scanner.Err()
}

// parseInclude returns the file named by an include directive line.
func parseInclude(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

func readInclude(file string, dirs []string, fsys fs.FS) (string, error) {
	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(file)))
		if err == nil {
			return string(data), nil
		}
	}
	if fsys != nil {
		data, err := fs.ReadFile(fsys, path.Clean(file))
		if err == nil {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("include file '%s' not found", file)
}
