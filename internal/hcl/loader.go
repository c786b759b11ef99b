package hcl

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/fsutil"
	"github.com/vk/matfilt/internal/shadetype"
	"github.com/zclconf/go-cty/cty/function"
)

// FileExtension is the extension of configuration files.
const FileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// EvalContext returns the evaluation context used for every expression in
// configuration files. It exposes the `asset(path[, resolved])` function.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"asset": shadetype.AssetFunc,
		},
	}
}

// Load parses every .hcl file found in paths and merges all discovered blocks
// into a single model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, FileExtension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, model, file, hclFile.Body); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "nodedefs", len(model.NodeDefs), "materials", len(model.Materials))
	return model, nil
}

// LoadFS parses every .hcl file below root in fsys.
func (l *Loader) LoadFS(ctx context.Context, fsys fs.FS, root string) (*config.Model, error) {
	files, err := fsutil.FindFilesByExtensionFS(fsys, root, FileExtension)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Discovered embedded HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, model, file, hclFile.Body); err != nil {
			return nil, err
		}
	}
	return model, nil
}

// LoadBytes parses a single in-memory HCL document.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	model := config.NewModel()
	if err := l.decodeInto(ctx, model, filename, hclFile.Body); err != nil {
		return nil, err
	}
	return model, nil
}

// decodeInto decodes one file body and appends its translated blocks to model.
func (l *Loader) decodeInto(ctx context.Context, model *config.Model, file string, body hcl.Body) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	for _, nd := range root.NodeDefs {
		def, err := l.translateNodeDefinition(ctx, nd)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		model.NodeDefs = append(model.NodeDefs, def)
	}
	for _, mat := range root.Materials {
		m, err := l.translateMaterial(ctx, mat)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		model.Materials = append(model.Materials, m)
	}
	return nil
}
