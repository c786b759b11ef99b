package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/matfilt/internal/asset"
	"github.com/vk/matfilt/internal/compiler"
	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/fsutil"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/registry"
	"github.com/vk/matfilt/internal/rewrite"
	"github.com/vk/matfilt/internal/stdlib"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry
	library  *interchange.Document
	filter   *rewrite.Filter
}

// NewApp is the constructor for the main application. It loads the embedded
// node-definition library and every configured library, populates an
// isolated registry and prepares the rewrite filter. Rewritten networks are
// written to outW unless an output path is configured; logs go to logW.
// Configuration errors are fatal startup errors and panic.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.LoadFS(ctx, stdlib.Definitions(), ".")
	if err != nil {
		panic(fmt.Errorf("failed to load the standard library: %w", err))
	}
	if len(appConfig.LibraryPaths) > 0 {
		extra, err := loader.Load(ctx, appConfig.LibraryPaths...)
		if err != nil {
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		model.Merge(extra)
	}
	logger.Debug("Node-definition libraries loaded.", "nodedefs", len(model.NodeDefs))

	reg := registry.New()
	if err := reg.PopulateFromModel(ctx, model); err != nil {
		panic(fmt.Errorf("failed to populate the registry: %w", err))
	}
	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "entries", reg.Len())

	backend, err := compiler.NewBackend(appConfig.Compiler, appConfig.CompilerCommand)
	if err != nil {
		panic(err)
	}
	shaderCompiler := compiler.New(compiler.Config{
		Backend:  backend,
		TempDir:  appConfig.TempDir,
		Includes: stdlib.Snippets(),
	})
	if !shaderCompiler.Enabled() {
		logger.Warn("Shader compilation is disabled; interchange nodes will not be rewritten.")
	}

	baseDir := appConfig.NetworkPath
	if !fsutil.IsDir(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}
	library := interchange.NewLibrary(model)
	filter := rewrite.New(rewrite.Config{
		Registry:    reg,
		Library:     library,
		Compiler:    shaderCompiler,
		Resolver:    asset.NewFileResolver(baseDir, appConfig.SearchPaths),
		SearchPaths: appConfig.SearchPaths,
		Snippets:    stdlib.Snippets(),
	})

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		loader:   loader,
		registry: reg,
		library:  library,
		filter:   filter,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
