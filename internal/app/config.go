package app

import (
	"errors"
	"fmt"

	"github.com/vk/matfilt/internal/compiler"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetworkPath  string   // hcl file or directory holding material networks
	LibraryPaths []string // extra node-definition libraries
	SearchPaths  []string // shader include and texture search paths
	OutputPath   string   // "" writes to the app's output writer

	Compiler        string // naga, exec or none
	CompilerCommand string // command line for the exec compiler
	TempDir         string // compiled artifacts; "" is the system default

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.NetworkPath == "" {
		return nil, errors.New("NetworkPath is a required configuration field and cannot be empty")
	}

	switch cfg.Compiler {
	case "":
		cfg.Compiler = compiler.BackendNaga
	case compiler.BackendNaga, compiler.BackendNone:
	case compiler.BackendExec:
		if cfg.CompilerCommand == "" {
			return nil, errors.New("the exec compiler requires a compiler command")
		}
	default:
		return nil, fmt.Errorf("unknown compiler '%s': must be '%s', '%s' or '%s'",
			cfg.Compiler, compiler.BackendNaga, compiler.BackendExec, compiler.BackendNone)
	}

	return &cfg, nil
}
