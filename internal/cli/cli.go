package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/vk/matfilt/internal/app"
)

// SearchPathEnv lists extra search paths, separated like PATH.
const SearchPathEnv = "MATFILT_SEARCH_PATH"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("matfilt", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
matfilt - Rewrites interchange shading networks into compiled renderer networks.

Usage:
  matfilt [options] [NETWORK_PATH]

Arguments:
  NETWORK_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	networkFlag := flagSet.String("network", "", "Path to the network file or directory.")
	nFlag := flagSet.String("n", "", "Path to the network file or directory (shorthand).")
	libraryFlag := flagSet.String("library", "", "Comma-separated node-definition libraries loaded after the built-in one.")
	searchPathFlag := flagSet.String("search-path", "", "Shader include and texture search paths, separated like PATH. Also read from "+SearchPathEnv+".")
	outFlag := flagSet.String("out", "", "Output file for the rewritten networks. Empty or '-' writes to stdout.")
	compilerFlag := flagSet.String("compiler", "naga", "Shader compiler. Options: 'naga', 'exec' or 'none'.")
	compilerCmdFlag := flagSet.String("compiler-cmd", "", "Command line of the 'exec' compiler. Supports {in}, {out} and {includes}.")
	tempDirFlag := flagSet.String("temp-dir", "", "Directory for compiled shader artifacts. Defaults to the system temp dir.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *networkFlag != "" {
		path = *networkFlag
	} else if *nFlag != "" {
		path = *nFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Network path determined.", "path", path)

	if path == "" {
		slog.Debug("No network path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	searchPaths, err := expandPaths(filepath.SplitList(*searchPathFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	envPaths, err := expandPaths(filepath.SplitList(os.Getenv(SearchPathEnv)))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	searchPaths = append(searchPaths, envPaths...)

	libraryPaths, err := expandPaths(splitList(*libraryFlag, ","))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		NetworkPath:     path,
		LibraryPaths:    libraryPaths,
		SearchPaths:     searchPaths,
		OutputPath:      *outFlag,
		Compiler:        strings.ToLower(*compilerFlag),
		CompilerCommand: *compilerCmdFlag,
		TempDir:         *tempDirFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandPaths resolves a leading ~ in each path and drops empty entries.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		expanded, err := homedir.Expand(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path '%s': %w", p, err)
		}
		out = append(out, expanded)
	}
	return out, nil
}
