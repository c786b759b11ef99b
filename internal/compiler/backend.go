package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/mattn/go-shellwords"
	"github.com/vk/matfilt/internal/ctxlog"
)

// Backend names accepted by NewBackend.
const (
	BackendNaga = "naga"
	BackendExec = "exec"
	BackendNone = "none"
)

// Placeholders recognised in an external compiler command line.
const (
	PlaceholderInput    = "{in}"
	PlaceholderOutput   = "{out}"
	PlaceholderIncludes = "{includes}"
)

// Backend compiles fully expanded shader source into an artifact.
type Backend interface {
	Name() string
	Compile(ctx context.Context, source string, includeDirs []string) ([]byte, error)
}

// NewBackend returns the backend with the given name. The "none" backend is
// nil. command is only used by the exec backend.
func NewBackend(name, command string) (Backend, error) {
	switch name {
	case BackendNaga, "":
		return NewNagaBackend(), nil
	case BackendExec:
		return NewExecBackend(command)
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown compiler backend '%s'", name)
	}
}

// NagaBackend compiles WGSL to SPIR-V in-process.
type NagaBackend struct {
	Options naga.CompileOptions
}

// NewNagaBackend returns a naga backend with validation enabled.
func NewNagaBackend() *NagaBackend {
	return &NagaBackend{Options: naga.DefaultOptions()}
}

// Name implements Backend.
func (b *NagaBackend) Name() string { return BackendNaga }

// Compile implements Backend.
func (b *NagaBackend) Compile(ctx context.Context, source string, _ []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spv, err := naga.CompileWithOptions(source, b.Options)
	if err != nil {
		return nil, fmt.Errorf("naga: %w", err)
	}
	return spv, nil
}

// ExecBackend runs an external compiler. The source is written to the
// process's stdin unless an argument contains {in}, in which case it is
// written to a temporary file substituted there. The artifact is read from
// stdout unless an argument contains {out}. An argument equal to {includes}
// expands to one `-I <dir>` pair per include directory.
type ExecBackend struct {
	args []string
}

// NewExecBackend parses a shell-style command line.
func NewExecBackend(command string) (*ExecBackend, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("invalid compiler command %q: %w", command, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("compiler command is empty")
	}
	return &ExecBackend{args: args}, nil
}

// Name implements Backend.
func (b *ExecBackend) Name() string { return BackendExec }

// Compile implements Backend.
func (b *ExecBackend) Compile(ctx context.Context, source string, includeDirs []string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	work, err := os.MkdirTemp("", "matfilt-exec-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)
	inPath := filepath.Join(work, "shader.wgsl")
	outPath := filepath.Join(work, "shader.out")

	var args []string
	useIn, useOut := false, false
	for _, arg := range b.args {
		if arg == PlaceholderIncludes {
			for _, dir := range includeDirs {
				args = append(args, "-I", dir)
			}
			continue
		}
		if strings.Contains(arg, PlaceholderInput) {
			useIn = true
			arg = strings.ReplaceAll(arg, PlaceholderInput, inPath)
		}
		if strings.Contains(arg, PlaceholderOutput) {
			useOut = true
			arg = strings.ReplaceAll(arg, PlaceholderOutput, outPath)
		}
		args = append(args, arg)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if useIn {
		if err := os.WriteFile(inPath, []byte(source), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write compiler input: %w", err)
		}
	} else {
		cmd.Stdin = strings.NewReader(source)
	}

	logger.Debug("Running external shader compiler.", "command", args)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}

	if useOut {
		out, err := os.ReadFile(outPath)
		if err != nil {
			return nil, fmt.Errorf("compiler produced no output file: %w", err)
		}
		return out, nil
	}
	return stdout.Bytes(), nil
}
