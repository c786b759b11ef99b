package app

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/hcl"
	"github.com/vk/matfilt/internal/rewrite"
)

// Result summarizes one rewritten material.
type Result struct {
	Material    string
	Diagnostics rewrite.Diagnostics
}

// Run rewrites every material found at the configured network path and
// writes the rewritten networks out. Diagnostics are reported in the
// returned results, never as an error.
func (a *App) Run(ctx context.Context) ([]Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "network_path", a.config.NetworkPath)

	model, err := a.loader.Load(ctx, a.config.NetworkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load networks: %w", err)
	}
	if len(model.Materials) == 0 {
		a.logger.Warn("No materials found, nothing to rewrite.", "path", a.config.NetworkPath)
		return nil, nil
	}

	var out bytes.Buffer
	results := make([]Result, 0, len(model.Materials))
	for i, m := range model.Materials {
		net := m.Network()
		diags := a.filter.Apply(ctx, net)
		a.logger.Info("Material rewritten.", "material", m.Path, "diagnostics", len(diags))
		results = append(results, Result{Material: m.Path, Diagnostics: diags})

		if i > 0 {
			out.WriteString("\n")
		}
		if err := hcl.WriteNetwork(&out, net); err != nil {
			return results, fmt.Errorf("failed to write material %s: %w", m.Path, err)
		}
	}

	if err := a.writeOutput(out.Bytes()); err != nil {
		return results, err
	}
	a.logger.Debug("App.Run method finished.", "materials", len(results))
	return results, nil
}

func (a *App) writeOutput(data []byte) error {
	if a.config.OutputPath == "" || a.config.OutputPath == "-" {
		_, err := a.outW.Write(data)
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("Output written.", "path", a.config.OutputPath)
	return nil
}
