package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/matfilt/internal/app"
	"github.com/vk/matfilt/internal/cli"
	"github.com/vk/matfilt/internal/hcl"
)

// main is the entrypoint for the matfilt application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run rewrites the configured networks. Rewritten networks go to outW;
// logs, usage and the diagnostics summary go to errW.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// NewApp panics on startup configuration errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	matfiltApp := app.NewApp(outW, errW, appConfig, hcl.NewLoader())
	results, err := matfiltApp.Run(context.Background())
	if err != nil {
		return err
	}

	for _, r := range results {
		if len(r.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(errW, "%s: %d diagnostic(s)\n", r.Material, len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(errW, "  %s\n", d)
		}
	}
	return nil
}
