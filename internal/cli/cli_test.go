package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/app"
)

func TestParse(t *testing.T) {
	t.Setenv(SearchPathEnv, "")

	home, err := homedir.Expand("~/shaders")
	require.NoError(t, err)
	sep := string(filepath.ListSeparator)

	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantErr  string
	}{
		{
			name: "Success: Positional path with defaults",
			args: []string{"looks.hcl"},
			want: &app.Config{NetworkPath: "looks.hcl", Compiler: "naga", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "Success: Shorthand network flag",
			args: []string{"-n", "looks.hcl", "-compiler", "NONE"},
			want: &app.Config{NetworkPath: "looks.hcl", Compiler: "none", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "Success: All options",
			args: []string{
				"-network", "looks",
				"-library", "a.hcl, b.hcl",
				"-search-path", "/opt/mtl" + sep + "~/shaders",
				"-out", "out.hcl",
				"-compiler", "exec",
				"-compiler-cmd", "glslc {in} -o {out}",
				"-temp-dir", "/tmp/mx",
				"-log-format", "JSON",
				"-log-level", "Debug",
			},
			want: &app.Config{
				NetworkPath:     "looks",
				LibraryPaths:    []string{"a.hcl", "b.hcl"},
				SearchPaths:     []string{"/opt/mtl", home},
				OutputPath:      "out.hcl",
				Compiler:        "exec",
				CompilerCommand: "glslc {in} -o {out}",
				TempDir:         "/tmp/mx",
				LogFormat:       "json",
				LogLevel:        "debug",
			},
		},
		{name: "Success: Help exits", args: []string{"-h"}, wantExit: true},
		{name: "Success: No path prints usage", args: []string{}, wantExit: true},
		{name: "Failure: Unknown flag", args: []string{"-bogus"}, wantErr: "flag provided but not defined"},
		{name: "Failure: Invalid log format", args: []string{"-log-format", "xml", "x.hcl"}, wantErr: "invalid log-format"},
		{name: "Failure: Invalid log level", args: []string{"-log-level", "trace", "x.hcl"}, wantErr: "invalid log-level"},
		{name: "Failure: Exec without command", args: []string{"-compiler", "exec", "x.hcl"}, wantErr: "requires a compiler command"},
		{name: "Failure: Unknown compiler", args: []string{"-compiler", "dxc", "x.hcl"}, wantErr: "unknown compiler"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)

			if tc.wantErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Nil(t, cfg)
				assert.True(t, strings.Contains(out.String(), "Usage:") || strings.Contains(out.String(), "-network"))
				return
			}
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_SearchPathEnv(t *testing.T) {
	sep := string(filepath.ListSeparator)
	t.Setenv(SearchPathEnv, "/env/one"+sep+sep+"/env/two")

	cfg, _, err := Parse([]string{"-search-path", "/flag", "looks.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"/flag", "/env/one", "/env/two"}, cfg.SearchPaths); diff != "" {
		t.Errorf("search paths mismatch (-want +got):\n%s", diff)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()
	err := &ExitError{Code: 3, Message: "boom"}
	assert.Equal(t, "boom", err.Error())
}
