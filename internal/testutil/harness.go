// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/hcl"
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/registry"
	"github.com/vk/matfilt/internal/stdlib"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug logger that writes to the
// returned buffer. With MATFILT_TEST_LOGS=true the log is printed when the
// test ends.
func Context(t testing.TB) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("MATFILT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// StdlibModel loads the embedded node-definition library.
func StdlibModel(t testing.TB) *config.Model {
	t.Helper()
	model, err := hcl.NewLoader().LoadFS(context.Background(), stdlib.Definitions(), ".")
	require.NoError(t, err)
	return model
}

// NewRegistry returns a fresh registry holding the embedded library.
func NewRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.PopulateFromModel(context.Background(), StdlibModel(t)))
	return reg
}

// NewLibrary returns the interchange library document of the embedded
// library.
func NewLibrary(t testing.TB) *interchange.Document {
	t.Helper()
	return interchange.NewLibrary(StdlibModel(t))
}

// LoadNetwork parses a single-material HCL document.
func LoadNetwork(t testing.TB, src string) *network.Network {
	t.Helper()
	model, err := hcl.NewLoader().LoadBytes(context.Background(), []byte(src), "network.hcl")
	require.NoError(t, err)
	require.Len(t, model.Materials, 1)
	return model.Materials[0].Network()
}
