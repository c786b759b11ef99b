package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vk/matfilt/internal/compiler"
	"github.com/vk/matfilt/internal/stdlib"
)

// ErrSimulatedFailure is returned by FakeBackend for rejected sources.
var ErrSimulatedFailure = errors.New("simulated compiler failure")

// FakeBackend is a compiler.Backend that records its inputs and returns a
// fixed artifact.
type FakeBackend struct {
	// FailWhen rejects a source when it returns true.
	FailWhen func(source string) bool

	mu      sync.Mutex
	sources []string
}

var _ compiler.Backend = (*FakeBackend)(nil)

// Name implements compiler.Backend.
func (b *FakeBackend) Name() string { return "fake" }

// Compile implements compiler.Backend.
func (b *FakeBackend) Compile(_ context.Context, source string, _ []string) ([]byte, error) {
	b.mu.Lock()
	b.sources = append(b.sources, source)
	b.mu.Unlock()
	if b.FailWhen != nil && b.FailWhen(source) {
		return nil, ErrSimulatedFailure
	}
	return []byte("\x03\x02\x23\x07"), nil
}

// Sources returns every source passed to Compile, in call order.
func (b *FakeBackend) Sources() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.sources...)
}

// NewCompiler returns a compiler writing artifacts into a test directory and
// resolving includes from the embedded snippets.
func NewCompiler(t testing.TB, backend compiler.Backend) *compiler.Compiler {
	t.Helper()
	return compiler.New(compiler.Config{
		Backend:  backend,
		TempDir:  t.TempDir(),
		Includes: stdlib.Snippets(),
	})
}
