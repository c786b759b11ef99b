package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/matfilt/internal/ctxlog"
)

type entryKey struct {
	identifier string
	sourceType string
}

// Registry holds every registered node definition for a single application
// instance. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[entryKey]*Entry
	parsers map[string]AssetParser
}

// New creates an empty Registry with the built-in asset parsers registered.
func New() *Registry {
	r := &Registry{
		entries: make(map[entryKey]*Entry),
		parsers: make(map[string]AssetParser),
	}
	r.RegisterParser(SourceTypeWGSL, ParseWGSLAsset)
	return r
}

// Register adds an entry. Registering the same identifier and source type
// twice is an error.
func (r *Registry) Register(ctx context.Context, e *Entry) error {
	if e == nil || e.Identifier == "" {
		return fmt.Errorf("registry entry must have an identifier")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey{e.Identifier, e.SourceType}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("node definition '%s' with source type '%s' already registered", e.Identifier, e.SourceType)
	}
	r.entries[key] = e
	ctxlog.FromContext(ctx).Debug("Registered node definition.", "identifier", e.Identifier, "source_type", e.SourceType)
	return nil
}

// ByIdentifier returns the entry for id. When sourceTypes are given, they are
// tried in order; otherwise any source type matches, preferring the
// lexicographically smallest for determinism.
func (r *Registry) ByIdentifier(id string, sourceTypes ...string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(sourceTypes) > 0 {
		for _, st := range sourceTypes {
			if e, ok := r.entries[entryKey{id, st}]; ok {
				return e, true
			}
		}
		return nil, false
	}

	var candidates []string
	for key := range r.entries {
		if key.identifier == id {
			candidates = append(candidates, key.sourceType)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Strings(candidates)
	return r.entries[entryKey{id, candidates[0]}], true
}

// ByIdentifierAndType returns the entry registered for the exact pair.
func (r *Registry) ByIdentifierAndType(id, sourceType string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[entryKey{id, sourceType}]
	return e, ok
}

// Identifiers returns every registered identifier for the source type, sorted.
func (r *Registry) Identifiers(sourceType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for key := range r.entries {
		if key.sourceType == sourceType {
			ids = append(ids, key.identifier)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
