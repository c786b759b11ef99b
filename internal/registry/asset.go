package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/vk/matfilt/internal/ctxlog"
)

// ErrNoParser is returned when no AssetParser handles a source type.
var ErrNoParser = errors.New("no asset parser registered for source type")

// AssetParser reads a compiled artifact and describes it as an Entry. The
// returned entry's Identifier must be derived from the artifact's content so
// that identical artifacts map to the same identifier.
type AssetParser func(ctx context.Context, assetPath string) (*Entry, error)

// RegisterParser registers the parser for a source type.
func (r *Registry) RegisterParser(sourceType string, p AssetParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.parsers[sourceType]; exists {
		panic(fmt.Sprintf("asset parser for source type '%s' already registered", sourceType))
	}
	r.parsers[sourceType] = p
}

// RegisterFromAsset creates an entry from a compiled artifact. The entry is
// tagged with subIdentifier and sourceType and carries a copy of metadata.
// When an entry with the same identifier and source type already exists it
// is returned unchanged.
func (r *Registry) RegisterFromAsset(ctx context.Context, assetPath string, metadata map[string]string, subIdentifier, sourceType string) (*Entry, error) {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	parse, ok := r.parsers[sourceType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrNoParser, sourceType)
	}

	e, err := parse(ctx, assetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", assetPath, err)
	}
	e.SourceType = sourceType
	e.SubIdentifier = subIdentifier
	e.AssetPath = assetPath
	if e.Metadata == nil {
		e.Metadata = make(map[string]string, len(metadata))
	}
	maps.Copy(e.Metadata, metadata)

	r.mu.Lock()
	defer r.mu.Unlock()
	key := entryKey{e.Identifier, sourceType}
	if existing, ok := r.entries[key]; ok {
		logger.Debug("Asset matches an existing node definition.", "identifier", e.Identifier, "asset", assetPath)
		return existing, nil
	}
	r.entries[key] = e
	logger.Debug("Registered node definition from asset.", "identifier", e.Identifier, "source_type", sourceType, "asset", assetPath)
	return e, nil
}
