package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/vk/matfilt/internal/shadetype"
)

// Validate checks every interchange entry: declared port types must be known
// and defaults must conform to them, and port names must be unique per entry.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Identifier != entries[j].Identifier {
			return entries[i].Identifier < entries[j].Identifier
		}
		return entries[i].SourceType < entries[j].SourceType
	})

	var errs []string
	for _, e := range entries {
		errs = append(errs, validatePorts(e, "input", e.Inputs)...)
		errs = append(errs, validatePorts(e, "output", e.Outputs)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "entries", len(entries))
	return nil
}

func validatePorts(e *Entry, kind string, props []Property) []string {
	var errs []string
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Sprintf("nodedef '%s': duplicate %s '%s'", e.Identifier, kind, p.Name))
		}
		seen[p.Name] = struct{}{}

		if e.SourceType != SourceTypeInterchange {
			continue
		}
		if !shadetype.IsKnown(p.Type) {
			errs = append(errs, fmt.Sprintf("nodedef '%s', %s '%s': unknown type '%s'", e.Identifier, kind, p.Name, p.Type))
			continue
		}
		if shadetype.IsNull(p.Default) {
			continue
		}
		if _, err := shadetype.Coerce(p.Default, p.Type); err != nil {
			errs = append(errs, fmt.Sprintf("nodedef '%s', %s '%s': %v", e.Identifier, kind, p.Name, err))
		}
	}
	return errs
}
