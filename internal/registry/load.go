package registry

import (
	"context"
	"maps"

	"github.com/vk/matfilt/internal/config"
	"github.com/vk/matfilt/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// PopulateFromModel registers every node definition of the loaded model.
// Definitions without a source type are registered as interchange nodes.
func (r *Registry) PopulateFromModel(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	for _, def := range model.NodeDefs {
		if err := r.Register(ctx, EntryFromDefinition(def)); err != nil {
			return err
		}
	}
	logger.Debug("Registry populated from model.", "nodedefs", len(model.NodeDefs), "entries", r.Len())
	return nil
}

// EntryFromDefinition converts a format-agnostic node definition into an Entry.
func EntryFromDefinition(def *config.NodeDefinition) *Entry {
	sourceType := def.SourceType
	if sourceType == "" {
		sourceType = SourceTypeInterchange
	}
	e := &Entry{
		Identifier: def.Identifier,
		Family:     def.Family,
		SourceType: sourceType,
		Metadata:   make(map[string]string, len(def.Metadata)),
	}
	maps.Copy(e.Metadata, def.Metadata)
	for _, p := range def.Inputs {
		e.Inputs = append(e.Inputs, propertyFromPort(p))
	}
	for _, p := range def.Outputs {
		e.Outputs = append(e.Outputs, propertyFromPort(p))
	}
	return e
}

func propertyFromPort(p *config.PortDefinition) Property {
	prop := Property{Name: p.Name, Type: p.Type, Default: cty.NilVal}
	if p.Default != nil {
		prop.Default = *p.Default
	}
	return prop
}
