package interchange

import (
	"github.com/vk/matfilt/internal/config"
)

// interchangeSourceType is the source type of definitions that belong to the
// interchange representation.
const interchangeSourceType = "mtlx"

// NewLibrary builds a standard-library document from the interchange node
// definitions of the given models. Later definitions replace earlier ones
// with the same identifier.
func NewLibrary(models ...*config.Model) *Document {
	lib := NewDocument()
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, def := range m.NodeDefs {
			if def.SourceType != "" && def.SourceType != interchangeSourceType {
				continue
			}
			lib.AddNodeDef(def)
		}
	}
	return lib
}

// DefInput returns the declared input of def with the given name.
func DefInput(def *config.NodeDefinition, name string) (*config.PortDefinition, bool) {
	return findPort(def.Inputs, name)
}

// DefOutput returns the declared output of def with the given name.
func DefOutput(def *config.NodeDefinition, name string) (*config.PortDefinition, bool) {
	return findPort(def.Outputs, name)
}

// OutputType returns the node type implied by a definition: the type of its
// only output, or "multioutput".
func OutputType(def *config.NodeDefinition) string {
	switch len(def.Outputs) {
	case 0:
		return ""
	case 1:
		return def.Outputs[0].Type
	default:
		return "multioutput"
	}
}

func findPort(ports []*config.PortDefinition, name string) (*config.PortDefinition, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
