package registry

import (
	"github.com/zclconf/go-cty/cty"
)

// Property is a declared input or output of a node definition.
type Property struct {
	Name    string
	Type    string
	Default cty.Value
}

// Entry describes one registered node definition.
type Entry struct {
	Identifier    string
	Family        string
	SourceType    string
	SubIdentifier string
	Inputs        []Property
	Outputs       []Property
	Metadata      map[string]string
	// AssetPath is the compiled artifact the entry was registered from, if any.
	AssetPath string
}

// Input returns the declared input with the given name.
func (e *Entry) Input(name string) (Property, bool) {
	return findProperty(e.Inputs, name)
}

// Output returns the declared output with the given name.
func (e *Entry) Output(name string) (Property, bool) {
	return findProperty(e.Outputs, name)
}

// HasOutput reports whether the entry declares an output with the given name.
func (e *Entry) HasOutput(name string) bool {
	_, ok := e.Output(name)
	return ok
}

// MetadataValue returns a metadata value, or "" when absent.
func (e *Entry) MetadataValue(key string) string {
	return e.Metadata[key]
}

func findProperty(props []Property, name string) (Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}
