package rewrite

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindLookup      Kind = "lookup"
	KindGeneration  Kind = "generation"
	KindCompilation Kind = "compilation"
	KindTexture     Kind = "texture"
	KindUnsupported Kind = "unsupported"
)

// Diagnostic is an advisory message about a part of the network the pass
// could not rewrite.
type Diagnostic struct {
	Kind    Kind
	Node    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Diagnostics lists diagnostics in emission order.
type Diagnostics []Diagnostic

// Count returns the number of diagnostics of the given kind.
func (ds Diagnostics) Count(kind Kind) int {
	n := 0
	for _, d := range ds {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Strings returns the messages, one per diagnostic.
func (ds Diagnostics) Strings() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}

func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
