// internal/nodeid/types.go
package nodeid

// PathSegment represents a single component of an address path.
type PathSegment struct {
	Name string
}

// NewPathSegment creates a new path segment.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name}
}

// Address is the structured representation of a unique node identifier.
// It is modeled as a path, broken into segments.
type Address struct {
	// Absolute is true when the canonical form starts with a slash.
	Absolute bool
	Path     []PathSegment
}
