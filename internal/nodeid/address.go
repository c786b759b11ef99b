// internal/nodeid/address.go
package nodeid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	if a.Absolute {
		sb.WriteRune('/')
	}
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('/')
		}
		sb.WriteString(segment.Name)
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Absolute == other.Absolute && slices.Equal(a.Path, other.Path)
}

// Name returns the last segment of the address, which names the node itself.
func (a *Address) Name() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1].Name
}

// Parent returns the address of the owning container, or nil when the
// address has a single segment.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) < 2 {
		return nil
	}
	return &Address{
		Absolute: a.Absolute,
		Path:     slices.Clone(a.Path[:len(a.Path)-1]),
	}
}

// ParentName returns the name of the owning container segment, or "".
func (a *Address) ParentName() string {
	return a.Parent().Name()
}

// Split is a convenience wrapper returning the container and node segments
// of a raw identifier. Unparseable identifiers are returned whole as the node
// segment so callers can still report them.
func Split(rawID string) (container, node string) {
	addr, err := Parse(rawID)
	if err != nil {
		return "", rawID
	}
	return addr.ParentName(), addr.Name()
}
