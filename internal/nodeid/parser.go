// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex is used to validate a single segment of a path, e.g. `image1`.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_:.-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	if name == "." || name == ".." || name == "-" {
		return false
	}
	return true
}

// Parse creates a new Address struct by parsing its canonical string representation.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	addr := &Address{}
	rest := rawID
	if strings.HasPrefix(rest, "/") {
		addr.Absolute = true
		rest = rest[1:]
		if rest == "" {
			return nil, fmt.Errorf("identifier %q has no segments", rawID)
		}
	}

	for _, segmentStr := range strings.Split(rest, "/") {
		if segmentStr == "" {
			return nil, fmt.Errorf("identifier path contains empty segment")
		}
		if !segmentRegex.MatchString(segmentStr) {
			return nil, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}
		if !isValidSegmentName(segmentStr) {
			return nil, fmt.Errorf("invalid segment name: %q", segmentStr)
		}
		addr.Path = append(addr.Path, NewPathSegment(segmentStr))
	}

	return addr, nil
}
