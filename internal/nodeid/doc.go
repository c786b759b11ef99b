// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for node identifiers in a
shading network, based on the canonical path format.

The format is a slash-separated sequence of segments, e.g.
`/Materials/Wood/NodeGraph/image1`. The last segment names the node and the
segment before it names the container (node graph) that owns it.

This package centralizes all formatting and parsing logic so that the rewrite
never splits identifiers by hand.
*/
package nodeid
