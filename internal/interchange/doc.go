// Package interchange holds the in-memory interchange document a network is
// translated into before shader code generation.
//
// A Document owns node graphs (kept in creation order), a few top-level nodes
// (the material and its surface shader) and the node definitions imported from
// the standard library. Nodes reference their upstream nodes directly through
// their inputs.
package interchange
