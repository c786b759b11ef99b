// Package network defines the accessor interface through which the rewrite
// reads and mutates a material's shading network, along with an in-memory
// implementation.
//
// A network maps node names (path-like identifiers, see package nodeid) to
// node records. Each node has a type identifier, authored parameters
// (cty.Values) and input connections to upstream node outputs. A small set of
// named terminals (e.g. "surface") designate the network's entry points.
//
// Every enumeration method returns names in sorted order so that a rewrite
// over two copies of the same network performs identical mutations.
package network
