// Package shadergen generates WGSL fragment shaders from interchange nodes.
//
// Generate emits one shader per node: every node upstream of it is lowered to
// `let` bindings in dependency order and the node's declared outputs become
// the members of the returned struct. Common node categories are lowered
// directly; every other definition must ship a `<nodedef>.wgsl` snippet that
// declares a function named after the definition, found through the search
// paths and pulled in with an `#include` directive.
package shadergen
