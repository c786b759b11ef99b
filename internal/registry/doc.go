// Package registry provides the node-definition registry.
//
// The Registry maps a type identifier and a source type (the language or
// representation a definition belongs to, e.g. "mtlx" for interchange nodes or
// "wgsl" for compiled shaders) to an Entry describing the node's declared
// inputs, outputs and metadata.
//
// During application startup the registry is populated from the loaded
// node-definition library and validated. At rewrite time new entries are
// added from compiled shader artifacts through per-source-type AssetParsers.
// Entries are never removed.
package registry
