// Package shadetype maps the value types of the interchange shading
// representation (float, color3, filename, ...) onto cty types, and defines
// the asset-path capsule type used for file-backed parameters.
//
// Parameter values everywhere in the module are cty.Values. Vectors and
// colors are lists of numbers; filenames are either plain strings or
// AssetPath capsules carrying the authored and resolved paths.
package shadetype
