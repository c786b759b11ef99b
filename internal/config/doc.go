// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from files.
//
// The `config.Model` carries two kinds of content: node definitions (the
// library that populates the node-definition registry and the interchange
// standard library) and materials (shading networks to rewrite). Concrete
// implementations of the Loader, such as for HCL, live in separate packages.
package config
