// Package hcl is the HCL implementation of config.Loader. It decodes
// `nodedef` and `material` blocks into the format-agnostic config model and
// writes rewritten networks back out as HCL.
package hcl
