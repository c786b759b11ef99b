// Package compiler turns generated WGSL into compiled shader artifacts.
//
// A Compiler expands `#include` directives over the standard-library include
// directories, hands the expanded source to a Backend and persists the result
// in a uniquely named temporary file. The expanded source is written next to
// the artifact so the node-definition registry can describe it.
//
// Three backends exist: "naga" compiles in-process to SPIR-V, "exec" runs an
// external command line, and "none" disables compilation so that every call
// fails with ErrUnsupported.
package compiler
