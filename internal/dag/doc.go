// Package dag provides a small directed acyclic graph keyed by string IDs. It
// is used to order node evaluation during shader code generation and to
// reject cyclic networks before any code is emitted.
package dag
