// Package rewrite converts the interchange part of a material network into
// nodes the target renderer can evaluate.
//
// For a network whose surface terminal is an interchange surface shader,
// Filter.Apply builds an interchange document from the network, adapts its
// texture nodes, generates and compiles one shader per node directly
// connected to the terminal, retypes those nodes to the compiled shaders and
// prunes what they replaced. It finally swaps the terminal for an adapter
// node feeding the renderer's closure.
//
// Problems caused by the network's content never fail the pass. They are
// reported as Diagnostics and the affected connection or node is left as is.
package rewrite
