package rewrite

import (
	"github.com/vk/matfilt/internal/interchange"
	"github.com/vk/matfilt/internal/nodeid"
)

// FindGraphAndNode looks up nodeName in the graph named graphNameHint, then in
// the most recently created graph, then in every graph in creation order. On
// a miss the node is nil and the graph is the hinted one, or nil when no
// graph has that name.
func FindGraphAndNode(doc *interchange.Document, graphNameHint, nodeName string) (*interchange.NodeGraph, *interchange.Node) {
	hinted, _ := doc.NodeGraph(graphNameHint)
	if hinted != nil {
		if n, ok := hinted.Node(nodeName); ok {
			return hinted, n
		}
	}

	last := doc.LastNodeGraph()
	if last != nil && last != hinted {
		if n, ok := last.Node(nodeName); ok {
			return last, n
		}
	}

	for _, g := range doc.NodeGraphs() {
		if g == hinted || g == last {
			continue
		}
		if n, ok := g.Node(nodeName); ok {
			return g, n
		}
	}
	return hinted, nil
}

// documentName returns the graph hint and node name under which the
// document builder stores a network node.
func documentName(networkNode string) (graphHint, nodeName string) {
	container, node := nodeid.Split(networkNode)
	if container == "" {
		container = interchange.DefaultGraphName
	}
	return container, node
}
