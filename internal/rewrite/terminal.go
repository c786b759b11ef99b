package rewrite

import (
	"slices"

	"github.com/vk/matfilt/internal/network"
	"github.com/vk/matfilt/internal/registry"
)

// Adapter node types, one per supported interchange surface shader.
const (
	StandardSurfaceAdapter   = "StandardSurfaceParameters"
	UsdPreviewSurfaceAdapter = "UsdPreviewSurfaceParameters"
	ClosureType              = "PxrSurface"
	closureSuffix            = "_" + ClosureType
	adapterOutputSuffix      = "Out"
	standardSurfaceShader    = "ND_standard_surface_surfaceshader"
	usdPreviewSurfaceShader  = "ND_UsdPreviewSurface_surfaceshader"
)

var terminalAdapters = map[string]string{
	standardSurfaceShader:   StandardSurfaceAdapter,
	usdPreviewSurfaceShader: UsdPreviewSurfaceAdapter,
}

// transformTerminalNode retypes the terminal to the adapter of its surface
// shader and points the surface terminal at a closure node fed by the
// adapter's outputs.
func (p *pass) transformTerminalNode() {
	termType := p.net.NodeType(p.terminal)
	adapterType, ok := terminalAdapters[termType]
	if !ok {
		p.report(KindUnsupported, p.terminal, "surface shader '%s' of type '%s' has no renderer adapter", p.terminal, termType)
		return
	}
	adapter, ok := p.f.cfg.Registry.ByIdentifierAndType(adapterType, registry.SourceTypeWGSL)
	if !ok {
		p.report(KindLookup, p.terminal, "adapter definition '%s' not found", adapterType)
		return
	}
	closure, ok := p.f.cfg.Registry.ByIdentifierAndType(ClosureType, registry.SourceTypeRenderer)
	if !ok {
		p.report(KindLookup, p.terminal, "closure definition '%s' not found", ClosureType)
		return
	}

	p.net.SetNodeType(p.terminal, adapter.Identifier)
	if adapterType == StandardSurfaceAdapter {
		p.renameReservedParameters()
	}

	closureName := p.terminal + closureSuffix
	p.net.SetNodeType(closureName, closure.Identifier)
	wired := 0
	for _, in := range closure.Inputs {
		out := in.Name + adapterOutputSuffix
		if !adapter.HasOutput(out) {
			continue
		}
		p.net.SetConnections(closureName, in.Name, []network.Connection{{UpstreamNode: p.terminal, UpstreamOutput: out}})
		wired++
	}
	p.net.SetTerminalConnection(network.SurfaceTerminal, network.Connection{UpstreamNode: closureName})
	p.logger.Debug("Terminal adapted.", "adapter", adapter.Identifier, "closure", closureName, "wired", wired)
}

// renameReservedParameters moves authored terminal parameters whose names are
// reserved words to their replacements.
func (p *pass) renameReservedParameters() {
	names := make([]string, 0, len(reservedWords))
	for name := range reservedWords {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		v, ok := p.net.Parameter(p.terminal, name)
		if !ok {
			continue
		}
		p.net.SetParameter(p.terminal, reservedWords[name], v)
		p.net.DeleteParameter(p.terminal, name)
	}
}
