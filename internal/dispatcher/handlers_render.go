package dispatcher

import (
	"context"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func renderDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "render_schematic",
				Description: "Render a circuit's schematic as an image.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to render"),
				}, []string{"circuitId"}),
			},
			Handler: handleRenderSchematic,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "plot_results",
				Description: "Plot one or more signals from the circuit's cached analysis result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit whose cached result to plot"),
					"signals":   arrayProp("string", "Names of signals to plot; all cached signals if omitted"),
				}, []string{"circuitId"}),
			},
			Handler: handlePlotResults,
		},
	}
}

func handleRenderSchematic(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	item, err := dctx.Backend.RenderSchematic(ctx, circuitID)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	return backend.NewToolResult(item), nil
}

func handlePlotResults(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	signals := optionalStringSlice(args, "signals")

	// plot_results reads the cache before calling into the backend
	// renderer; absent cached results is InvalidParams,
	// not a render failure.
	cached, aerr := requireCachedResult(dctx, circuitID)
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	item, err := dctx.Backend.RenderPlot(ctx, circuitID, cached, signals)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "signal", "")
	}

	return backend.NewToolResult(item), nil
}
