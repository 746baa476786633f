package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func derivedAnalysisDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "impedance",
				Description: "Compute impedance between two nodes from the circuit's cached analysis result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit whose cached result to use"),
					"nodeA":     stringProp("First node"),
					"nodeB":     stringProp("Second node"),
				}, []string{"circuitId", "nodeA", "nodeB"}),
			},
			Handler: handleImpedance,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "extract_measurement",
				Description: "Extract a named measurement from the circuit's cached analysis result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId":   stringProp("Id of the circuit whose cached result to use"),
					"measurement": stringProp("Measurement name, e.g. rise_time, overshoot, gain_margin"),
				}, []string{"circuitId", "measurement"}),
			},
			Handler: handleExtractMeasurement,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "group_delay",
				Description: "Compute group delay of a signal from the circuit's cached AC analysis result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit whose cached result to use"),
					"signal":    stringProp("Signal name to compute group delay for"),
				}, []string{"circuitId", "signal"}),
			},
			Handler: handleGroupDelay,
		},
	}
}

// requireCachedResult fetches circuitID's cached analysis or returns the
// InvalidParams error every derived-analysis and rendering tool must
// surface when none exists.
func requireCachedResult(dctx *Context, circuitID string) (backend.CachedAnalysisResult, *Error) {
	cached, ok := dctx.Cache.Get(circuitID)
	if !ok {
		return backend.CachedAnalysisResult{}, InvalidParams(fmt.Sprintf("no cached analysis results for circuit %s; run an analysis first", circuitID))
	}
	return cached, nil
}

func handleImpedance(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	nodeA, aerr := requireString(args, "nodeA")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	nodeB, aerr := requireString(args, "nodeB")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	cached, aerr := requireCachedResult(dctx, circuitID)
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.ComputeImpedance(ctx, circuitID, cached, nodeA, nodeB)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "signal", nodeA)
	}

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("%s = %g %s", result.Name, result.Value, result.Unit))), nil
}

func handleExtractMeasurement(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	measurement, aerr := requireString(args, "measurement")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	cached, aerr := requireCachedResult(dctx, circuitID)
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.ExtractMeasurement(ctx, circuitID, cached, measurement)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "measurement", measurement)
	}

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("%s = %g %s", result.Name, result.Value, result.Unit))), nil
}

func handleGroupDelay(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	signal, aerr := requireString(args, "signal")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	cached, aerr := requireCachedResult(dctx, circuitID)
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.ComputeGroupDelay(ctx, circuitID, cached, signal)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "signal", signal)
	}

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("%s = %g %s", result.Name, result.Value, result.Unit))), nil
}
