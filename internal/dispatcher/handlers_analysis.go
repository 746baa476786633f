package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func analysisDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "dc_sweep",
				Description: "Run a DC sweep analysis over a source, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
					"source":    stringProp("Reference designator of the swept source"),
					"start":     numberProp("Sweep start value"),
					"stop":      numberProp("Sweep stop value"),
					"step":      numberProp("Sweep step size"),
				}, []string{"circuitId", "source", "start", "stop", "step"}),
			},
			Handler: handleDCSweep,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "transient",
				Description: "Run a transient analysis, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
					"stopTime":  numberProp("Simulation stop time in seconds"),
					"stepTime":  numberProp("Maximum time step in seconds"),
				}, []string{"circuitId", "stopTime", "stepTime"}),
			},
			Handler: handleTransient,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "ac",
				Description: "Run an AC small-signal analysis, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
					"sweepType": stringProp("Frequency sweep type, e.g. decade, octave, linear"),
					"points":    numberProp("Number of points per sweep interval"),
					"startFreq": numberProp("Start frequency in Hz"),
					"stopFreq":  numberProp("Stop frequency in Hz"),
				}, []string{"circuitId", "sweepType", "points", "startFreq", "stopFreq"}),
			},
			Handler: handleAC,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "operating_point",
				Description: "Run a DC operating point analysis, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
				}, []string{"circuitId"}),
			},
			Handler: handleOperatingPoint,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "parameter_sweep",
				Description: "Sweep a component or model parameter across a range, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
					"parameter": stringProp("Name of the parameter to sweep"),
					"start":     numberProp("Sweep start value"),
					"stop":      numberProp("Sweep stop value"),
					"step":      numberProp("Sweep step size"),
				}, []string{"circuitId", "parameter", "start", "stop", "step"}),
			},
			Handler: handleParameterSweep,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "temperature_sweep",
				Description: "Sweep simulation temperature across a range, caching the result.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to analyze"),
					"start":     numberProp("Start temperature in degrees Celsius"),
					"stop":      numberProp("Stop temperature in degrees Celsius"),
					"step":      numberProp("Temperature step size"),
				}, []string{"circuitId", "start", "stop", "step"}),
			},
			Handler: handleTemperatureSweep,
		},
	}
}

func handleDCSweep(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	source, aerr := requireString(args, "source")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	start, aerr := requireFloat(args, "start")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stop, aerr := requireFloat(args, "stop")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	step, aerr := requireFloat(args, "step")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunDCSweep(ctx, circuitID, source, start, stop, step)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("DC sweep of %s complete: %d points", source, len(result.XData)))), nil
}

func handleTransient(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stopTime, aerr := requireFloat(args, "stopTime")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stepTime, aerr := requireFloat(args, "stepTime")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunTransient(ctx, circuitID, stopTime, stepTime)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Transient analysis complete: %d points", len(result.XData)))), nil
}

func handleAC(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	sweepType, aerr := requireString(args, "sweepType")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	pointsF, aerr := requireFloat(args, "points")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	points := int(pointsF)
	startFreq, aerr := requireFloat(args, "startFreq")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stopFreq, aerr := requireFloat(args, "stopFreq")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunAC(ctx, circuitID, sweepType, points, startFreq, stopFreq)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("AC analysis complete: %d points", len(result.XData)))), nil
}

func handleOperatingPoint(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunOperatingPoint(ctx, circuitID)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	text := fmt.Sprintf("Operating point complete: %d node values", len(result.OperatingPointData))
	return backend.NewToolResult(backend.TextContent(text)), nil
}

func handleParameterSweep(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	parameter, aerr := requireString(args, "parameter")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	start, aerr := requireFloat(args, "start")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stop, aerr := requireFloat(args, "stop")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	step, aerr := requireFloat(args, "step")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunParameterSweep(ctx, circuitID, parameter, start, stop, step)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Parameter sweep of %s complete: %d points", parameter, len(result.XData)))), nil
}

func handleTemperatureSweep(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	start, aerr := requireFloat(args, "start")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	stop, aerr := requireFloat(args, "stop")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	step, aerr := requireFloat(args, "step")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	result, err := dctx.Backend.RunTemperatureSweep(ctx, circuitID, start, stop, step)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Store(circuitID, result)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Temperature sweep complete: %d points", len(result.XData)))), nil
}
