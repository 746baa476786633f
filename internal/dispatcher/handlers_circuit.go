package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func circuitDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "create_circuit",
				Description: "Create a new, empty circuit.",
				InputSchema: objectSchema(map[string]any{
					"name": stringProp("Display name for the new circuit"),
				}, []string{"name"}),
			},
			Handler: handleCreateCircuit,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "list_circuits",
				Description: "List all circuits currently held by the server.",
				InputSchema: objectSchema(nil, nil),
			},
			Handler: handleListCircuits,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "delete_circuit",
				Description: "Delete a circuit and any cached analysis results for it.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to delete"),
				}, []string{"circuitId"}),
			},
			Handler: handleDeleteCircuit,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "get_circuit_info",
				Description: "Get summary information about a circuit.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to describe"),
				}, []string{"circuitId"}),
			},
			Handler: handleGetCircuitInfo,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "validate_circuit",
				Description: "Validate a circuit's topology and report errors or warnings.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to validate"),
				}, []string{"circuitId"}),
			},
			Handler: handleValidateCircuit,
		},
	}
}

func handleCreateCircuit(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	name, aerr := requireString(args, "name")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	summary, err := dctx.Backend.CreateCircuit(ctx, name)
	if err != nil {
		return backend.ToolResult{}, InternalErr(err.Error())
	}

	text := fmt.Sprintf("Created circuit %q with id %s", summary.Name, summary.ID)
	return backend.NewToolResult(backend.TextContent(text)), nil
}

func handleListCircuits(ctx context.Context, dctx *Context, _ map[string]any) (backend.ToolResult, error) {
	circuits, err := dctx.Backend.ListCircuits(ctx)
	if err != nil {
		return backend.ToolResult{}, InternalErr(err.Error())
	}

	if len(circuits) == 0 {
		return backend.NewToolResult(backend.TextContent("No circuits exist.")), nil
	}

	text := "Circuits:\n"
	for _, c := range circuits {
		text += fmt.Sprintf("- %s (%s): %d components\n", c.Name, c.ID, c.Components)
	}
	return backend.NewToolResult(backend.TextContent(text)), nil
}

func handleDeleteCircuit(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	if err := dctx.Backend.DeleteCircuit(ctx, circuitID); err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	// Mutating handler: invalidate any cached analysis before returning
	// success.
	dctx.Cache.Clear(circuitID)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Deleted circuit %s", circuitID))), nil
}

func handleGetCircuitInfo(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	info, err := dctx.Backend.GetCircuitInfo(ctx, circuitID)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	text := fmt.Sprintf("%s (%s): %d components", info.Name, info.ID, info.Components)
	return backend.NewToolResult(backend.TextContent(text)), nil
}

func handleValidateCircuit(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	issues, err := dctx.Backend.ValidateCircuit(ctx, circuitID)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	if len(issues) == 0 {
		return backend.NewToolResult(backend.TextContent("Circuit is valid.")), nil
	}

	text := "Validation results:\n"
	for _, issue := range issues {
		text += fmt.Sprintf("[%s] %s\n", issue.Severity, issue.Message)
	}
	return backend.NewToolResult(backend.TextContent(text)), nil
}
