package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func netlistDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "import_netlist",
				Description: "Replace a circuit's contents with the given netlist text.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to import into"),
					"netlist":   stringProp("Netlist source text"),
				}, []string{"circuitId", "netlist"}),
			},
			Handler: handleImportNetlist,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "export_netlist",
				Description: "Export a circuit's current contents as netlist text.",
				InputSchema: objectSchema(map[string]any{
					"circuitId": stringProp("Id of the circuit to export"),
				}, []string{"circuitId"}),
			},
			Handler: handleExportNetlist,
		},
	}
}

func handleImportNetlist(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	netlist, aerr := requireString(args, "netlist")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	if err := dctx.Backend.ImportNetlist(ctx, circuitID, netlist); err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	// Mutating handler: invalidate any cached analysis before returning
	// success.
	dctx.Cache.Clear(circuitID)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Imported netlist into circuit %s", circuitID))), nil
}

func handleExportNetlist(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	netlist, err := dctx.Backend.ExportNetlist(ctx, circuitID)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	return backend.NewToolResult(backend.TextContent(netlist)), nil
}
