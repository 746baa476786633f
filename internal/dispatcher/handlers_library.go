package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func libraryDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "lookup_component",
				Description: "Search the component library/database for parts matching a query.",
				InputSchema: objectSchema(map[string]any{
					"query": stringProp("Free-text search query, e.g. a part number or description"),
				}, []string{"query"}),
			},
			Handler: handleLookupComponent,
		},
	}
}

func handleLookupComponent(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	query, aerr := requireString(args, "query")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	matches, err := dctx.Backend.LookupComponent(ctx, query)
	if err != nil {
		return backend.ToolResult{}, InternalErr(err.Error())
	}

	if len(matches) == 0 {
		return backend.NewToolResult(backend.TextContent(fmt.Sprintf("No components match %q", query))), nil
	}

	text := fmt.Sprintf("Matches for %q:\n", query)
	for _, m := range matches {
		text += fmt.Sprintf("- %s (%s)\n", m.ReferenceDesignator, m.Type)
	}
	return backend.NewToolResult(backend.TextContent(text)), nil
}
