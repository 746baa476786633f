package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/constants"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func statusDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "service_status",
				Description: "Report server identity and basic health information.",
				InputSchema: objectSchema(nil, nil),
			},
			Handler: handleServiceStatus,
		},
	}
}

func handleServiceStatus(_ context.Context, dctx *Context, _ map[string]any) (backend.ToolResult, error) {
	logLen := 0
	if dctx != nil && dctx.Log != nil {
		logLen = dctx.Log.Len()
	}
	text := fmt.Sprintf("%s %s is running (%d log entries buffered)", constants.MCPServerName, constants.MCPServerVersion, logLen)
	return backend.NewToolResult(backend.TextContent(text)), nil
}

// objectSchema builds a minimal, valid JSON-Schema object descriptor:
// type "object", the given properties (or an empty object), and the
// given required list (or an empty array) — matching the invariants
// registry.New validates.
func objectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	reqs := make([]any, len(required))
	for i, r := range required {
		reqs[i] = r
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   reqs,
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func numberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func arrayProp(itemType, description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": description,
	}
}

func objectProp(description string) map[string]any {
	return map[string]any{"type": "object", "description": description}
}
