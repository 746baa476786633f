package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/registry"
)

func componentDefinitions() []Definition {
	return []Definition{
		{
			Descriptor: registry.Descriptor{
				Name:        "add_component",
				Description: "Add a component to a circuit.",
				InputSchema: objectSchema(map[string]any{
					"circuitId":           stringProp("Id of the circuit to modify"),
					"referenceDesignator": stringProp("Component reference designator, e.g. R1"),
					"type":                stringProp("Component type, e.g. resistor, capacitor, diode"),
					"nodes":               arrayProp("string", "Node names the component connects to, in pin order"),
					"parameters":          objectProp("Numeric component parameters, e.g. {\"resistance\": 1000}"),
					"model":               stringProp("Name of a previously defined model, for model-based devices"),
				}, []string{"circuitId", "referenceDesignator", "type", "nodes"}),
			},
			Handler: handleAddComponent,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "modify_component",
				Description: "Modify an existing component's nodes, parameters, or model.",
				InputSchema: objectSchema(map[string]any{
					"circuitId":           stringProp("Id of the circuit to modify"),
					"referenceDesignator": stringProp("Reference designator of the component to modify"),
					"nodes":               arrayProp("string", "Updated node names, in pin order"),
					"parameters":          objectProp("Updated numeric component parameters"),
					"model":               stringProp("Updated model name"),
				}, []string{"circuitId", "referenceDesignator"}),
			},
			Handler: handleModifyComponent,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "component_info",
				Description: "Get the current definition of a component.",
				InputSchema: objectSchema(map[string]any{
					"circuitId":           stringProp("Id of the circuit"),
					"referenceDesignator": stringProp("Reference designator to look up"),
				}, []string{"circuitId", "referenceDesignator"}),
			},
			Handler: handleComponentInfo,
		},
		{
			Descriptor: registry.Descriptor{
				Name:        "define_model",
				Description: "Define or replace a device model usable by model-based components.",
				InputSchema: objectSchema(map[string]any{
					"circuitId":  stringProp("Id of the circuit the model belongs to"),
					"modelName":  stringProp("Name the model is referenced by"),
					"modelType":  stringProp("Model type, e.g. D, NPN, NMOS"),
					"parameters": objectProp("Numeric model parameters"),
				}, []string{"circuitId", "modelName", "modelType"}),
			},
			Handler: handleDefineModel,
		},
	}
}

func parseComponent(args map[string]any) (backend.Component, *Error) {
	typ, aerr := requireString(args, "type")
	if aerr != nil {
		return backend.Component{}, aerr
	}
	nodes, aerr := requireStringSlice(args, "nodes")
	if aerr != nil {
		return backend.Component{}, aerr
	}
	return backend.Component{
		Type:       typ,
		Nodes:      nodes,
		Parameters: optionalFloatMap(args, "parameters"),
		Model:      optionalString(args, "model", ""),
	}, nil
}

func handleAddComponent(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	refDes, aerr := requireString(args, "referenceDesignator")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	comp, aerr := parseComponent(args)
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	comp.ReferenceDesignator = refDes

	if err := dctx.Backend.AddComponent(ctx, circuitID, comp); err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Clear(circuitID)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Added %s to circuit %s", refDes, circuitID))), nil
}

func handleModifyComponent(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	refDes, aerr := requireString(args, "referenceDesignator")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	comp := backend.Component{
		ReferenceDesignator: refDes,
		Nodes:               optionalStringSlice(args, "nodes"),
		Parameters:          optionalFloatMap(args, "parameters"),
		Model:               optionalString(args, "model", ""),
	}

	if err := dctx.Backend.ModifyComponent(ctx, circuitID, refDes, comp); err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "component", refDes)
	}

	dctx.Cache.Clear(circuitID)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Modified %s in circuit %s", refDes, circuitID))), nil
}

func handleComponentInfo(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	refDes, aerr := requireString(args, "referenceDesignator")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}

	comp, err := dctx.Backend.ComponentInfo(ctx, circuitID, refDes)
	if err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "component", refDes)
	}

	text := fmt.Sprintf("%s: type=%s nodes=%v parameters=%v model=%s",
		comp.ReferenceDesignator, comp.Type, comp.Nodes, comp.Parameters, comp.Model)
	return backend.NewToolResult(backend.TextContent(text)), nil
}

func handleDefineModel(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error) {
	circuitID, aerr := requireString(args, "circuitId")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	modelName, aerr := requireString(args, "modelName")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	modelType, aerr := requireString(args, "modelType")
	if aerr != nil {
		return backend.ToolResult{}, aerr
	}
	parameters := optionalFloatMap(args, "parameters")

	if err := dctx.Backend.DefineModel(ctx, circuitID, modelName, modelType, parameters); err != nil {
		return backend.ToolResult{}, classifyReferenceError(err, "circuit", circuitID)
	}

	dctx.Cache.Clear(circuitID)

	return backend.NewToolResult(backend.TextContent(fmt.Sprintf("Defined model %s (%s) in circuit %s", modelName, modelType, circuitID))), nil
}
