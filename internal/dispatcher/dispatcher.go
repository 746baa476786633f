// Package dispatcher routes named tool calls to the handler that
// implements them. Tools are represented as a static table of
// {descriptor, handler} pairs — no runtime reflection is required —
// where each handler closure binds to one SimulationBackend method or a
// small orchestration (e.g. plot_results reads ResultsCache then calls
// the backend's renderer).
package dispatcher

import (
	"context"
	"fmt"

	"github.com/spicesharp/mcp-server/internal/backend"
	"github.com/spicesharp/mcp-server/internal/cache"
	"github.com/spicesharp/mcp-server/internal/logbuffer"
	"github.com/spicesharp/mcp-server/internal/registry"
)

// Context is the small process-wide context every handler receives: the
// ResultsCache, the SimulationBackend, and the LogBuffer.
// No singletons — this is constructed once at startup and passed by
// reference.
type Context struct {
	Cache   *cache.ResultsCache
	Backend backend.SimulationBackend
	Log     *logbuffer.Buffer
}

// HandlerFunc executes one tool call against the shared Context.
type HandlerFunc func(ctx context.Context, dctx *Context, args map[string]any) (backend.ToolResult, error)

// Definition pairs a tool's schema with the handler that implements it.
type Definition struct {
	Descriptor registry.Descriptor
	Handler    HandlerFunc
}

// Definitions returns every tool this server exposes: service status,
// circuit CRUD, component/model operations, netlist import/export,
// validation, the six analyses, the three derived analyses, rendering,
// and library lookup.
func Definitions() []Definition {
	var all []Definition
	all = append(all, statusDefinitions()...)
	all = append(all, circuitDefinitions()...)
	all = append(all, componentDefinitions()...)
	all = append(all, netlistDefinitions()...)
	all = append(all, analysisDefinitions()...)
	all = append(all, derivedAnalysisDefinitions()...)
	all = append(all, renderDefinitions()...)
	all = append(all, libraryDefinitions()...)
	return all
}

// Descriptors extracts the registry.Descriptor half of defs, preserving
// order, for handing to registry.New.
func Descriptors(defs []Definition) []registry.Descriptor {
	out := make([]registry.Descriptor, len(defs))
	for i, d := range defs {
		out[i] = d.Descriptor
	}
	return out
}

// Dispatcher routes a (name, args) call to its handler.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	ctx      *Context
}

// New builds a Dispatcher from defs, bound to dctx.
func New(defs []Definition, dctx *Context) *Dispatcher {
	handlers := make(map[string]HandlerFunc, len(defs))
	for _, d := range defs {
		handlers[d.Descriptor.Name] = d.Handler
	}
	return &Dispatcher{handlers: handlers, ctx: dctx}
}

// Execute routes name to its handler and runs it against args. A panic
// escaping a handler is caught, logged as an error, and surfaced as
// InternalError (-32603); the dispatcher itself never crashes the
// server.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any) (result backend.ToolResult, dispatchErr *Error) {
	handler, ok := d.handlers[name]
	if !ok {
		return backend.ToolResult{}, InvalidParams(fmt.Sprintf("unknown tool: %s", name))
	}

	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("tool %q panicked: %v", name, r)
			if d.ctx != nil && d.ctx.Log != nil {
				d.ctx.Log.Error(msg, fmt.Sprintf("%v", r))
			}
			result = backend.ToolResult{}
			dispatchErr = InternalErr(msg)
		}
	}()

	res, err := handler(ctx, d.ctx, args)
	if err != nil {
		if de, ok := err.(*Error); ok {
			return backend.ToolResult{}, de
		}
		if d.ctx != nil && d.ctx.Log != nil {
			d.ctx.Log.Error(fmt.Sprintf("tool %q failed", name), err.Error())
		}
		return backend.ToolResult{}, InternalErr(err.Error())
	}
	return res, nil
}
