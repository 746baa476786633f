// Package server implements the JSON-RPC HTTP server and its embedded
// discovery endpoint: an http.Server over an http.ServeMux, started in
// a goroutine and torn down on context cancellation, serving a fixed
// JSON-RPC request pipeline on POST /mcp.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spicesharp/mcp-server/internal/config"
	"github.com/spicesharp/mcp-server/internal/constants"
	"github.com/spicesharp/mcp-server/internal/dispatcher"
	"github.com/spicesharp/mcp-server/internal/discovery"
	"github.com/spicesharp/mcp-server/internal/logbuffer"
	"github.com/spicesharp/mcp-server/internal/registry"
	"github.com/spicesharp/mcp-server/internal/rpc"
)

// Server owns the listening HTTP socket exclusively and serves both
// /mcp and /discovery.
type Server struct {
	cfg        *config.Config
	registry   *registry.Registry
	dispatcher *dispatcher.Dispatcher
	log        *logbuffer.Buffer
	pid        int
	startTime  time.Time

	httpServer *http.Server
}

// New builds a Server bound to cfg, backed by reg/disp for tool
// resolution and dispatch, and logging to log.
func New(cfg *config.Config, reg *registry.Registry, disp *dispatcher.Dispatcher, log *logbuffer.Buffer) *Server {
	return &Server{
		cfg:        cfg,
		registry:   reg,
		dispatcher: disp,
		log:        log,
		pid:        os.Getpid(),
		startTime:  time.Now().UTC(),
	}
}

// Run starts the HTTP server on cfg's bind address and blocks until ctx
// is canceled, then shuts down with a 5s deadline.
func (s *Server) Run(ctx context.Context, port int) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress(), port)
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	s.cfg.Port = port

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler builds the mux serving /mcp and /discovery. Exposed
// separately from Run so tests can drive it with httptest without
// binding a real socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.withCORS(s.handleMCP))
	mux.HandleFunc("/discovery", s.withCORS(s.handleDiscovery))
	return mux
}

// withCORS permits any origin/method/header without credentials, for
// localhost MCP agents that can't pre-register an origin.
func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next(w, r)
	}
}

// handleDiscovery serves GET /discovery, reflecting the current
// network-visibility flag.
func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reply := discovery.Reply{
		MCPEndpoint:    fmt.Sprintf("http://%s:%d%s", s.cfg.ResolvedHost(), s.cfg.Port, constants.MCPPath),
		Port:           s.cfg.Port,
		Host:           s.cfg.ResolvedHost(),
		NetworkVisible: s.cfg.NetworkVisible,
		ProcessID:      s.pid,
		StartTime:      s.startTime.Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

// handleMCP reads the request body, parses it as a JSON-RPC envelope,
// validates the envelope shape, and either dispatches it silently (a
// notification) or dispatches it and writes back a response.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, rpc.NewError(constants.ErrCodeParseError, "Parse error", nil))
		return
	}

	env, hasID, err := rpc.ParseEnvelope(body)
	if err != nil {
		s.writeError(w, nil, rpc.NewError(constants.ErrCodeParseError, "Parse error", nil))
		return
	}

	if env.JSONRPC != "2.0" {
		s.writeError(w, env.ID, rpc.NewError(constants.ErrCodeInvalidRequest, `missing or invalid "jsonrpc"`, nil))
		return
	}
	if env.Method == "" {
		s.writeError(w, env.ID, rpc.NewError(constants.ErrCodeInvalidRequest, `missing "method"`, nil))
		return
	}

	if !hasID {
		// Notification: dispatch if a handler exists, never write a body.
		s.route(r.Context(), env)
		s.log.Info(fmt.Sprintf("notification %q handled", env.Method))
		w.WriteHeader(http.StatusOK)
		return
	}

	result, rpcErr := s.route(r.Context(), env)
	if rpcErr != nil {
		s.writeError(w, env.ID, rpcErr)
		return
	}

	resp, err := rpc.Success(env.ID, result)
	if err != nil {
		s.writeError(w, env.ID, rpc.NewError(constants.ErrCodeInternalError, err.Error(), nil))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// route dispatches a parsed envelope's method to its handler.
// notifications/* are accepted as a no-op for any method under that
// prefix, not just notifications/initialized.
func (s *Server) route(ctx context.Context, env Envelope) (any, *rpc.Error) {
	switch env.Method {
	case "initialize":
		return map[string]any{
			"protocolVersion": constants.MCPProtocolVersion,
			"serverInfo": map[string]string{
				"name":    constants.MCPServerName,
				"version": constants.MCPServerVersion,
			},
			"capabilities": map[string]any{},
		}, nil
	case "tools/list":
		return map[string]any{"tools": s.registry.List()}, nil
	case "tools/call":
		return s.handleToolsCall(ctx, env.Params)
	default:
		if isNotificationMethod(env.Method) {
			return nil, nil
		}
		return nil, rpc.NewError(constants.ErrCodeMethodNotFound, fmt.Sprintf("method not found: %s", env.Method), nil)
	}
}

func isNotificationMethod(method string) bool {
	return strings.HasPrefix(method, "notifications/")
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, params json.RawMessage) (any, *rpc.Error) {
	var p toolsCallParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpc.NewError(constants.ErrCodeInvalidParams, "invalid tools/call params", nil)
		}
	}

	result, dispatchErr := s.dispatcher.Execute(ctx, p.Name, p.Arguments)
	if dispatchErr != nil {
		return nil, rpc.NewError(dispatchErr.Code, dispatchErr.Message, dispatchErr.Data)
	}
	return result, nil
}

func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *rpc.Error) {
	resp := rpc.Failure(id, rpcErr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rpc.HTTPStatus(rpcErr.Code))
	json.NewEncoder(w).Encode(resp)
}

// Envelope is a local alias used in this file's signatures.
type Envelope = rpc.Envelope
