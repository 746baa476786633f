// Package constants centralizes the literal values that appear across the
// JSON-RPC wire protocol, discovery protocol, and server identity so they
// are defined exactly once.
package constants

// Server identity, echoed in the initialize response and the discovery
// announcement/reply.
const (
	MCPServerName    = "spicesharp-mcp-server"
	MCPServerVersion = "1.0.0"
	MCPProtocolVersion = "2024-11-05"
)

// JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// Discovery defaults.
const (
	DefaultDiscoveryPort     = 19847
	DefaultDiscoveryInterval = 30 // seconds
	DiscoveryMessageType     = "mcp_server_announce"
	DiscoveryVersion         = "1.0"
)

// Default port-scan range used by the server's own allocator. The proxy's
// discovery probe scans the same ports (8081-8090) with its own constants.
const (
	DefaultPortRangeStart = 8081
	DefaultPortRangeSize  = 10
)

// Default bounded-retry/backoff parameters for the discovery broadcaster
//.
const (
	BroadcastFailureThreshold = 5
	BroadcastBackoffSleep     = 5 // seconds
)

// Default log buffer capacity.
const DefaultLogBufferCapacity = 1000

// MCP transport path, used by both the server and the discovery
// announcement's transport.path field.
const MCPPath = "/mcp"
