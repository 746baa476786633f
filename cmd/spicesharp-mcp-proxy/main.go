// Command spicesharp-mcp-proxy is the StdioProxy executable: a thin,
// dependency-light bridge that relays JSON-RPC lines between a
// stdio-only MCP client and a running spicesharp-mcp-server's HTTP
// endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spicesharp/mcp-server/internal/proxy"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: spicesharp-mcp-proxy <http://host:port/mcp>\n")
	fmt.Fprintf(os.Stderr, "       spicesharp-mcp-proxy auto\n")
	fmt.Fprintf(os.Stderr, "       spicesharp-mcp-proxy --discover\n")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	target := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var endpoint string
	switch {
	case target == "auto" || target == "--discover":
		found, err := discoverWithTimeout(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
			return 1
		}
		endpoint = found
		fmt.Fprintf(os.Stderr, "discovered spicesharp-mcp-server at %s\n", endpoint)
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		endpoint = target
	default:
		fmt.Fprintf(os.Stderr, "invalid endpoint %q: must start with http:// or https://\n", target)
		usage()
		return 1
	}

	p := proxy.New(endpoint, os.Stdin, os.Stdout)
	if err := p.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "proxy stopped: %v\n", err)
		return 1
	}
	return 0
}

func discoverWithTimeout(ctx context.Context) (string, error) {
	discoverCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return proxy.Discover(discoverCtx)
}
