package proxy

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spicesharp/mcp-server/internal/constants"
	"github.com/spicesharp/mcp-server/internal/rpc"
)

// Proxy relays stdin JSON-RPC lines to endpoint over HTTP and streams
// responses back to stdout. The proxy is single-threaded
// for ordering: it posts each request and waits for the response before
// reading the next line; notifications are fire-and-forget and never
// block the loop or write to stdout.
type Proxy struct {
	client *httpClient
	in     *bufio.Reader
	out    *bufio.Writer
}

// New builds a Proxy that relays to endpoint, reading from r and
// writing to w.
func New(endpoint string, r io.Reader, w io.Writer) *Proxy {
	return &Proxy{
		client: newHTTPClient(endpoint),
		in:     bufio.NewReader(r),
		out:    bufio.NewWriter(w),
	}
}

// Run reads stdin line by line until EOF, relaying each non-empty line
// to the HTTP endpoint. Returns nil on a
// clean stdin EOF.
func (p *Proxy) Run(ctx context.Context) error {
	for {
		line, err := p.in.ReadBytes('\n')
		if len(line) > 0 {
			trimmed := trimNewline(line)
			if len(trimmed) > 0 {
				p.handleLine(ctx, trimmed)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading stdin: %w", err)
		}
	}
}

func trimNewline(line []byte) []byte {
	n := len(line)
	for n > 0 && (line[n-1] == '\n' || line[n-1] == '\r') {
		n--
	}
	return line[:n]
}

func (p *Proxy) handleLine(ctx context.Context, line []byte) {
	env, hasID, err := rpc.ParseEnvelope(line)
	if err != nil {
		// Not valid JSON-RPC at all; nothing sensible to echo back since
		// we could not even recover an id. Drop the line and keep
		// reading rather than crashing on unparseable input.
		return
	}
	id := env.ID

	if !hasID {
		p.client.postNotification(ctx, line)
		return
	}

	status, body, err := p.client.postRequest(ctx, line)
	if err != nil {
		p.writeSynthesizedError(id, constants.ErrCodeInternalError, err.Error())
		return
	}

	if status < 200 || status >= 300 {
		code := constants.ErrCodeInternalError
		if status == http.StatusBadRequest {
			code = constants.ErrCodeInvalidRequest
		}
		p.writeSynthesizedError(id, code, fmt.Sprintf("upstream returned HTTP %d", status))
		return
	}

	p.writeLine(body)
}

func (p *Proxy) writeSynthesizedError(id json.RawMessage, code int, message string) {
	env := rpc.Failure(id, rpc.NewError(code, message, nil))
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}
	p.writeLine(payload)
}

func (p *Proxy) writeLine(payload []byte) {
	p.out.Write(payload)
	p.out.WriteByte('\n')
	p.out.Flush()
}
