package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestTimeout      = 30 * time.Second
	notificationTimeout = 5 * time.Second
)

// httpClient posts JSON-RPC envelopes to the server's MCP endpoint
// using a single shared *http.Client with per-call context timeouts
// rather than a client-wide deadline.
type httpClient struct {
	endpoint   string
	httpClient *http.Client
}

func newHTTPClient(endpoint string) *httpClient {
	return &httpClient{endpoint: endpoint, httpClient: &http.Client{}}
}

// postRequest sends payload with a 30s timeout and returns the response
// status and body.
func (c *httpClient) postRequest(ctx context.Context, payload []byte) (status int, body []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return c.post(ctx, payload)
}

// postNotification sends payload fire-and-forget with a 5s timeout; the
// caller never inspects the result.
func (c *httpClient) postNotification(ctx context.Context, payload []byte) {
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
	go func() {
		defer cancel()
		_, _, _ = c.post(ctx, payload)
	}()
}

func (c *httpClient) post(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
