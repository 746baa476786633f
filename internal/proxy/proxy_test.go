package proxy_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicesharp/mcp-server/internal/proxy"
)

func TestRunRelaysRequestAndEchoesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req["id"], "result": map[string]any{"ok": true}})
	}))
	defer srv.Close()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	p := proxy.New(srv.URL, in, &out)
	err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"ok":true`)
	assert.Contains(t, out.String(), `"id":1`)
}

func TestRunIgnoresEmptyLines(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	in := strings.NewReader("\n\n")
	var out bytes.Buffer
	p := proxy.New(srv.URL, in, &out)
	err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, out.String())
}

func TestRunNeverWritesStdoutForNotification(t *testing.T) {
	received := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	in := strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	var out bytes.Buffer

	p := proxy.New(srv.URL, in, &out)
	err := p.Run(context.Background())
	require.NoError(t, err)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never posted")
	}
	assert.Empty(t, out.String())
}

func TestRunSynthesizesErrorOnHTTP400(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":"x","method":"tools/list"}` + "\n")
	var out bytes.Buffer

	p := proxy.New(srv.URL, in, &out)
	err := p.Run(context.Background())
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(-32600), errObj["code"])
	assert.Equal(t, "x", resp["id"])
}

func TestRunSynthesizesErrorOnTransportFailure(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":5,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	p := proxy.New("http://127.0.0.1:1", in, &out)
	err := p.Run(context.Background())
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(-32603), errObj["code"])
}
