package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope_RequestHasID(t *testing.T) {
	env, hasID, err := ParseEnvelope([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	require.NoError(t, err)
	assert.True(t, hasID)
	assert.Equal(t, "2.0", env.JSONRPC)
	assert.Equal(t, "initialize", env.Method)
	assert.Equal(t, json.RawMessage("1"), env.ID)
}

func TestParseEnvelope_NotificationNoIDKey(t *testing.T) {
	_, hasID, err := ParseEnvelope([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.False(t, hasID)
}

func TestParseEnvelope_ExplicitNullIDIsStillARequest(t *testing.T) {
	env, hasID, err := ParseEnvelope([]byte(`{"jsonrpc":"2.0","id":null,"method":"tools/list"}`))
	require.NoError(t, err)
	assert.True(t, hasID)
	assert.Equal(t, json.RawMessage("null"), env.ID)
}

func TestParseEnvelope_StringID(t *testing.T) {
	env, hasID, err := ParseEnvelope([]byte(`{"jsonrpc":"2.0","id":"abc","method":"tools/list"}`))
	require.NoError(t, err)
	assert.True(t, hasID)
	assert.Equal(t, json.RawMessage(`"abc"`), env.ID)
}

func TestParseEnvelope_MalformedJSON(t *testing.T) {
	_, _, err := ParseEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestFailure_NilIDBecomesLiteralNull(t *testing.T) {
	env := Failure(nil, NewError(-32700, "Parse error", nil))
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`, string(data))
}

func TestSuccess_EchoesID(t *testing.T) {
	env, err := Success(json.RawMessage("42"), map[string]string{"ok": "yes"})
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":42,"result":{"ok":"yes"}}`, string(data))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, HTTPStatus(-32700))
	assert.Equal(t, 400, HTTPStatus(-32600))
	assert.Equal(t, 400, HTTPStatus(-32601))
	assert.Equal(t, 400, HTTPStatus(-32602))
	assert.Equal(t, 500, HTTPStatus(-32603))
}
