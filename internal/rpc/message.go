// Package rpc defines the JSON-RPC 2.0 envelope used on both the HTTP
// server transport and the stdio proxy transport, plus the
// error-code-to-HTTP-status mapping the HTTP server uses to pick a
// response status.
package rpc

import (
	"encoding/json"

	"github.com/spicesharp/mcp-server/internal/constants"
)

// Envelope is a JSON-RPC 2.0 request, notification, or response.
//
// ID is kept as json.RawMessage so that 0, "a", and null all round-trip
// byte-identically — the server must echo the request's id exactly,
// including a literal null, and a notification is any envelope whose
// top-level object has no "id" key at all (not merely a null one).
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ParseEnvelope decodes body into an Envelope and reports whether an
// "id" key was present in the top-level JSON object. Presence, not
// value, decides request-vs-notification: a request may legitimately
// carry an explicit "id": null and still gets a response echoing that
// null id; only a wholly absent "id" key makes the envelope a
// notification.
func ParseEnvelope(body []byte) (env Envelope, hasID bool, err error) {
	var generic map[string]json.RawMessage
	if err = json.Unmarshal(body, &generic); err != nil {
		return Envelope{}, false, err
	}

	if err = json.Unmarshal(body, &env); err != nil {
		return Envelope{}, false, err
	}

	if idRaw, present := generic["id"]; present {
		hasID = true
		env.ID = idRaw
	}

	return env, hasID, nil
}

// NewError builds an Error whose data payload is data encoded as JSON;
// pass nil data to omit the field.
func NewError(code int, message string, data any) *Error {
	e := &Error{Code: code, Message: message}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			e.Data = raw
		}
	}
	return e
}

// HTTPStatus maps a JSON-RPC error code to an HTTP status: 400 for
// client-side protocol/input errors, 500 for InternalError.
func HTTPStatus(code int) int {
	switch code {
	case constants.ErrCodeInternalError:
		return 500
	default:
		return 400
	}
}

// Success builds a successful response envelope echoing id and carrying
// result as the "result" field.
func Success(id json.RawMessage, result any) (Envelope, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{JSONRPC: "2.0", ID: id, Result: raw}, nil
}

// Failure builds an error response envelope echoing id. id may be nil,
// in which case it is rendered as a literal JSON null — a parse error
// with no recoverable id still echoes "id": null.
func Failure(id json.RawMessage, rpcErr *Error) Envelope {
	if id == nil {
		id = json.RawMessage("null")
	}
	return Envelope{JSONRPC: "2.0", ID: id, Error: rpcErr}
}
