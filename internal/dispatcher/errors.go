package dispatcher

import "github.com/spicesharp/mcp-server/internal/constants"

// Error is a classified dispatcher failure: it already carries the
// JSON-RPC error code the caller should see, so
// JsonRpcServer never has to re-derive InvalidParams vs InternalError
// from a bare Go error.
type Error struct {
	Code    int
	Message string
	Data    any
}

func (e *Error) Error() string { return e.Message }

// InvalidParams builds an Error for a missing/malformed argument or an
// unresolvable reference (no such circuit, component, signal, or cached
// analysis).
func InvalidParams(message string, data ...any) *Error {
	e := &Error{Code: constants.ErrCodeInvalidParams, Message: message}
	if len(data) > 0 {
		e.Data = data[0]
	}
	return e
}

// InternalErr builds an Error for an unexpected backend failure.
func InternalErr(message string, data ...any) *Error {
	e := &Error{Code: constants.ErrCodeInternalError, Message: message}
	if len(data) > 0 {
		e.Data = data[0]
	}
	return e
}
