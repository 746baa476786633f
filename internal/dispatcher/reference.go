package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spicesharp/mcp-server/internal/backend"
)

// classifyReferenceError turns a backend.NotFoundError into InvalidParams
// with a message enumerating alternatives when the backend supplied any.
// Any other backend error is treated as an unexpected failure and
// surfaces as InternalError. The kind and id arguments do not affect
// the result: both branches take their message from err.
func classifyReferenceError(err error, kind, id string) *Error {
	var nf *backend.NotFoundError
	if errors.As(err, &nf) {
		msg := nf.Error()
		if len(nf.Alternatives) > 0 {
			msg = fmt.Sprintf("%s (available: %s)", msg, strings.Join(nf.Alternatives, ", "))
		}
		return InvalidParams(msg)
	}
	return InternalErr(err.Error())
}
