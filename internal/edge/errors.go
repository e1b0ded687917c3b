package edge

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-database/internal/forward"
)

// Messages produced by the edge itself.
const (
	MsgUnknown    = "An unknown error occurred"
	MsgIDRequired = "ID is required"
)

// Error is the envelope the edge returns to the browser. A zero StatusCode
// means the gateway gave no status (it could not be reached); it is
// omitted from the body and served as 500.
type Error struct {
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus is the status the envelope is served with.
func (e *Error) HTTPStatus() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// gatewayEnvelope is the subset of the gateway's error body the edge reads.
type gatewayEnvelope struct {
	Message string `json:"message"`
}

// MapError re-shapes a failed gateway call. Status and message are passed
// through from the gateway's envelope when it answered.
func MapError(err error) *Error {
	var edgeErr *Error
	if errors.As(err, &edgeErr) {
		return edgeErr
	}

	if se, ok := forward.AsStatus(err); ok {
		var env gatewayEnvelope
		_ = json.Unmarshal(se.Body, &env)
		return &Error{StatusCode: se.StatusCode, Message: messageOrDefault(env.Message)}
	}

	if err == nil {
		return &Error{Message: MsgUnknown}
	}
	return &Error{Message: messageOrDefault(err.Error())}
}

func messageOrDefault(msg string) string {
	if msg == "" {
		return MsgUnknown
	}
	return msg
}
