// Package apierror defines the normalized error envelope returned by the
// gateway and the mapping from failures to HTTP statuses.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Symbolic error codes carried in the envelope.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeUnprocessableEntity = "UNPROCESSABLE_ENTITY"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeBadGateway          = "BAD_GATEWAY"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout      = "GATEWAY_TIMEOUT"
	CodeValidationError     = "VALIDATION_ERROR"
)

// Messages shared by more than one caller.
const (
	MessageValidation = "Validation error"
	MessageInternal   = "Internal server error."
)

var statusCodes = map[int]string{
	http.StatusBadRequest:          CodeBadRequest,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           CodeForbidden,
	http.StatusNotFound:            CodeNotFound,
	http.StatusMethodNotAllowed:    CodeMethodNotAllowed,
	http.StatusUnprocessableEntity: CodeUnprocessableEntity,
	http.StatusInternalServerError: CodeInternalServerError,
	http.StatusBadGateway:          CodeBadGateway,
	http.StatusServiceUnavailable:  CodeServiceUnavailable,
	http.StatusGatewayTimeout:      CodeGatewayTimeout,
}

// CodeForStatus returns the symbolic code for an HTTP status. Unmapped
// statuses fall back to INTERNAL_SERVER_ERROR.
func CodeForStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return CodeInternalServerError
}

// Normalized is the JSON envelope written for every failed request.
type Normalized struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors,omitempty"`
}

// Error is a failure that knows its HTTP status and envelope.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]any

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for logging. The cause never reaches
// the response body.
func (e *Error) Unwrap() error {
	return e.cause
}

// Normalized renders the envelope for the error.
func (e *Error) Normalized() Normalized {
	return Normalized{
		Code:    e.Code,
		Message: e.Message,
		Errors:  e.Fields,
	}
}

// ServerSide reports whether the error belongs to the 5xx class.
func (e *Error) ServerSide() bool {
	return e.Status >= http.StatusInternalServerError
}

// New builds an error for status with the code taken from the lookup table.
func New(status int, message string) *Error {
	return &Error{
		Status:  status,
		Code:    CodeForStatus(status),
		Message: message,
	}
}

// BadRequest is a 400 with a fixed message.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// NotFound is a 404 with a fixed message.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Upstream hides an upstream failure behind a 500 carrying an
// operation-specific message. cause is retained only for diagnostics.
func Upstream(message string, cause error) *Error {
	err := New(http.StatusInternalServerError, message)
	err.cause = cause
	return err
}

// Validation is a 422 whose field map is built from the failure tree.
func Validation(failures []FieldFailure) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidationError,
		Message: MessageValidation,
		Fields:  FormatFailures(failures),
	}
}

// From converts any error into an *Error. Unknown errors become an opaque 500.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	internal := New(http.StatusInternalServerError, MessageInternal)
	internal.cause = err
	return internal
}
