// Package response defines the uniform API envelope and the typed error
// that workflow operations raise. Every endpoint returns
// {message, code, data} with an HTTP status mirroring code.
package response

import "net/http"

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    any    `json:"data"`
}

// New builds an envelope. Data may be nil.
func New(message string, code int, data any) *Envelope {
	return &Envelope{Message: message, Code: code, Data: data}
}

// Error is a terminal workflow failure carrying the human-readable message
// and numeric code that the transport layer maps directly into an envelope
// and a matching HTTP status.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string { return e.Message }

// NewError builds a typed failure.
func NewError(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}

// Envelope converts the failure into its wire form.
func (e *Error) Envelope() *Envelope {
	return &Envelope{Message: e.Message, Code: e.Code, Data: nil}
}

// Convenience constructors for the error taxonomy.

func BadRequest(message string) *Error   { return NewError(message, http.StatusBadRequest) }
func Unauthorized(message string) *Error { return NewError(message, http.StatusUnauthorized) }
func NotFound(message string) *Error     { return NewError(message, http.StatusNotFound) }
func Conflict(message string) *Error     { return NewError(message, http.StatusConflict) }
func Internal(message string) *Error     { return NewError(message, http.StatusInternalServerError) }
