package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Irfan-Alaam/chat-app/chat/rest"
)

// ErrorKind represents a categorized error type.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota

	// Collaborator failures
	KindAuth      // credentials rejected by the auth gateway
	KindRequest   // any other non-success REST response
	KindTransport // room connection rejected or dropped

	// Client-side failures
	KindInvalidInput
	KindInvalidConfig
	KindSerialization
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindAuth:
		return "auth_failure"
	case KindRequest:
		return "request_failure"
	case KindTransport:
		return "transport_failure"
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidConfig:
		return "invalid_config"
	case KindSerialization:
		return "serialization_error"
	default:
		return fmt.Sprintf("unknown_kind_%d", k)
	}
}

// Error is a structured error with a kind and context.
type Error struct {
	Kind    ErrorKind
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface for error comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with an Error.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Wrapped: err,
	}
}

// Classify returns the kind of err. REST responses are mapped by status:
// 401 and 403 are auth failures, everything else a request failure.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var ae *rest.APIError
	if errors.As(err, &ae) {
		switch ae.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindAuth
		default:
			return KindRequest
		}
	}
	var ve *rest.ValidationError
	if errors.As(err, &ve) {
		return KindInvalidInput
	}
	return KindUnknown
}

// IsAuthFailure checks if credentials or the bearer token were rejected.
func IsAuthFailure(err error) bool {
	return Classify(err) == KindAuth
}

// IsTransportFailure checks if an error is a connection-related error.
func IsTransportFailure(err error) bool {
	return Classify(err) == KindTransport
}

// Detail returns the text to show a user for err: the server supplied detail
// for REST failures, the bare message for client errors, or fallback.
func Detail(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var ae *rest.APIError
	if errors.As(err, &ae) && ae.Detail != "" {
		return ae.Detail
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
