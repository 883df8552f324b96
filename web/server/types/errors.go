package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP error response. Only the message is serialized, the status
// code is sent in the response status line.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// NewError returns an Error with the given status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// Error implements the error interface. An empty message falls back to the
// status text.
func (e Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// ErrorLevel is the detail level of error messages returned to clients.
type ErrorLevel string

// Valid error levels.
const (
	// ErrorLevelNone hides all error messages, and only returns the status text.
	ErrorLevelNone ErrorLevel = "none"
	// ErrorLevelMinimal returns messages of HTTP errors raised deliberately by
	// handlers, and hides the messages of any other error.
	ErrorLevelMinimal ErrorLevel = "minimal"
	// ErrorLevelFull returns all error messages intact.
	ErrorLevelFull ErrorLevel = "full"
)

// ErrorLevelFromString returns the ErrorLevel matching s.
func ErrorLevelFromString(s string) (ErrorLevel, error) {
	switch lvl := ErrorLevel(s); lvl {
	case ErrorLevelNone, ErrorLevelMinimal, ErrorLevelFull:
		return lvl, nil
	default:
		return "", fmt.Errorf("invalid error level '%s'", s)
	}
}

// ToHTTPError converts err into an HTTP error whose message is sanitized
// according to lvl. Errors that aren't *Error map to 500 Internal Server Error.
func ToHTTPError(err error, lvl ErrorLevel) *Error {
	var (
		terr       *Error
		isHTTPErr  = errors.As(err, &terr) && terr != nil
		statusCode = http.StatusInternalServerError
	)
	if isHTTPErr && terr.StatusCode != 0 {
		statusCode = terr.StatusCode
	}

	msg := http.StatusText(statusCode)
	switch lvl {
	case ErrorLevelFull:
		msg = err.Error()
	case ErrorLevelMinimal:
		if isHTTPErr {
			msg = terr.Error()
		}
	case ErrorLevelNone:
	}

	return NewError(statusCode, msg)
}
