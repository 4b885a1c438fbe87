// Package apperr defines the error kinds the API reports to clients.
//
// Every error that should reach a client with a status other than 500 is an
// *Error carrying one of the Kind sentinels. Callers test for a kind with
// errors.Is:
//
//	if errors.Is(err, apperr.KindNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Compare with errors.Is.
var (
	KindBadRequest   = errors.New("bad request")
	KindUnauthorized = errors.New("unauthorized")
	KindForbidden    = errors.New("forbidden")
	KindNotFound     = errors.New("not found")
	KindRateLimited  = errors.New("rate limited")
)

var statusByKind = map[error]int{
	KindBadRequest:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindRateLimited:  http.StatusTooManyRequests,
}

// Error is a client-facing error. Message is either a string or a []string
// of validation failures.
type Error struct {
	Kind    error
	Message any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

// Invalid reports a list of validation failures as a single bad request.
func Invalid(msgs []string) *Error { return &Error{Kind: KindBadRequest, Message: msgs} }

func Unauthorized() *Error { return &Error{Kind: KindUnauthorized, Message: "Unauthorized"} }

// UnauthorizedMsg is Unauthorized with a custom message, used by login.
func UnauthorizedMsg(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden() *Error { return &Error{Kind: KindForbidden, Message: "Forbidden"} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func TooManyRequests() *Error {
	return &Error{Kind: KindRateLimited, Message: "Too many requests"}
}

// Wrap attaches a cause to a client-facing error.
func Wrap(e *Error, cause error) *Error {
	e.Cause = cause
	return e
}

// StatusOf maps any error to an HTTP status. Errors that are not an *Error
// are internal.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Internal errors are
// never echoed back.
func MessageOf(err error) any {
	var ae *Error
	if errors.As(err, &ae) && ae.Status() != http.StatusInternalServerError {
		return ae.Message
	}
	return "Internal Server Error"
}
