package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable error taxonomy exposed to callers.
type ErrorKind string

const (
	KindAuthExpired     ErrorKind = "auth_expired"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindUpstreamTimeout ErrorKind = "upstream_timeout"
	KindUpstreamFailure ErrorKind = "upstream_failure"
	KindRateLimited     ErrorKind = "rate_limited"
)

// Error is a structured error carrying a stable kind and a human-readable
// message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E builds a domain error.
func E(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or empty string for untyped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
