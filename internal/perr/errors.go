// Package perr defines the error taxonomy surfaced to MCP clients by the
// proxy: a fixed set of kinds, each wrapped with the operation that failed
// and the underlying cause.
package perr

import (
	"errors"
	"fmt"
)

// Kind classifies a proxy error so callers can branch on taxonomy instead
// of matching error strings.
type Kind string

const (
	ConfigInvalid       Kind = "ConfigInvalid"
	UnknownTool         Kind = "UnknownTool"
	UpstreamUnavailable Kind = "UpstreamUnavailable"
	UpstreamCrashed     Kind = "UpstreamCrashed"
	UpstreamTimeout     Kind = "UpstreamTimeout"
	UpstreamError       Kind = "UpstreamError"
	CacheMiss           Kind = "CacheMiss"
	CacheExpired        Kind = "CacheExpired"
	CacheFull           Kind = "CacheFull"
	TooManyAgents       Kind = "TooManyAgents"
	BadArguments        Kind = "BadArguments"
	ProcessorError      Kind = "ProcessorError"
)

var (
	ErrUnknownUpstream = errors.New("unknown upstream")
	ErrSessionNotReady = errors.New("session not ready")
)

// Error wraps a taxonomy Kind with the operation and underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error of the given kind for operation op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error, otherwise returns the empty Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
