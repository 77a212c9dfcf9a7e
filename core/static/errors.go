package static

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned by resolvers when nothing exists at the requested path.
	ErrNotFound = errors.New("static: file not found")

	// ErrPermission is returned by resolvers when the file exists but cannot be read.
	ErrPermission = errors.New("static: permission denied")

	// ErrStreamInterrupted marks a response whose body could not be delivered completely.
	ErrStreamInterrupted = errors.New("static: stream interrupted")

	// ErrMethodNotAllowed is reported for requests other than GET and HEAD.
	ErrMethodNotAllowed = errors.New("static: method not allowed")
)

// ErrorKind classifies a serving failure.
type ErrorKind int

const (
	// KindNotFound: the path (or a directory's index file) does not exist.
	KindNotFound ErrorKind = iota + 1
	// KindIO: permission or other I/O failure while resolving or describing the file.
	KindIO
	// KindStreamInterrupted: the client went away or the read failed while streaming.
	KindStreamInterrupted
	// KindMethodNotAllowed: the request method is neither GET nor HEAD.
	KindMethodNotAllowed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindIO:
		return "io_error"
	case KindStreamInterrupted:
		return "stream_interrupted"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "unknown"
	}
}

// Error describes a failed request. It carries the status code and headers the
// server would send, so a completion can write its own body on top of them.
type Error struct {
	Kind    ErrorKind
	Status  int
	Header  http.Header
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error.
func (e *Error) StatusCode() int {
	return e.Status
}
