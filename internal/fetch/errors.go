package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

type Kind string

const (
	KindTimeout    Kind = "timeout"
	KindConnection Kind = "connection"
	KindHttpStatus Kind = "http_status"
	KindDecode     Kind = "decode"
	KindUnknown    Kind = "unknown"
)

// Error is a failed fetch, classified by what went wrong.
type Error struct {
	Kind Kind
	// Status is only set for KindHttpStatus.
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out"
	case KindConnection:
		return fmt.Sprintf("connection error: %v", e.Err)
	case KindHttpStatus:
		return fmt.Sprintf("http error: %d", e.Status)
	case KindDecode:
		return fmt.Sprintf("json decode failed: %v", e.Err)
	default:
		return fmt.Sprintf("unknown error: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func StatusError(status int) *Error {
	return &Error{Kind: KindHttpStatus, Status: status}
}

func DecodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// Classify turns an error returned by the http client into an *Error.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return &Error{Kind: KindConnection, Err: err}
	}

	return &Error{Kind: KindUnknown, Err: err}
}
