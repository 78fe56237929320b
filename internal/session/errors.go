package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSchedulerClosed reports a clean close where a work unit was expected.
	ErrSchedulerClosed = errors.New("session: scheduler closed connection")
	// ErrConnClosed is returned by any operation after Close.
	ErrConnClosed      = errors.New("session: connection closed")
)

// TransportError wraps a socket-level fault during one operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
