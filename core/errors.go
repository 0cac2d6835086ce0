package core

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by entry points that require a prior
// successful connect.
var ErrNotConnected = errors.New("not connected: call Connect first")

// AuthenticationError means the driver rejected the credentials or the
// multi-factor step was abandoned.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ConnectionError means the driver could not open a connection or the
// transport failed.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %s", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means the driver rejected a statement or its execution
// failed. The underlying driver error is preserved unmodified.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
