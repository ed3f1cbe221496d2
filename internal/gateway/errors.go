package gateway

import "fmt"

// RemoteError wraps a transport-level failure (connection refused, timeout,
// unparseable body). Callers never need to distinguish parse errors from
// network errors; both surface as RemoteError.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ServiceError is a well-formed error response from the backend. It carries
// the server-supplied message and nothing else.
type ServiceError struct {
	Op      string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func remoteErr(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}
