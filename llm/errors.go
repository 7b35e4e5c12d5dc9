package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// RemoteServiceError is returned when the service answers with a non-success
// status, or when the request never got an answer for a reason other than a
// timeout (Status is 0 then).
type RemoteServiceError struct {
	Status int
	Body   string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote service error: %v", e.Err)
	}
	return fmt.Sprintf("remote service error: %d - %s", e.Status, e.Body)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when no response arrived within After.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no response from remote service within %s", e.After)
}

// IsTransportFailure reports whether err came from the remote call itself.
func IsTransportFailure(err error) bool {
	var remote *RemoteServiceError
	var timeout *TimeoutError
	return errors.As(err, &remote) || errors.As(err, &timeout)
}

// classify turns a transport level error into a TimeoutError or a
// RemoteServiceError.
func classify(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{After: timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{After: timeout}
	}
	return &RemoteServiceError{Err: err}
}
