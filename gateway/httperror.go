package gateway

import (
	"errors"
	"fmt"
)

// ErrMissingCode reports an authorization callback without a code
var ErrMissingCode = errors.New("authorization code is missing")

// ErrNotAuthorized reports missing stored credentials
var ErrNotAuthorized = errors.New("access token or company id is missing")

// UpstreamError reports errors reaching the remote QuickBooks service,
// carrying the upstream status and response body where available.
// A code of 0 means the call did not complete at the transport level.
type UpstreamError struct {
	op      string
	code    int
	message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status: %d message: %s", e.op, e.code, e.message)
}

// PersistenceError reports a credential file that could not be read,
// parsed or written
type PersistenceError struct {
	path string
	err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("credential file %s: %s", e.path, e.err)
}

func (e *PersistenceError) Unwrap() error {
	return e.err
}
