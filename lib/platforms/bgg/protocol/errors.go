package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed is returned when the request never produced a
	// response. It is never retried here, retrying is up to the caller.
	ErrConnectionFailed = errors.New("could not connect to bgg")
	// ErrBadResponse is returned when a response body could not be read or
	// decoded as text.
	ErrBadResponse = errors.New("received bad response from bgg")
	// ErrTooManyRequests is returned once the 429 backoff is exhausted.
	ErrTooManyRequests = errors.New("too many requests")
)

// RequestFailedError is returned for any status that is neither a success nor
// retried, it carries the status code so callers can inspect it.
type RequestFailedError struct {
	StatusCode int
}

func (e RequestFailedError) Error() string {
	return fmt.Sprintf("received bad status code from bgg: %d", e.StatusCode)
}

// StatusCode returns the code of a RequestFailedError wrapped in err.
func StatusCode(err error) (int, bool) {
	var failed RequestFailedError
	if errors.As(err, &failed) {
		return failed.StatusCode, true
	}
	return 0, false
}
