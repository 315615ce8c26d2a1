package offline

import (
	"errors"
	"fmt"
)

var (
	ErrCacheUnavailable  = errors.New("cache storage unavailable")
	ErrInstallFailed     = errors.New("worker install failed")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrInvalidVersion    = errors.New("invalid worker version")
	ErrNoController      = errors.New("no active worker controls this origin")

	ErrInvalidCommand = errors.New("invalid control message")
	ErrUnknownCommand = errors.New("unknown control message type")
)

// NetworkError reports a fetch that never produced an HTTP response
// (DNS, refused connection, timeout, truncated body).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
