package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means TMDB has no record for the requested id.
	ErrNotFound = errors.New("tmdb: not found")

	// ErrUnavailable means calls are being rejected without reaching TMDB
	// because the circuit breaker is open.
	ErrUnavailable = errors.New("tmdb: temporarily unavailable")

	// ErrRequestFailed wraps transport failures (DNS, refused, timeout).
	ErrRequestFailed = errors.New("tmdb: request failed")
)

// UpstreamError is a non-2xx, non-404 response from TMDB.
type UpstreamError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Endpoint, e.StatusCode)
}
