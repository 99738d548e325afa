package httpx

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when a request comes back 401/403 and no
	// retry is available for it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is returned when the single refresh-and-retry cycle
	// has been exhausted for a request.
	ErrSessionExpired = errors.New("session expired")

	// ErrTimeout is returned when a request exceeds the client deadline.
	ErrTimeout = errors.New("network timeout")

	// ErrUnavailable is returned when the circuit breaker is open.
	ErrUnavailable = errors.New("service unavailable")
)

// APIError carries a non-2xx response that is not an auth failure.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}
