package session

import (
	goerrors "errors"
	"fmt"

	"github.com/pkg/errors"

	"github.com/hiredeck/hiredeck-go/httpx"
)

var (
	NotAuthenticatedErr   = goerrors.New("not authenticated")
	IdentifierRequiredErr = goerrors.New("identifier is required")
	OTPRequiredErr        = goerrors.New("otp is required")
)

// ErrorKind classifies login/verify failures so UI code can branch without
// string matching. These operations return *Error and nothing else; transport
// details never leak to callers untyped.
type ErrorKind string

const (
	KindCredential ErrorKind = "credential" // rejected OTP or token
	KindNetwork    ErrorKind = "network"    // connectivity failure
	KindTimeout    ErrorKind = "timeout"    // request deadline exceeded
	KindServer     ErrorKind = "server"     // 5xx from the backend
	KindThrottled  ErrorKind = "throttled"  // client-side OTP send limit
	KindValidation ErrorKind = "validation" // empty identifier/otp
)

// Error is the result type of session operations that must not surface raw
// transport errors.
type Error struct {
	Kind  ErrorKind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("session: %s", e.Kind)
	}
	return fmt.Sprintf("session: %s: %s", e.Kind, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf extracts the ErrorKind from err, or "" if err is not a session Error.
func KindOf(err error) ErrorKind {
	var sessionErr *Error
	if errors.As(err, &sessionErr) {
		return sessionErr.Kind
	}
	return ""
}

// classify maps a transport error onto an ErrorKind.
func classify(err error) *Error {
	var apiErr *httpx.APIError
	switch {
	case errors.Is(err, httpx.ErrTimeout):
		return &Error{Kind: KindTimeout, cause: err}
	case errors.Is(err, httpx.ErrUnavailable):
		return &Error{Kind: KindNetwork, cause: err}
	case errors.Is(err, httpx.ErrUnauthorized), errors.Is(err, httpx.ErrSessionExpired):
		return &Error{Kind: KindCredential, cause: err}
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 500 {
			return &Error{Kind: KindServer, cause: err}
		}
		return &Error{Kind: KindCredential, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}
